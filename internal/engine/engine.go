package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/void/internal/engine/caret"
	"github.com/dshills/void/internal/engine/gapbuffer"
	"github.com/dshills/void/internal/engine/lineindex"
	"github.com/dshills/void/internal/input/command"
	"github.com/dshills/void/internal/input/key"
)

// Stats reports the work done by the storage layers.
type Stats struct {
	gapbuffer.Stats

	// IndexBuilds is the number of line index rebuilds.
	IndexBuilds int
}

// Engine is the editing facade over a gap buffer, its line index and the
// caret.
type Engine struct {
	buf   *gapbuffer.Buffer
	lines *lineindex.Index
	caret caret.Caret

	// goalCol is the visual column vertical moves aim for. It survives a
	// run of Up/Down commands and is dropped by anything else.
	goalCol  int
	haveGoal bool

	tabSize     int
	growSize    int
	initContent string
}

// New creates an Engine with the given options. The content always ends
// with a newline, so a fresh engine holds "\n".
func New(opts ...Option) *Engine {
	e := &Engine{
		tabSize:  DefaultTabSize,
		growSize: DefaultGrowSize,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.buf = gapbuffer.New(gapbuffer.WithGrowSize(e.growSize))
	e.lines = lineindex.New()
	e.Load(e.initContent)
	e.initContent = ""
	return e
}

// Normalize returns text as the engine stores it: terminated by '\n'.
// Normalize is idempotent.
func Normalize(text string) string {
	if strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}

// Load replaces the content with text and moves the caret to the start.
// Load never fails.
func (e *Engine) Load(text string) {
	e.buf.Reset()
	must(e.buf.Insert(0, Normalize(text)))
	e.caret = caret.New(0)
	e.haveGoal = false
	e.refresh()
}

// Reset empties the document.
func (e *Engine) Reset() {
	e.Load("")
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full content.
func (e *Engine) Text() string {
	return e.buf.String()
}

// Len returns the content length in runes.
func (e *Engine) Len() int {
	return e.buf.Len()
}

// Version returns the buffer version, bumped by every content change.
func (e *Engine) Version() uint64 {
	return e.buf.Version()
}

// LineCount returns the number of lines. Content ending in '\n' has an
// empty final line after it.
func (e *Engine) LineCount() int {
	return e.index().Count()
}

// LineText returns the text of line i without its newline.
func (e *Engine) LineText(i int) string {
	return e.index().Text(e.buf, i)
}

// CaretOffset returns the caret's absolute offset.
func (e *Engine) CaretOffset() int {
	return e.caret.Pos()
}

// CaretRow returns the caret's line.
func (e *Engine) CaretRow() int {
	return caret.RowOf(e.caret.Pos(), e.index())
}

// CaretCol returns the caret's screen column, with tabs expanded.
func (e *Engine) CaretCol() int {
	return caret.VisualCol(e.caret.Pos(), e.index(), e.buf, e.tabSize)
}

// CaretLineOffset returns the caret's rune offset from its line start.
func (e *Engine) CaretLineOffset() int {
	return caret.ColOf(e.caret.Pos(), e.index())
}

// TabSize returns the display width of a tab.
func (e *Engine) TabSize() int {
	return e.tabSize
}

// SetTabSize changes the display width of a tab. Values below 1 are ignored.
func (e *Engine) SetTabSize(size int) {
	if size > 0 {
		e.tabSize = size
		e.haveGoal = false
	}
}

// Stats returns storage instrumentation.
func (e *Engine) Stats() Stats {
	return Stats{Stats: e.buf.Stats(), IndexBuilds: e.lines.Builds()}
}

// ============================================================================
// Write Operations
// ============================================================================

// SetCaret moves the caret, clamped to [0, Len()].
func (e *Engine) SetCaret(pos int) {
	e.caret = caret.New(pos).Clamp(e.buf.Len())
	e.haveGoal = false
}

// Insert inserts text at offset at. The caret is shifted when it lies at
// or after at.
func (e *Engine) Insert(at int, text string) error {
	if err := e.buf.Insert(at, text); err != nil {
		return err
	}
	if e.caret.Pos() >= at {
		e.caret = e.caret.MoveBy(utf8.RuneCountInString(text))
	}
	e.finishEdit()
	return nil
}

// Delete removes the rune at offset at. The caret is shifted when it lies
// after at.
func (e *Engine) Delete(at int) error {
	if err := e.buf.Delete(at); err != nil {
		return err
	}
	if e.caret.Pos() > at {
		e.caret = e.caret.MoveBy(-1)
	}
	e.finishEdit()
	return nil
}

// InsertText inserts text at the caret as a single edit and advances the
// caret past it. It returns the number of runes inserted.
func (e *Engine) InsertText(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	must(e.buf.Insert(e.caret.Pos(), text))
	e.caret = e.caret.MoveBy(n)
	e.finishEdit()
	return n
}

// HandleKey resolves ev and executes the resulting command.
func (e *Engine) HandleKey(ev key.Event) command.Action {
	return e.Execute(command.Resolve(ev))
}

// Execute applies an edit or motion command and returns the delegated
// action, if any. Delegated commands leave the engine untouched.
func (e *Engine) Execute(cmd command.Command) command.Action {
	if !cmd.Op.IsVertical() {
		e.haveGoal = false
	}

	pos := e.caret.Pos()
	n := e.buf.Len()

	switch cmd.Op {
	case command.OpInsertChar:
		if cmd.Rune != 0 {
			e.insertRune(cmd.Rune)
		}
	case command.OpInsertNewline:
		e.insertRune('\n')
	case command.OpInsertTab:
		e.insertRune('\t')

	case command.OpDeleteBackward:
		if pos > 0 {
			must(e.buf.Delete(pos - 1))
			e.caret = e.caret.MoveBy(-1)
			e.finishEdit()
		}
	case command.OpDeleteForward:
		if pos < n {
			must(e.buf.Delete(pos))
			e.finishEdit()
		}
	case command.OpDeleteWordLeft:
		count := e.scanLeft(pos)
		for i := 0; i < count; i++ {
			must(e.buf.Delete(pos - 1 - i))
		}
		if count > 0 {
			e.caret = e.caret.MoveBy(-count)
			e.finishEdit()
		}
	case command.OpDeleteWordRight:
		count := e.scanRight(pos)
		for i := 0; i < count; i++ {
			must(e.buf.Delete(pos))
		}
		if count > 0 {
			e.finishEdit()
		}

	case command.OpMoveLeft:
		if pos > 0 {
			e.caret = e.caret.MoveBy(-1)
		}
	case command.OpMoveRight:
		if pos+1 < n {
			e.caret = e.caret.MoveBy(1)
		}
	case command.OpMoveUp:
		e.moveVertical(-1)
	case command.OpMoveDown:
		e.moveVertical(1)
	case command.OpWordLeft:
		e.caret = e.caret.MoveBy(-e.scanLeft(pos))
	case command.OpWordRight:
		e.caret = e.caret.MoveBy(e.scanRight(pos))
	case command.OpLineStart:
		e.caret = e.caret.MoveTo(e.index().Span(e.CaretRow()).Start)
	case command.OpLineEnd:
		e.caret = e.caret.MoveTo(e.index().Span(e.CaretRow()).End)
	case command.OpDocumentStart:
		e.caret = e.caret.MoveTo(0)
	case command.OpDocumentEnd:
		e.caret = e.caret.MoveTo(n)
	}

	return cmd.Action()
}

func (e *Engine) insertRune(r rune) {
	must(e.buf.InsertRune(e.caret.Pos(), r))
	e.caret = e.caret.MoveBy(1)
	e.finishEdit()
}

func (e *Engine) moveVertical(delta int) {
	idx := e.index()
	pos := e.caret.Pos()
	row := caret.RowOf(pos, idx)

	if !e.haveGoal {
		e.goalCol = caret.VisualCol(pos, idx, e.buf, e.tabSize)
		e.haveGoal = true
	}

	target := max(0, min(idx.Count()-1, row+delta))
	e.caret = caret.New(caret.ClampToLine(target, e.goalCol, idx, e.buf, e.tabSize))
}

// isWordRune classifies r for word motion and word deletion. An underscore
// only counts once a word has started.
func isWordRune(r rune, inWord bool) bool {
	return unicode.IsLetter(r) || (inWord && r == '_')
}

// scanRight returns how many runes from pos a word jump to the right
// covers: any non-word runes, then the word after them.
func (e *Engine) scanRight(pos int) int {
	count := 0
	inWord := false
	for i := pos; i < e.buf.Len(); i++ {
		r, _ := e.buf.RuneAt(i)
		if isWordRune(r, inWord) {
			inWord = true
		} else if inWord {
			break
		}
		count++
	}
	return count
}

// scanLeft is scanRight mirrored, reading the runes before pos.
func (e *Engine) scanLeft(pos int) int {
	count := 0
	inWord := false
	for i := pos - 1; i >= 0; i-- {
		r, _ := e.buf.RuneAt(i)
		if isWordRune(r, inWord) {
			inWord = true
		} else if inWord {
			break
		}
		count++
	}
	return count
}

// finishEdit restores the content invariants after a mutation: the trailing
// newline, the caret bounds and a current line index.
func (e *Engine) finishEdit() {
	n := e.buf.Len()
	if r, ok := e.buf.RuneAt(n - 1); !ok || r != '\n' {
		must(e.buf.InsertRune(n, '\n'))
	}
	e.caret = e.caret.Clamp(e.buf.Len())
	e.refresh()
}

// refresh rebuilds the line index if the buffer changed since it was built.
func (e *Engine) refresh() {
	if e.lines.Version() != e.buf.Version() || e.lines.Builds() == 0 {
		e.lines.Rebuild(e.buf, e.buf.Version())
	}
}

// index returns a line index that matches the current buffer.
func (e *Engine) index() *lineindex.Index {
	e.refresh()
	return e.lines
}
