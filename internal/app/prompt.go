package app

import (
	"fmt"
	"unicode"

	"github.com/dshills/void/internal/engine/gapbuffer"
	"github.com/dshills/void/internal/input/command"
	"github.com/dshills/void/internal/input/key"
	"github.com/dshills/void/internal/renderer"
)

// promptKind is what a submitted path is used for.
type promptKind uint8

const (
	promptOpen promptKind = iota
	promptSaveAs
)

func (k promptKind) label() string {
	if k == promptSaveAs {
		return "Save as"
	}
	return "Open"
}

// promptResult is the outcome of one key in a prompt.
type promptResult uint8

const (
	promptPending promptResult = iota
	promptSubmit
	promptCancel
)

// prompt is the single-line path input shown on the status line.
type prompt struct {
	kind   promptKind
	buf    *gapbuffer.Buffer
	cursor int
}

func newPrompt(kind promptKind, initial string) *prompt {
	buf := gapbuffer.NewFromString(initial)
	return &prompt{kind: kind, buf: buf, cursor: buf.Len()}
}

// Text returns the current input.
func (p *prompt) Text() string {
	return p.buf.String()
}

// HandleKey edits the input or ends the prompt.
func (p *prompt) HandleKey(ev key.Event) promptResult {
	mods := ev.Modifiers
	switch ev.Key {
	case key.KeyEnter:
		return promptSubmit
	case key.KeyEscape:
		return promptCancel
	case key.KeyBackspace:
		if p.cursor > 0 {
			p.cursor--
			must(p.buf.Delete(p.cursor))
		}
	case key.KeyDelete:
		if p.cursor < p.buf.Len() {
			must(p.buf.Delete(p.cursor))
		}
	case key.KeyLeft:
		p.cursor = max(0, p.cursor-1)
	case key.KeyRight:
		p.cursor = min(p.buf.Len(), p.cursor+1)
	case key.KeyHome:
		p.cursor = 0
	case key.KeyEnd:
		p.cursor = p.buf.Len()
	case key.KeyRune:
		if mods.IsChord() {
			return promptPending
		}
		if ev.Rune != 0 && command.Insertable(ev.Rune) && !unicode.IsControl(ev.Rune) {
			must(p.buf.InsertRune(p.cursor, ev.Rune))
			p.cursor++
		}
	}
	return promptPending
}

// View returns the prompt as the renderer draws it.
func (p *prompt) View() *renderer.Prompt {
	return &renderer.Prompt{
		Label:  p.kind.label(),
		Input:  p.Text(),
		Cursor: p.cursor,
	}
}

// must panics on a gap buffer error. The cursor is kept within the input,
// so an error means the prompt's own bookkeeping is broken.
func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("prompt: %v", err))
	}
}
