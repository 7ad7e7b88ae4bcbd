package renderer

import (
	"fmt"
	"path/filepath"
	"strconv"
	"unicode"

	"github.com/dshills/void/internal/renderer/backend"
	"github.com/dshills/void/internal/renderer/core"
	"github.com/dshills/void/internal/renderer/viewport"
	"github.com/dshills/void/internal/theme"
)

// DefaultTabSize is the tab width used when none is configured.
const DefaultTabSize = 4

// Document is the read view of the text the renderer draws. CaretCol is
// the document's visual column, shown on the status line; the caret cell
// itself is placed by screen width, where wide runes take two cells.
type Document interface {
	LineCount() int
	LineText(i int) string
	CaretRow() int
	CaretCol() int
	CaretLineOffset() int
}

// Prompt is an input line shown in place of the status text.
type Prompt struct {
	Label  string
	Input  string
	Cursor int // rune offset into Input
}

// Status is the content of the status line.
type Status struct {
	Path     string
	Modified bool
	Message  string
	Prompt   *Prompt
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTabSize sets the tab width.
func WithTabSize(size int) Option {
	return func(r *Renderer) {
		r.SetTabSize(size)
	}
}

// WithLineNumbers enables or disables the line number gutter.
func WithLineNumbers(enabled bool) Option {
	return func(r *Renderer) {
		r.lineNumbers = enabled
	}
}

// Renderer draws documents onto a backend.
type Renderer struct {
	be          backend.Backend
	theme       theme.Theme
	vp          *viewport.Viewport
	tabSize     int
	lineNumbers bool
}

// New creates a renderer drawing on be with th.
func New(be backend.Backend, th theme.Theme, opts ...Option) *Renderer {
	w, h := be.Size()
	r := &Renderer{
		be:          be,
		theme:       th,
		vp:          viewport.New(w, h-1),
		tabSize:     DefaultTabSize,
		lineNumbers: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Theme returns the current theme.
func (r *Renderer) Theme() theme.Theme {
	return r.theme
}

// SetTheme changes the colors used by the next frame.
func (r *Renderer) SetTheme(th theme.Theme) {
	r.theme = th
}

// SetTabSize sets the tab width. Values below 1 are ignored.
func (r *Renderer) SetTabSize(size int) {
	if size > 0 {
		r.tabSize = size
	}
}

// SetLineNumbers enables or disables the gutter.
func (r *Renderer) SetLineNumbers(enabled bool) {
	r.lineNumbers = enabled
}

// Viewport returns the text area viewport.
func (r *Renderer) Viewport() *viewport.Viewport {
	return r.vp
}

// ResetScroll scrolls back to the top of the document.
func (r *Renderer) ResetScroll() {
	r.vp.Reset()
}

// GutterWidth returns the width of the line number gutter, " N " sized to
// the widest line number.
func (r *Renderer) GutterWidth(lineCount int) int {
	if !r.lineNumbers {
		return 0
	}
	return len(strconv.Itoa(max(1, lineCount))) + 2
}

// ScreenColumn returns the screen column of rune offset off in line, with
// tabs expanded to tabSize cells.
func ScreenColumn(line string, off, tabSize int) int {
	col := 0
	i := 0
	for _, ch := range line {
		if i >= off {
			break
		}
		col += cellWidth(ch, tabSize)
		i++
	}
	return col
}

func cellWidth(ch rune, tabSize int) int {
	if ch == '\t' {
		return tabSize
	}
	return max(1, core.RuneWidth(ch))
}

// Render draws one frame.
func (r *Renderer) Render(doc Document, status Status) {
	w, h := r.be.Size()
	if w <= 0 || h <= 0 {
		return
	}

	textRows := h - 1
	lineCount := doc.LineCount()
	gutter := r.GutterWidth(lineCount)
	if gutter >= w {
		gutter = 0
	}

	caretRow := doc.CaretRow()
	screenCol := ScreenColumn(doc.LineText(caretRow), doc.CaretLineOffset(), r.tabSize)

	r.vp.Resize(w-gutter, textRows)
	r.vp.ScrollToReveal(caretRow, screenCol)
	r.vp.ClampToLines(lineCount)

	showCaret := status.Prompt == nil
	for y := 0; y < textRows; y++ {
		line := r.vp.TopLine() + y
		r.drawGutter(y, gutter, line, lineCount)
		r.fill(gutter, w, y, core.NewStyle(r.theme.Text, r.theme.Background))
		if line >= lineCount {
			continue
		}
		off := -1
		if showCaret && line == caretRow {
			off = doc.CaretLineOffset()
		}
		r.drawLine(y, gutter, w, doc.LineText(line), off)
	}

	r.drawStatus(h-1, w, status, caretRow, doc.CaretCol())
	r.be.HideCursor()
	r.be.Show()
}

func (r *Renderer) fill(from, to, y int, style core.Style) {
	blank := core.NewStyledCell(' ', style)
	for x := from; x < to; x++ {
		r.be.SetCell(x, y, blank)
	}
}

func (r *Renderer) drawGutter(y, width, line, lineCount int) {
	if width == 0 {
		return
	}
	style := core.NewStyle(r.theme.LineNumsText, r.theme.LineNumsBackground)
	r.fill(0, width, y, style)
	if line >= lineCount {
		return
	}
	r.drawText(0, width, y, fmt.Sprintf(" %*d ", width-2, line+1), style)
}

// drawLine draws one document line; caretOff is the caret's rune offset
// on this line or -1.
func (r *Renderer) drawLine(y, gutter, width int, text string, caretOff int) {
	textStyle := core.NewStyle(r.theme.Text, r.theme.Background)
	left := r.vp.LeftColumn()

	col := 0
	i := 0
	caretDrawn := false
	for _, ch := range text {
		cw := cellWidth(ch, r.tabSize)
		glyph := ch
		if ch == '\t' {
			glyph = ' '
		} else if unicode.IsControl(ch) {
			glyph = '?'
		}

		if i == caretOff {
			r.drawCaret(gutter+col-left, width, y, glyph)
			caretDrawn = true
		}
		for c := 0; c < cw; c++ {
			x := gutter + col + c - left
			if x < gutter || x >= width {
				continue
			}
			if i == caretOff && c == 0 {
				continue
			}
			if ch == '\t' || c == 0 {
				r.be.SetCell(x, y, core.NewStyledCell(glyph, textStyle))
			}
		}
		col += cw
		i++
	}

	if caretOff >= 0 && !caretDrawn {
		r.drawCaret(gutter+col-left, width, y, ' ')
	}
}

func (r *Renderer) drawCaret(x, width, y int, under rune) {
	if x < 0 || x >= width {
		return
	}
	if unicode.IsSpace(under) {
		under = ' '
	}
	r.be.SetCell(x, y, core.NewStyledCell(under, core.NewStyle(r.theme.Background, r.theme.Caret)))
}

func (r *Renderer) drawText(x, limit, y int, s string, style core.Style) int {
	for _, ch := range s {
		if x >= limit {
			break
		}
		r.be.SetCell(x, y, core.NewStyledCell(ch, style))
		x += max(1, core.RuneWidth(ch))
	}
	return x
}

func (r *Renderer) drawStatus(y, width int, status Status, caretRow, caretCol int) {
	style := core.NewStyle(r.theme.Foreground, r.theme.StatusBackground())
	r.fill(0, width, y, style)

	if p := status.Prompt; p != nil {
		x := r.drawText(0, width, y, " "+p.Label+": ", style)
		before := []rune(p.Input)
		cursor := max(0, min(p.Cursor, len(before)))
		caretX := x + core.StringWidth(string(before[:cursor]))
		r.drawText(x, width, y, p.Input, style)

		under := ' '
		if cursor < len(before) {
			under = before[cursor]
		}
		r.drawCaret(caretX, width, y, under)
		return
	}

	name := status.Path
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}
	if status.Modified {
		name += " [+]"
	}
	left := " " + name
	if status.Message != "" {
		left += "  " + status.Message
	}
	right := fmt.Sprintf("Ln %d, Col %d ", caretRow+1, caretCol+1)

	end := r.drawText(0, width, y, core.Truncate(left, width), style)
	rx := width - core.StringWidth(right)
	if rx > end {
		r.drawText(rx, width, y, right, style)
	}
}
