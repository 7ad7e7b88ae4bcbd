// Package caret models the edit point of a document.
//
// The caret is a single absolute rune offset. Row and column are never
// stored; they are projections computed against a line index, so the two
// views cannot drift apart.
package caret

import (
	"fmt"

	"github.com/dshills/void/internal/engine/lineindex"
)

// Source is the rune view the derivations read tabs from.
type Source = lineindex.Source

// Caret is an insertion point. Caret is an immutable value type.
type Caret struct {
	pos int
}

// New creates a caret at pos. Negative offsets become 0.
func New(pos int) Caret {
	if pos < 0 {
		pos = 0
	}
	return Caret{pos: pos}
}

// Pos returns the caret's absolute offset.
func (c Caret) Pos() int {
	return c.pos
}

// MoveTo returns a caret at pos.
func (c Caret) MoveTo(pos int) Caret {
	return New(pos)
}

// MoveBy returns a caret shifted by delta.
func (c Caret) MoveBy(delta int) Caret {
	return New(c.pos + delta)
}

// Clamp returns a caret clamped to [0, limit].
func (c Caret) Clamp(limit int) Caret {
	if limit < 0 {
		limit = 0
	}
	if c.pos > limit {
		return Caret{pos: limit}
	}
	return c
}

// String returns a string representation of the caret.
func (c Caret) String() string {
	return fmt.Sprintf("Caret(%d)", c.pos)
}

// RowOf returns the line containing pos.
func RowOf(pos int, idx *lineindex.Index) int {
	return idx.LineOf(pos)
}

// ColOf returns the offset of pos from the start of its line.
func ColOf(pos int, idx *lineindex.Index) int {
	return pos - idx.Span(RowOf(pos, idx)).Start
}

// VisualCol returns the screen column of pos, where every tab before pos
// on the same line is tabSize columns wide.
func VisualCol(pos int, idx *lineindex.Index, src Source, tabSize int) int {
	span := idx.Span(RowOf(pos, idx))
	col := pos - span.Start
	if tabSize <= 1 {
		return col
	}

	tabs := 0
	for p := span.Start; p < pos; p++ {
		if r, _ := src.RuneAt(p); r == '\t' {
			tabs++
		}
	}
	return col + tabs*(tabSize-1)
}

// ClampToLine returns the offset on row whose visual column is as close to
// visualCol as possible without passing it. Lines shorter than visualCol
// snap to their end.
func ClampToLine(row, visualCol int, idx *lineindex.Index, src Source, tabSize int) int {
	span := idx.Span(row)
	if tabSize < 1 {
		tabSize = 1
	}

	width := 0
	for p := span.Start; p < span.End; p++ {
		w := 1
		if r, _ := src.RuneAt(p); r == '\t' {
			w = tabSize
		}
		if width+w > visualCol {
			return p
		}
		width += w
	}
	return span.End
}
