// Package viewport tracks which part of the document is on screen.
package viewport

// Viewport is the visible window over the document, in lines and screen
// columns.
type Viewport struct {
	topLine    int
	leftColumn int

	width  int
	height int

	// Scroll margins keep the caret this far from the edges.
	marginTop    int
	marginBottom int
	marginLeft   int
	marginRight  int
}

// New creates a viewport with the given size. Width and height are clamped
// to a minimum of 1.
func New(width, height int) *Viewport {
	v := &Viewport{
		marginTop:    2,
		marginBottom: 2,
		marginLeft:   4,
		marginRight:  4,
	}
	v.Resize(width, height)
	return v
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int {
	return v.topLine
}

// LeftColumn returns the first visible screen column.
func (v *Viewport) LeftColumn() int {
	return v.leftColumn
}

// Resize changes the viewport size.
func (v *Viewport) Resize(width, height int) {
	v.width = max(1, width)
	v.height = max(1, height)
}

// SetMargins sets the scroll margins.
func (v *Viewport) SetMargins(top, bottom, left, right int) {
	v.marginTop = max(0, top)
	v.marginBottom = max(0, bottom)
	v.marginLeft = max(0, left)
	v.marginRight = max(0, right)
}

// effectiveMargins shrinks the margins so they never overlap on a small
// viewport.
func (v *Viewport) effectiveMargins() (top, bottom, left, right int) {
	top, bottom = v.marginTop, v.marginBottom
	if top+bottom >= v.height {
		top = (v.height - 1) / 2
		bottom = (v.height - 1) / 2
	}
	left, right = v.marginLeft, v.marginRight
	if left+right >= v.width {
		left = (v.width - 1) / 2
		right = (v.width - 1) / 2
	}
	return top, bottom, left, right
}

// ScrollToReveal scrolls just enough to show line and col inside the
// margins. It reports whether the viewport moved.
func (v *Viewport) ScrollToReveal(line, col int) bool {
	top, bottom, left, right := v.effectiveMargins()
	oldTop, oldLeft := v.topLine, v.leftColumn

	if line < v.topLine+top {
		v.topLine = max(0, line-top)
	} else if line > v.topLine+v.height-1-bottom {
		v.topLine = line - v.height + 1 + bottom
	}

	if col < v.leftColumn+left {
		v.leftColumn = max(0, col-left)
	} else if col > v.leftColumn+v.width-1-right {
		v.leftColumn = col - v.width + 1 + right
	}

	return v.topLine != oldTop || v.leftColumn != oldLeft
}

// ClampToLines keeps the top line inside a document of lineCount lines.
func (v *Viewport) ClampToLines(lineCount int) {
	if v.topLine > lineCount-1 {
		v.topLine = max(0, lineCount-1)
	}
}

// Reset scrolls back to the origin.
func (v *Viewport) Reset() {
	v.topLine = 0
	v.leftColumn = 0
}

// LineToScreenRow returns the screen row of line, or -1 when it is not
// visible.
func (v *Viewport) LineToScreenRow(line int) int {
	if line < v.topLine || line >= v.topLine+v.height {
		return -1
	}
	return line - v.topLine
}
