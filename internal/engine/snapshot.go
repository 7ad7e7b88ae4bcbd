package engine

// Snapshot is a read-only copy of a window of lines and the caret
// position, taken after a frame's mutations have been applied.
type Snapshot struct {
	first     int
	lines     []string
	lineCount int
	caretRow  int
	caretCol  int
	caretOff  int
	version   uint64
}

// Snapshot copies up to count lines starting at line first. A count below
// zero copies every line from first on.
func (e *Engine) Snapshot(first, count int) Snapshot {
	total := e.LineCount()
	first = max(0, min(first, total))
	end := total
	if count >= 0 {
		end = min(total, first+count)
	}

	lines := make([]string, 0, end-first)
	for i := first; i < end; i++ {
		lines = append(lines, e.LineText(i))
	}

	return Snapshot{
		first:     first,
		lines:     lines,
		lineCount: total,
		caretRow:  e.CaretRow(),
		caretCol:  e.CaretCol(),
		caretOff:  e.CaretLineOffset(),
		version:   e.Version(),
	}
}

// LineCount returns the document's total line count.
func (s Snapshot) LineCount() int {
	return s.lineCount
}

// FirstLine returns the first line held by the snapshot.
func (s Snapshot) FirstLine() int {
	return s.first
}

// LineText returns line i of the document, or "" when the line is outside
// the copied window.
func (s Snapshot) LineText(i int) string {
	i -= s.first
	if i < 0 || i >= len(s.lines) {
		return ""
	}
	return s.lines[i]
}

// CaretRow returns the caret's line.
func (s Snapshot) CaretRow() int {
	return s.caretRow
}

// CaretCol returns the caret's visual column.
func (s Snapshot) CaretCol() int {
	return s.caretCol
}

// CaretLineOffset returns the caret's rune offset from its line start.
func (s Snapshot) CaretLineOffset() int {
	return s.caretOff
}

// Version returns the buffer version the snapshot was taken at.
func (s Snapshot) Version() uint64 {
	return s.version
}
