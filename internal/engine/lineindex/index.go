// Package lineindex derives line boundaries from buffer content.
//
// An Index is an ordered table of line spans measured in the buffer's
// logical rune offsets. It is never patched in place: after every content
// mutation it is rebuilt with a single O(n) pass, and it remembers the
// buffer version it was built from so stale indexes can be detected.
package lineindex

import "sort"

// Source is the read view an Index is built from.
type Source interface {
	Len() int
	RuneAt(i int) (rune, bool)
}

// Span delimits one line. End is exclusive and points at the line's
// terminating newline, if any.
type Span struct {
	Start int
	End   int
}

// Len returns the number of runes in the line, excluding the newline.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether pos lies in the inclusive range [Start, End].
// A position on the terminating newline belongs to this line.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos <= s.End
}

// Index is the line table of a buffer.
type Index struct {
	spans   []Span
	version uint64
	builds  int
}

// New returns an index describing an empty document.
func New() *Index {
	return &Index{spans: []Span{{}}}
}

// Build creates an index for src tagged with version.
func Build(src Source, version uint64) *Index {
	idx := New()
	idx.Rebuild(src, version)
	return idx
}

// Rebuild recomputes every span from src.
//
// A line starts at offset 0 and right after each '\n'. Content ending in
// '\n' therefore has a final empty line, which keeps joining the line texts
// with '\n' equal to the full content.
func (x *Index) Rebuild(src Source, version uint64) {
	spans := x.spans[:0]
	start := 0
	n := src.Len()
	for i := 0; i < n; i++ {
		if r, _ := src.RuneAt(i); r == '\n' {
			spans = append(spans, Span{Start: start, End: i})
			start = i + 1
		}
	}
	spans = append(spans, Span{Start: start, End: n})

	x.spans = spans
	x.version = version
	x.builds++
}

// Version returns the buffer version the index was built from.
func (x *Index) Version() uint64 {
	return x.version
}

// Builds returns how many times the index has been rebuilt.
func (x *Index) Builds() int {
	return x.builds
}

// Count returns the number of lines. It is always at least one.
func (x *Index) Count() int {
	return len(x.spans)
}

// Span returns the span of line i, clamped to the valid line range.
func (x *Index) Span(i int) Span {
	if i < 0 {
		i = 0
	}
	if i >= len(x.spans) {
		i = len(x.spans) - 1
	}
	return x.spans[i]
}

// Spans returns a copy of the line table.
func (x *Index) Spans() []Span {
	out := make([]Span, len(x.spans))
	copy(out, x.spans)
	return out
}

// LineOf returns the first line whose inclusive range contains pos, or 0
// when no line does.
func (x *Index) LineOf(pos int) int {
	// Spans are sorted and disjoint, so the first span ending at or after
	// pos is the only candidate.
	i := sort.Search(len(x.spans), func(i int) bool {
		return x.spans[i].End >= pos
	})
	if i < len(x.spans) && x.spans[i].Contains(pos) {
		return i
	}
	return 0
}

// Text returns the text of line i read from src.
func (x *Index) Text(src Source, i int) string {
	span := x.Span(i)
	runes := make([]rune, 0, span.Len())
	for p := span.Start; p < span.End; p++ {
		r, ok := src.RuneAt(p)
		if !ok {
			break
		}
		runes = append(runes, r)
	}
	return string(runes)
}
