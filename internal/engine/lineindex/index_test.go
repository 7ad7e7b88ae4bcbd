package lineindex

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// runes adapts a string to Source.
type runes []rune

func (r runes) Len() int { return len(r) }

func (r runes) RuneAt(i int) (rune, bool) {
	if i < 0 || i >= len(r) {
		return 0, false
	}
	return r[i], true
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Span
	}{
		{"empty", "", []Span{{0, 0}}},
		{"newline only", "\n", []Span{{0, 0}, {1, 1}}},
		{"single line", "hello\n", []Span{{0, 5}, {6, 6}}},
		{"no trailing newline", "ab\ncd", []Span{{0, 2}, {3, 5}}},
		{"two lines", "hello\nworld\n", []Span{{0, 5}, {6, 11}, {12, 12}}},
		{"blank lines", "\n\nx\n", []Span{{0, 0}, {1, 1}, {2, 3}, {4, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := Build(runes(tt.text), 7)

			got := idx.Spans()
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d spans, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
			if idx.Version() != 7 {
				t.Errorf("expected version 7, got %d", idx.Version())
			}
		})
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	src := runes("one\ntwo\nthree\n")
	idx := Build(src, 1)
	first := idx.Spans()

	idx.Rebuild(src, 1)
	second := idx.Spans()

	if len(first) != len(second) {
		t.Fatalf("span count changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("span %d changed: %v -> %v", i, first[i], second[i])
		}
	}
	if idx.Builds() != 2 {
		t.Errorf("expected 2 builds, got %d", idx.Builds())
	}
}

func TestLineOf(t *testing.T) {
	idx := Build(runes("hello\nworld\n"), 0)

	tests := []struct {
		pos  int
		want int
	}{
		{0, 0},
		{3, 0},
		{5, 0}, // the newline belongs to its own line
		{6, 1},
		{7, 1},
		{11, 1},
		{12, 2},
		{99, 0},
		{-1, 0},
	}

	for _, tt := range tests {
		if got := idx.LineOf(tt.pos); got != tt.want {
			t.Errorf("LineOf(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestSpanClamps(t *testing.T) {
	idx := Build(runes("a\nb\n"), 0)

	if got := idx.Span(-3); got != (Span{0, 1}) {
		t.Errorf("Span(-3) = %v", got)
	}
	if got := idx.Span(10); got != (Span{4, 4}) {
		t.Errorf("Span(10) = %v", got)
	}
}

func TestText(t *testing.T) {
	src := runes("héllo\n\tworld\n")
	idx := Build(src, 0)

	want := []string{"héllo", "\tworld", ""}
	for i, w := range want {
		if got := idx.Text(src, i); got != w {
			t.Errorf("Text(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestReconstruction(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z\t \n]{0,80}`).Draw(t, "text")
		src := runes(text)
		idx := Build(src, 0)

		lines := make([]string, idx.Count())
		for i := range lines {
			lines[i] = idx.Text(src, i)
		}
		if got := strings.Join(lines, "\n"); got != text {
			t.Fatalf("joined lines %q, want %q", got, text)
		}

		for pos := 0; pos <= len(src); pos++ {
			line := idx.LineOf(pos)
			if !idx.Span(line).Contains(pos) {
				t.Fatalf("LineOf(%d) = %d whose span %v does not contain it", pos, line, idx.Span(line))
			}
		}
	})
}
