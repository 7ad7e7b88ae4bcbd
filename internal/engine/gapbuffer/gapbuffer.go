package gapbuffer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Filler is written into every slot inside the gap.
const Filler = ' '

// DefaultGrowSize is the number of slots added whenever the gap runs out.
const DefaultGrowSize = 10

// ErrOffsetOutOfRange is returned when an offset lies outside the content.
var ErrOffsetOutOfRange = errors.New("offset out of range")

// Stats reports how much work gap relocation and growth have done.
type Stats struct {
	// Moves is the number of gap relocations that shifted content.
	Moves int
	// Shifted is the total number of runes copied across the gap by moves.
	Shifted int
	// Grows is the number of reallocations.
	Grows int
}

// Buffer is a gap buffer of runes.
type Buffer struct {
	data     []rune
	gapStart int
	gapEnd   int

	growSize int
	version  uint64
	stats    Stats
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithGrowSize sets the growth increment. Values below 1 are ignored.
func WithGrowSize(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.growSize = n
		}
	}
}

// New creates an empty buffer whose gap spans the initial capacity.
func New(opts ...Option) *Buffer {
	b := &Buffer{growSize: DefaultGrowSize}
	for _, opt := range opts {
		opt(b)
	}

	b.data = make([]rune, b.growSize)
	fill(b.data)
	b.gapEnd = len(b.data)
	return b
}

// NewFromString creates a buffer holding s.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	// Inserting at 0 into an empty buffer cannot fail.
	_ = b.Insert(0, s)
	return b
}

// Len returns the logical length in runes.
func (b *Buffer) Len() int {
	return len(b.data) - (b.gapEnd - b.gapStart)
}

// Cap returns the number of allocated slots, including the gap.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Gap returns the current gap bounds.
func (b *Buffer) Gap() (start, end int) {
	return b.gapStart, b.gapEnd
}

// Version returns a counter bumped by every mutation.
func (b *Buffer) Version() uint64 {
	return b.version
}

// Stats returns relocation counters accumulated since creation or ResetStats.
func (b *Buffer) Stats() Stats {
	return b.stats
}

// ResetStats zeroes the relocation counters.
func (b *Buffer) ResetStats() {
	b.stats = Stats{}
}

// RuneAt returns the rune at logical offset i.
func (b *Buffer) RuneAt(i int) (rune, bool) {
	if i < 0 || i >= b.Len() {
		return utf8.RuneError, false
	}
	if i < b.gapStart {
		return b.data[i], true
	}
	return b.data[i+(b.gapEnd-b.gapStart)], true
}

// String returns the logical content.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow(b.Len())
	for _, r := range b.data[:b.gapStart] {
		sb.WriteRune(r)
	}
	for _, r := range b.data[b.gapEnd:] {
		sb.WriteRune(r)
	}
	return sb.String()
}

// Slice returns the content in [start, end).
func (b *Buffer) Slice(start, end int) (string, error) {
	if start < 0 || end > b.Len() || start > end {
		return "", fmt.Errorf("slice [%d, %d) of %d: %w", start, end, b.Len(), ErrOffsetOutOfRange)
	}

	var sb strings.Builder
	sb.Grow(end - start)
	for i := start; i < end; i++ {
		r, _ := b.RuneAt(i)
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// Insert inserts text so that its first rune lands at offset at.
func (b *Buffer) Insert(at int, text string) error {
	if at < 0 || at > b.Len() {
		return fmt.Errorf("insert at %d of %d: %w", at, b.Len(), ErrOffsetOutOfRange)
	}
	if text == "" {
		return nil
	}

	b.moveGap(at)
	b.ensureGap(utf8.RuneCountInString(text))
	for _, r := range text {
		b.data[b.gapStart] = r
		b.gapStart++
	}
	b.version++
	return nil
}

// InsertRune inserts a single rune at offset at.
func (b *Buffer) InsertRune(at int, r rune) error {
	if at < 0 || at > b.Len() {
		return fmt.Errorf("insert at %d of %d: %w", at, b.Len(), ErrOffsetOutOfRange)
	}

	b.moveGap(at)
	b.ensureGap(1)
	b.data[b.gapStart] = r
	b.gapStart++
	b.version++
	return nil
}

// Delete removes the rune at offset at.
//
// The gap is moved so that it starts right after at, then retracted by one
// slot, turning the deleted rune into filler.
func (b *Buffer) Delete(at int) error {
	if at < 0 || at >= b.Len() {
		return fmt.Errorf("delete at %d of %d: %w", at, b.Len(), ErrOffsetOutOfRange)
	}

	b.moveGap(at + 1)
	b.gapStart--
	b.data[b.gapStart] = Filler
	b.version++
	return nil
}

// Reset discards all content. The capacity is kept.
func (b *Buffer) Reset() {
	fill(b.data)
	b.gapStart = 0
	b.gapEnd = len(b.data)
	b.version++
}

// moveGap relocates the gap so that it starts at logical offset at.
func (b *Buffer) moveGap(at int) {
	switch {
	case at < b.gapStart:
		n := b.gapStart - at
		copy(b.data[b.gapEnd-n:b.gapEnd], b.data[at:b.gapStart])
		// Slots vacated by the shift that are now inside the gap.
		fill(b.data[at:min(b.gapStart, b.gapEnd-n)])
		b.gapStart -= n
		b.gapEnd -= n
		b.stats.Moves++
		b.stats.Shifted += n

	case at > b.gapStart:
		n := at - b.gapStart
		copy(b.data[b.gapStart:b.gapStart+n], b.data[b.gapEnd:b.gapEnd+n])
		fill(b.data[max(b.gapEnd, at):b.gapEnd+n])
		b.gapStart += n
		b.gapEnd += n
		b.stats.Moves++
		b.stats.Shifted += n
	}
}

// ensureGap grows the slice by whole increments until the gap holds n slots.
func (b *Buffer) ensureGap(n int) {
	free := b.gapEnd - b.gapStart
	if n <= free {
		return
	}

	steps := (n - free + b.growSize - 1) / b.growSize
	amount := steps * b.growSize

	data := make([]rune, len(b.data)+amount)
	copy(data, b.data[:b.gapStart])
	newGapEnd := b.gapEnd + amount
	copy(data[newGapEnd:], b.data[b.gapEnd:])
	fill(data[b.gapStart:newGapEnd])

	b.data = data
	b.gapEnd = newGapEnd
	b.stats.Grows++
}

func fill(s []rune) {
	for i := range s {
		s[i] = Filler
	}
}
