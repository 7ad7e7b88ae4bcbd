// Package backend abstracts the terminal the editor draws on and reads
// keys from.
package backend

import (
	"sync"

	"github.com/dshills/void/internal/input/key"
	"github.com/dshills/void/internal/renderer/core"
)

// EventType identifies the kind of input event.
type EventType int

const (
	// EventNone is returned when no meaningful event occurred.
	EventNone EventType = iota
	// EventKey is a key-down edge.
	EventKey
	// EventKeyRelease is a key-up edge.
	EventKeyRelease
	// EventResize reports a new screen size.
	EventResize
	// EventInterrupt wakes a blocked PollEvent, for example on shutdown.
	EventInterrupt
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventKeyRelease:
		return "key-release"
	case EventResize:
		return "resize"
	case EventInterrupt:
		return "interrupt"
	default:
		return "none"
	}
}

// Event is an input event.
type Event struct {
	Type EventType

	// Key is set for EventKey and EventKeyRelease.
	Key key.Event

	// Width and Height are set for EventResize.
	Width, Height int
}

// KeyEvent returns a key-down event.
func KeyEvent(ev key.Event) Event {
	return Event{Type: EventKey, Key: ev}
}

// KeyReleaseEvent returns a key-up event.
func KeyReleaseEvent(ev key.Event) Event {
	return Event{Type: EventKeyRelease, Key: ev}
}

// Backend is the interface for terminal backends.
type Backend interface {
	// Init initializes the backend. Must be called before use.
	Init() error

	// Shutdown restores the terminal and unblocks PollEvent.
	Shutdown()

	// Size returns the screen size in cells.
	Size() (width, height int)

	// SetCell sets the cell at (x, y). Out of range cells are ignored.
	SetCell(x, y int, cell core.Cell)

	// Clear fills the screen with blank cells.
	Clear()

	// Show flushes pending changes to the screen.
	Show()

	// ShowCursor shows the terminal cursor at (x, y).
	ShowCursor(x, y int)

	// HideCursor hides the terminal cursor.
	HideCursor()

	// PollEvent blocks until an event is available.
	PollEvent() Event

	// PostEvent queues an event for PollEvent.
	PostEvent(event Event)
}

// NullBackend is an in-memory Backend for tests and headless use.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	shows         int

	queue    []Event
	wake     chan struct{}
	done     chan struct{}
	shutOnce sync.Once
}

// NewNullBackend creates a NullBackend of the given size.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	b.resize(width, height)
	return b
}

// Init implements Backend.
func (b *NullBackend) Init() error { return nil }

// Shutdown implements Backend.
func (b *NullBackend) Shutdown() {
	b.shutOnce.Do(func() { close(b.done) })
}

// Size implements Backend.
func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// SetCell implements Backend.
func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

// Cell returns the cell at (x, y).
func (b *NullBackend) Cell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

// Row returns the runes of row y as a string.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	rs := make([]rune, 0, b.width)
	for _, c := range b.cells[y] {
		if c.Rune != 0 {
			rs = append(rs, c.Rune)
		}
	}
	return string(rs)
}

// Clear implements Backend.
func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = core.EmptyCell()
		}
	}
}

// Show implements Backend.
func (b *NullBackend) Show() {
	b.mu.Lock()
	b.shows++
	b.mu.Unlock()
}

// Shows returns how many frames were flushed.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// ShowCursor implements Backend.
func (b *NullBackend) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX, b.cursorY, b.cursorVisible = x, y, true
}

// HideCursor implements Backend.
func (b *NullBackend) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorVisible = false
}

// CursorPosition returns the terminal cursor state.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorX, b.cursorY, b.cursorVisible
}

// PollEvent implements Backend. After Shutdown it returns EventInterrupt
// once the queue is drained.
func (b *NullBackend) PollEvent() Event {
	for {
		b.mu.Lock()
		if len(b.queue) > 0 {
			ev := b.queue[0]
			b.queue = b.queue[1:]
			b.mu.Unlock()
			return ev
		}
		b.mu.Unlock()

		select {
		case <-b.wake:
		case <-b.done:
			b.mu.Lock()
			empty := len(b.queue) == 0
			b.mu.Unlock()
			if empty {
				return Event{Type: EventInterrupt}
			}
		}
	}
}

// PostEvent implements Backend. The queue is unbounded, so posting never
// blocks and never loses an event.
func (b *NullBackend) PostEvent(event Event) {
	b.mu.Lock()
	b.queue = append(b.queue, event)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of posted events not yet polled.
func (b *NullBackend) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Resize changes the screen size and queues an EventResize.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.resize(width, height)
	b.mu.Unlock()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

func (b *NullBackend) resize(width, height int) {
	b.width = max(0, width)
	b.height = max(0, height)
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
}
