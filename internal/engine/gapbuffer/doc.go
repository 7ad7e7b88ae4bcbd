// Package gapbuffer provides the character storage used by the editor engine.
//
// A Buffer keeps its content in a single rune slice split by a movable gap
// of unused slots:
//
//	[ c a p y | _ _ _ _ _ _ | b a r a ]
//	          ^gapStart     ^gapEnd
//
// The logical content is data[:gapStart] followed by data[gapEnd:]. Before
// an insert or delete the gap is relocated to the edit point, so a caret that
// edits near its previous position only pays for the distance it moved since
// the last edit. When an insert would consume the whole gap, the slice is
// grown by a fixed increment.
//
// Basic usage:
//
//	buf := gapbuffer.New()
//	buf.Insert(0, "cara")  // "cara"
//	buf.Insert(2, "pyba")  // "capybara"
//	buf.Delete(0)          // "apybara"
//
// Offsets are rune offsets into the logical content. Passing an offset past
// the logical length returns ErrOffsetOutOfRange; callers are expected to
// clamp before calling.
//
// A Buffer is not safe for concurrent use. It is owned by a single editor
// session and mutated only from the update phase of a tick.
package gapbuffer
