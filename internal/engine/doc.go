// Package engine provides the text editing core of void.
//
// The engine combines three pieces into one facade:
//
//   - gapbuffer: rune storage with a movable gap for cheap local edits
//   - lineindex: line spans derived from the buffer, rebuilt after edits
//   - caret: the single edit point, held as an absolute offset
//
// # Commands
//
// Key events are resolved to commands by the input/command package and
// applied with Execute:
//
//	e := engine.New(engine.WithContent("foo bar"))
//	e.Execute(command.Command{Op: command.OpWordRight})
//	e.CaretOffset() // 3
//
// Edit and motion commands are applied in place. File and clipboard
// commands are not; Execute returns them as a command.Action for the
// caller to carry out, for example by reading the clipboard and passing
// the text to InsertText.
//
// # Invariants
//
// After every public mutating call the content ends with '\n' and the
// caret lies in [0, Len()]. The line index is tagged with the buffer
// version it was built from and is rebuilt whenever it is found stale,
// so readers never observe line spans from an older buffer.
//
// # Thread Safety
//
// An Engine is owned by a single goroutine. The frame loop mutates it and
// then renders from it; no locking is done.
package engine
