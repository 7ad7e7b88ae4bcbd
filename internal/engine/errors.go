package engine

import (
	"fmt"

	"github.com/dshills/void/internal/engine/gapbuffer"
)

// ErrOffsetOutOfRange indicates an offset is outside the buffer.
var ErrOffsetOutOfRange = gapbuffer.ErrOffsetOutOfRange

// must panics on a buffer contract violation. Commands compute every offset
// by clamped arithmetic, so an error here is a bug in the engine itself.
func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("engine: %v", err))
	}
}
