package engine

import "github.com/dshills/void/internal/engine/gapbuffer"

// Default configuration values.
const (
	DefaultTabSize  = 4
	DefaultGrowSize = gapbuffer.DefaultGrowSize
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine. It is normalized
// like Load.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithTabSize sets the display width of a tab.
func WithTabSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.tabSize = size
		}
	}
}

// WithGrowSize sets the gap buffer growth increment.
func WithGrowSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.growSize = n
		}
	}
}
