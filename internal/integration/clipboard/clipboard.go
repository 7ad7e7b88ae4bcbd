// Package clipboard reads text from the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// Errors returned by readers.
var (
	// ErrEmpty indicates the clipboard holds no text.
	ErrEmpty = errors.New("clipboard is empty")

	// ErrUnsupported indicates no clipboard utility is available.
	ErrUnsupported = errors.New("clipboard not supported on this system")
)

// Reader reads the clipboard's text content.
type Reader interface {
	ReadText() (string, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func() (string, error)

// ReadText calls f.
func (f ReaderFunc) ReadText() (string, error) {
	return f()
}

// System is the operating system clipboard.
type System struct{}

// ReadText returns the clipboard text.
func (System) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// Static is an in-memory clipboard.
type Static struct {
	Text string
}

// ReadText returns the stored text, or ErrEmpty.
func (s *Static) ReadText() (string, error) {
	if s.Text == "" {
		return "", ErrEmpty
	}
	return s.Text, nil
}
