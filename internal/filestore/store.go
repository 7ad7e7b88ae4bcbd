package filestore

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Errors returned by the store.
var (
	// ErrNoPath indicates a save or load without a target path.
	ErrNoPath = errors.New("no file path")

	// ErrBinary indicates the file does not look like text.
	ErrBinary = errors.New("binary file")
)

// FilePerm is the mode new files are created with.
const FilePerm = 0o644

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store loads and saves document text.
type Store interface {
	Load(path string) (string, error)
	Save(path, content string) error
}

// FileStore is a Store backed by a FileSystem.
type FileStore struct {
	fs           FileSystem
	indentToTabs bool
	tabWidth     int
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithFileSystem sets the file system. The default is OSFS.
func WithFileSystem(fsys FileSystem) Option {
	return func(s *FileStore) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithIndentToTabs converts leading runs of width spaces to tabs on load.
func WithIndentToTabs(enabled bool, width int) Option {
	return func(s *FileStore) {
		s.indentToTabs = enabled
		if width > 0 {
			s.tabWidth = width
		}
	}
}

// New creates a FileStore.
func New(opts ...Option) *FileStore {
	s := &FileStore{fs: OSFS{}, tabWidth: 4}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the file at path as text. A UTF-8 byte order mark is dropped
// and invalid byte sequences become U+FFFD.
func (s *FileStore) Load(path string) (string, error) {
	if path == "" {
		return "", ErrNoPath
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", fmt.Errorf("load %s: %w", path, ErrBinary)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	if s.indentToTabs {
		text = Tabify(text, s.tabWidth)
	}
	return text, nil
}

// Save writes content to path.
func (s *FileStore) Save(path, content string) error {
	if path == "" {
		return ErrNoPath
	}
	if err := s.fs.WriteFile(path, []byte(content), FilePerm); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Tabify replaces each run of width spaces in the leading indentation of
// every line with a tab. Spaces after the first non-blank rune are kept.
func Tabify(text string, width int) string {
	if width < 1 {
		return text
	}
	unit := strings.Repeat(" ", width)

	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	sb.Grow(len(text))
	for _, line := range lines {
		body := strings.TrimLeft(line, " \t")
		indent := line[:len(line)-len(body)]
		sb.WriteString(tabifyIndent(indent, unit))
		sb.WriteString(body)
	}
	return sb.String()
}

func tabifyIndent(indent, unit string) string {
	var sb strings.Builder
	for indent != "" {
		switch {
		case strings.HasPrefix(indent, unit):
			sb.WriteByte('\t')
			indent = indent[len(unit):]
		default:
			sb.WriteByte(indent[0])
			indent = indent[1:]
		}
	}
	return sb.String()
}
