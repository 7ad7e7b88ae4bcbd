package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/void/internal/config/loader"
)

// File names searched for in the config directory, in order.
var fileNames = []string{"config.toml", "config.yaml", "config.yml"}

// Loader resolves and reads the configuration layers.
type Loader struct {
	fs      loader.FileSystem
	path    string
	dir     string
	environ func() []string
}

// Option configures a Loader.
type Option func(*Loader)

// WithPath sets an explicit config file. A missing explicit file is
// reported as ErrFileNotFound.
func WithPath(path string) Option {
	return func(l *Loader) {
		l.path = path
	}
}

// WithDir sets the config directory searched when no explicit path is set.
func WithDir(dir string) Option {
	return func(l *Loader) {
		l.dir = dir
	}
}

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithEnviron sets the environment source. Passing nil disables the
// environment layer.
func WithEnviron(environ func() []string) Option {
	return func(l *Loader) {
		l.environ = environ
	}
}

// NewLoader creates a Loader reading the OS file system and environment.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		fs:      loader.DefaultFS(),
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.dir == "" {
		l.dir = DefaultDir()
	}
	return l
}

// Dir returns the config directory.
func (l *Loader) Dir() string {
	return l.dir
}

// ThemeDir returns the directory holding user themes.
func (l *Loader) ThemeDir() string {
	return filepath.Join(l.dir, "themes")
}

// FileSystem returns the file system config files are read from.
func (l *Loader) FileSystem() loader.FileSystem {
	return l.fs
}

// Path returns the config file Load reads: the explicit path if set, else
// the first existing file in the config directory. It returns the default
// TOML location when no file exists yet.
func (l *Loader) Path() string {
	if l.path != "" {
		return l.path
	}
	for _, name := range fileNames {
		p := filepath.Join(l.dir, name)
		if loader.Exists(l.fs, p) {
			return p
		}
	}
	return filepath.Join(l.dir, fileNames[0])
}

// Load merges defaults, the user file and the environment. The returned
// Config is always usable; the error joins every problem encountered.
func (l *Loader) Load() (Config, error) {
	var errs []error
	merged := defaultMap()

	data, err := l.loadFile()
	if err != nil {
		errs = append(errs, err)
	}
	merged = loader.DeepMerge(merged, data)

	if l.environ != nil {
		env, err := loader.NewEnvLoaderWithEnviron(loader.DefaultEnvPrefix, l.environ).Load()
		if err != nil {
			errs = append(errs, fmt.Errorf("environment: %w", err))
		}
		merged = loader.DeepMerge(merged, env)
	}

	cfg, problems := FromMap(merged)
	errs = append(errs, problems...)
	return cfg, errors.Join(errs...)
}

func (l *Loader) loadFile() (map[string]any, error) {
	path := l.Path()
	if l.path != "" && !loader.Exists(l.fs, path) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	fl, err := loader.ForPath(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fl.Load()
}

// DefaultDir returns $XDG_CONFIG_HOME/void, falling back to ~/.config/void.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "void")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "void")
	}
	return filepath.Join(home, ".config", "void")
}
