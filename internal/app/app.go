// Package app wires the editing engine to a terminal backend, the file
// store, the clipboard and the configuration layers, and runs the frame
// loop.
package app

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/void/internal/config"
	"github.com/dshills/void/internal/config/loader"
	"github.com/dshills/void/internal/config/watcher"
	"github.com/dshills/void/internal/engine"
	"github.com/dshills/void/internal/filestore"
	"github.com/dshills/void/internal/input/repeat"
	"github.com/dshills/void/internal/integration/clipboard"
	"github.com/dshills/void/internal/renderer"
	"github.com/dshills/void/internal/renderer/backend"
	"github.com/dshills/void/internal/theme"
)

// Application owns one document and drives it from backend input.
type Application struct {
	mu sync.Mutex

	opts   Options
	logger *Logger
	logOut io.Closer

	cfgLoader *config.Loader
	cfg       config.Config

	engine  *engine.Engine
	store   filestore.Store
	clip    clipboard.Reader
	repeat  *repeat.Scheduler
	backend backend.Backend
	render  *renderer.Renderer
	theme   theme.Theme

	// Document state.
	path         string
	savedVersion uint64
	message      string
	prompt       *prompt
	quitArmed    bool
	quit         bool

	// Feeds consumed by Step. pending is an event read ahead of its tick.
	input         <-chan backend.Event
	pending       *backend.Event
	configChanges <-chan struct{}
	configErrors  <-chan error

	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
}

// Options configures the application.
type Options struct {
	// ConfigPath is an explicit configuration file.
	ConfigPath string

	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// ConfigFS is the file system configuration and themes are read from.
	ConfigFS loader.FileSystem

	// Environ supplies the environment layer. Nil uses the process
	// environment.
	Environ func() []string

	// LogLevel sets the logging verbosity when Logger is nil.
	LogLevel string

	// LogFile is where logs go when Logger is nil. Empty disables logging.
	LogFile string

	// Logger overrides LogLevel and LogFile.
	Logger *Logger

	// Files are files to open on startup. Only the first is used.
	Files []string

	// WorkDir resolves relative paths and seeds the file prompt.
	WorkDir string

	// FileSystem is where documents are read and written.
	FileSystem filestore.FileSystem

	// Clipboard is the paste source. Nil uses the system clipboard.
	Clipboard clipboard.Reader
}

// New creates an Application: it loads the configuration, builds the
// engine and opens the startup file. Configuration and file problems are
// logged and shown on the status line; they do not fail New.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}

	if err := app.initLogger(); err != nil {
		return nil, &InitError{Component: "logger", Err: err}
	}
	app.bootstrap()
	return app, nil
}

func (app *Application) initLogger() error {
	logger := app.opts.Logger
	if logger == nil {
		level, _ := ParseLogLevel(app.opts.LogLevel)
		cfg := DefaultLoggerConfig()
		cfg.Level = level
		if app.opts.LogFile != "" {
			f, err := OpenLogFile(app.opts.LogFile)
			if err != nil {
				return err
			}
			cfg.Output = f
			app.logOut = f
		}
		logger = NewLogger(cfg)
	}
	app.logger = logger.WithField("session", uuid.NewString())
	return nil
}

// bootstrap initializes the components in dependency order.
func (app *Application) bootstrap() {
	log := app.logger.WithComponent("app")

	// 1. Configuration
	var cfgOpts []config.Option
	if app.opts.ConfigPath != "" {
		cfgOpts = append(cfgOpts, config.WithPath(app.opts.ConfigPath))
	}
	if app.opts.ConfigDir != "" {
		cfgOpts = append(cfgOpts, config.WithDir(app.opts.ConfigDir))
	}
	if app.opts.ConfigFS != nil {
		cfgOpts = append(cfgOpts, config.WithFileSystem(app.opts.ConfigFS))
	}
	if app.opts.Environ != nil {
		cfgOpts = append(cfgOpts, config.WithEnviron(app.opts.Environ))
	}
	app.cfgLoader = config.NewLoader(cfgOpts...)

	cfg, err := app.cfgLoader.Load()
	if err != nil {
		log.Warn("config %s: %v", app.cfgLoader.Path(), err)
		app.message = "config: " + err.Error()
	}

	// 2. Engine and input
	app.engine = engine.New(
		engine.WithTabSize(cfg.Editor.TabSize),
		engine.WithGrowSize(cfg.Editor.GapGrow),
	)
	app.repeat = repeat.New(cfg.Input.RepeatStartDelay, cfg.Input.RepeatInterval)

	// 3. Collaborators
	app.clip = app.opts.Clipboard
	if app.clip == nil {
		app.clip = clipboard.System{}
	}
	app.applyConfig(cfg)

	// 4. Startup file
	app.savedVersion = app.engine.Version()
	if len(app.opts.Files) > 1 {
		log.Warn("ignoring %d extra files", len(app.opts.Files)-1)
	}
	if len(app.opts.Files) > 0 {
		app.openStartupFile(app.opts.Files[0])
	}
	log.Info("started (config %s)", app.cfgLoader.Path())
}

// applyConfig installs cfg. The gap grow size only applies to new
// engines.
func (app *Application) applyConfig(cfg config.Config) {
	app.cfg = cfg

	fsys := app.opts.FileSystem
	if fsys == nil {
		fsys = filestore.OSFS{}
	}
	app.store = filestore.New(
		filestore.WithFileSystem(fsys),
		filestore.WithIndentToTabs(cfg.Editor.IndentToTabs, cfg.Editor.TabSize),
	)

	app.engine.SetTabSize(cfg.Editor.TabSize)
	app.repeat.SetTiming(cfg.Input.RepeatStartDelay, cfg.Input.RepeatInterval)

	th, err := theme.Load(app.cfgLoader.FileSystem(), app.cfgLoader.ThemeDir(), cfg.UI.Theme)
	if err != nil {
		app.logger.WithComponent("theme").Warn("%v", err)
		app.message = "theme: " + err.Error()
	}
	app.theme = th

	if app.render != nil {
		app.render.SetTheme(th)
		app.render.SetTabSize(cfg.Editor.TabSize)
		app.render.SetLineNumbers(cfg.Editor.LineNumbers)
	}
}

// reloadConfig re-reads the configuration layers and applies them.
func (app *Application) reloadConfig() {
	cfg, err := app.cfgLoader.Load()
	if err != nil {
		app.logger.WithComponent("config").Warn("reload %s: %v", app.cfgLoader.Path(), err)
		app.message = "config: " + err.Error()
	} else {
		app.message = "config reloaded"
	}
	app.applyConfig(cfg)
	app.logger.WithComponent("config").Info("reloaded %s", app.cfgLoader.Path())
}

// openStartupFile loads path. A file that does not exist yet becomes the
// target of the first save.
func (app *Application) openStartupFile(path string) {
	path = app.resolvePath(path)
	text, err := app.store.Load(path)
	switch {
	case err == nil:
		app.engine.Load(text)
		app.path = path
		app.savedVersion = app.engine.Version()
	case errors.Is(err, fs.ErrNotExist):
		app.path = path
		app.message = "new file"
	default:
		opErr := NewOperationError("open", path, err).WithContext("startup")
		app.logger.WithComponent("filestore").Error("%v", opErr)
		app.message = opErr.Error()
	}
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Run initializes the backend and runs the frame loop until the user
// quits, which returns ErrQuit, or Shutdown is called, which returns nil.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	be := app.backend
	app.mu.Unlock()
	if be == nil {
		return &InitError{Component: "backend", Err: ErrNoBackend}
	}

	if err := be.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer be.Shutdown()

	stop := make(chan struct{})
	defer close(stop)

	app.attach(be)
	app.input = app.startInputPolling(be, stop)

	if w := app.startWatcher(); w != nil {
		defer w.Close()
	}

	return app.loop()
}

// attach creates the renderer for be.
func (app *Application) attach(be backend.Backend) {
	app.backend = be
	app.render = renderer.New(be, app.theme,
		renderer.WithTabSize(app.cfg.Editor.TabSize),
		renderer.WithLineNumbers(app.cfg.Editor.LineNumbers),
	)
}

// startWatcher watches the config file for live reload. A missing config
// directory disables reloading.
func (app *Application) startWatcher() *watcher.Watcher {
	log := app.logger.WithComponent("config")
	w, err := watcher.New(app.cfgLoader.Path())
	if err != nil {
		log.Debug("live reload disabled: %v", err)
		return nil
	}
	app.configChanges = w.Changes()
	app.configErrors = w.Errors()
	log.Debug("watching %s", w.Path())
	return w
}

// startInputPolling starts a goroutine that polls for input events.
// Events are sent to the returned channel until stop is closed. A full
// channel blocks the poller rather than losing keys.
func (app *Application) startInputPolling(be backend.Backend, stop <-chan struct{}) <-chan backend.Event {
	events := make(chan backend.Event, 100)

	go func() {
		for {
			ev := be.PollEvent()

			select {
			case <-stop:
				return
			default:
			}

			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	return events
}

// loop ticks Step at the configured frame interval.
func (app *Application) loop() error {
	tick := app.cfg.Input.Tick
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	app.draw()
	last := time.Now()

	for {
		select {
		case <-app.done:
			return nil

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			if !app.Step(dt) {
				app.logger.WithComponent("app").Info("quit")
				return ErrQuit
			}
			if app.cfg.Input.Tick != tick {
				tick = app.cfg.Input.Tick
				ticker.Reset(tick)
			}
		}
	}
}

// Shutdown stops a running frame loop. It is safe to call more than once.
func (app *Application) Shutdown() {
	app.doneOnce.Do(func() {
		close(app.done)
	})
}

// Close releases the log file.
func (app *Application) Close() error {
	if app.logOut == nil {
		return nil
	}
	err := app.logOut.Close()
	app.logOut = nil
	return err
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Engine returns the document engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Config returns the active configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Path returns the document's file path, or "" for an unnamed document.
func (app *Application) Path() string {
	return app.path
}

// Modified reports whether the document changed since it was loaded or
// saved.
func (app *Application) Modified() bool {
	return app.engine.Version() != app.savedVersion
}

// Status returns the status line content for the next frame.
func (app *Application) Status() renderer.Status {
	st := renderer.Status{
		Path:     app.path,
		Modified: app.Modified(),
		Message:  app.message,
	}
	if app.prompt != nil {
		st.Prompt = app.prompt.View()
	}
	return st
}

// resolvePath makes path absolute against WorkDir.
func (app *Application) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || app.opts.WorkDir == "" {
		return path
	}
	return filepath.Join(app.opts.WorkDir, path)
}
