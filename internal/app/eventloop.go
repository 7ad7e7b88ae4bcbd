package app

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/void/internal/input/command"
	"github.com/dshills/void/internal/input/key"
	"github.com/dshills/void/internal/renderer/backend"
)

// Step runs one frame: it handles queued non-key events and at most one
// key edge, then at most one repeat of a held key, applies a pending
// config reload and renders. It returns false once the user has quit.
func (app *Application) Step(dt time.Duration) bool {
	app.drainInput()
	if app.quit {
		return false
	}

	if ev, ok := app.repeat.Tick(dt); ok {
		if !app.handleKey(ev) {
			app.repeat.Reset()
		}
	}

	app.pollConfig()
	app.draw()
	return !app.quit
}

// drainInput consumes queued events up to and including the first key
// edge. A press whose release is already queued is handled together with
// that release, so a key that went down and up between two frames costs
// one tick.
func (app *Application) drainInput() {
	for {
		ev, ok := app.nextEvent()
		if !ok {
			return
		}
		if !app.handleEvent(ev) {
			continue
		}
		if ev.Type == backend.EventKey {
			app.absorbRelease(ev.Key)
		}
		return
	}
}

// nextEvent returns the read-ahead event or the next queued one without
// blocking.
func (app *Application) nextEvent() (backend.Event, bool) {
	if ev := app.pending; ev != nil {
		app.pending = nil
		return *ev, true
	}
	select {
	case ev, ok := <-app.input:
		if !ok {
			app.input = nil
			return backend.Event{}, false
		}
		return ev, true
	default:
		return backend.Event{}, false
	}
}

// absorbRelease applies the release of pressed if it is the next queued
// event. Anything else is kept for the next tick.
func (app *Application) absorbRelease(pressed key.Event) {
	ev, ok := app.nextEvent()
	if !ok {
		return
	}
	if ev.Type == backend.EventKeyRelease && ev.Key.Key == pressed.Key && ev.Key.Rune == pressed.Rune {
		app.repeat.Release(ev.Key.Key)
		return
	}
	app.pending = &ev
}

// handleEvent processes a backend event and reports whether it was a key
// edge.
func (app *Application) handleEvent(ev backend.Event) bool {
	switch ev.Type {
	case backend.EventKey:
		app.message = ""
		app.repeat.Press(ev.Key)
		if !app.handleKey(ev.Key) {
			app.repeat.Reset()
		}
		return true

	case backend.EventKeyRelease:
		app.repeat.Release(ev.Key.Key)
		return true

	case backend.EventResize:
		app.logger.WithComponent("input").Debug("resize %dx%d", ev.Width, ev.Height)
	}
	return false
}

// handleKey applies one key press, or one repeat of it, and reports
// whether the key may keep repeating.
func (app *Application) handleKey(ev key.Event) bool {
	if app.prompt != nil {
		return app.promptKey(ev)
	}

	armed := app.quitArmed
	app.quitArmed = false

	switch app.engine.HandleKey(ev) {
	case command.ActionNone:
		return true
	case command.ActionPaste:
		app.paste()
		return true
	case command.ActionNewFile:
		app.newFile()
	case command.ActionOpenFile:
		app.openPrompt(promptOpen)
	case command.ActionSave:
		app.save()
	case command.ActionSaveAs:
		app.openPrompt(promptSaveAs)
	case command.ActionQuit:
		app.requestQuit(armed)
	}
	return false
}

// promptKey routes a key to the open prompt.
func (app *Application) promptKey(ev key.Event) bool {
	p := app.prompt
	switch p.HandleKey(ev) {
	case promptPending:
		return true
	case promptCancel:
		app.prompt = nil
		return false
	}

	app.prompt = nil
	path := strings.TrimSpace(p.Text())
	if path == "" || strings.HasSuffix(path, string(filepath.Separator)) {
		app.message = "no file name given"
		return false
	}

	path = app.resolvePath(path)
	switch p.kind {
	case promptOpen:
		app.open(path)
	case promptSaveAs:
		app.saveTo(path)
	}
	return false
}

// openPrompt shows a path prompt seeded with the current file's directory,
// or the working directory for an unnamed document.
func (app *Application) openPrompt(kind promptKind) {
	dir := app.opts.WorkDir
	if app.path != "" {
		dir = filepath.Dir(app.path)
	}
	if dir != "" && !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	app.prompt = newPrompt(kind, dir)
}

func (app *Application) newFile() {
	app.engine.Reset()
	app.path = ""
	app.savedVersion = app.engine.Version()
	app.resetScroll()
	app.message = "new file"
}

// open replaces the document with the file at path. On failure the
// document is left untouched.
func (app *Application) open(path string) {
	text, err := app.store.Load(path)
	if err != nil {
		app.fail(NewOperationError("open", path, err))
		return
	}

	app.engine.Load(text)
	app.path = path
	app.savedVersion = app.engine.Version()
	app.resetScroll()
	app.message = "opened " + filepath.Base(path)
	app.logger.WithComponent("filestore").Info("opened %s", path)
}

// save writes the document to its path. An unnamed document asks for one.
func (app *Application) save() {
	if app.path == "" {
		app.openPrompt(promptSaveAs)
		return
	}
	app.saveTo(app.path)
}

func (app *Application) saveTo(path string) {
	if err := app.store.Save(path, app.engine.Text()); err != nil {
		app.fail(NewOperationError("save", path, err))
		return
	}

	app.path = path
	app.savedVersion = app.engine.Version()
	app.message = "saved " + filepath.Base(path)
	app.logger.WithComponent("filestore").Info("saved %s", path)
}

// paste inserts the clipboard text at the caret as one edit.
func (app *Application) paste() {
	text, err := app.clip.ReadText()
	if err != nil {
		app.fail(NewOperationError("paste", "", err))
		return
	}
	app.engine.InsertText(text)
}

// requestQuit ends the loop. With unsaved changes the first request only
// warns and a second one in a row quits.
func (app *Application) requestQuit(armed bool) {
	if app.Modified() && !armed {
		app.quitArmed = true
		app.message = ErrUnsavedChanges.Error() + ", press Ctrl+Q again to quit"
		return
	}
	app.quit = true
}

// fail reports err on the status line and in the log.
func (app *Application) fail(err *OperationError) {
	app.logger.WithComponent(err.Op).Warn("%v", err)
	app.message = err.Error()
}

// pollConfig applies a pending config change without blocking.
func (app *Application) pollConfig() {
	select {
	case _, ok := <-app.configChanges:
		if !ok {
			app.configChanges = nil
			break
		}
		app.reloadConfig()
	default:
	}

	select {
	case err, ok := <-app.configErrors:
		if !ok {
			app.configErrors = nil
			break
		}
		app.logger.WithComponent("config").Warn("watch: %v", err)
	default:
	}
}

// draw renders a snapshot of the lines around the caret. The window is
// wide enough for any scroll position that keeps the caret visible.
func (app *Application) draw() {
	if app.render == nil {
		return
	}
	_, h := app.backend.Size()
	row := app.engine.CaretRow()
	snap := app.engine.Snapshot(row-h, 2*h+1)

	status := app.Status()
	status.Modified = snap.Version() != app.savedVersion
	app.render.Render(snap, status)
}

func (app *Application) resetScroll() {
	if app.render != nil {
		app.render.ResetScroll()
	}
}
