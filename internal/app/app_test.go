package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/void/internal/config"
	"github.com/dshills/void/internal/filestore"
	"github.com/dshills/void/internal/input/key"
	"github.com/dshills/void/internal/input/repeat"
	"github.com/dshills/void/internal/integration/clipboard"
	"github.com/dshills/void/internal/renderer/backend"
)

type testEnv struct {
	t     *testing.T
	app   *Application
	be    *backend.NullBackend
	fs    *filestore.MemFS
	clip  *clipboard.Static
	input chan backend.Event
	dir   string
}

// newTestEnv builds an application over in-memory collaborators. The
// config directory is a real temp dir so config and theme files can be
// written into it.
func newTestEnv(t *testing.T, files map[string]string, open ...string) *testEnv {
	t.Helper()

	env := &testEnv{
		t:     t,
		fs:    filestore.NewMemFS(),
		clip:  &clipboard.Static{},
		input: make(chan backend.Event, 64),
		dir:   t.TempDir(),
	}
	for name, content := range files {
		env.fs.AddFile(name, content)
	}
	return env.start(open...)
}

func (env *testEnv) start(open ...string) *testEnv {
	env.t.Helper()

	app, err := New(Options{
		ConfigDir:  env.dir,
		Environ:    func() []string { return nil },
		Files:      open,
		WorkDir:    "/work",
		FileSystem: env.fs,
		Clipboard:  env.clip,
	})
	if err != nil {
		env.t.Fatalf("New: %v", err)
	}

	env.app = app
	env.be = backend.NewNullBackend(40, 10)
	app.attach(env.be)
	app.input = env.input
	return env
}

func (env *testEnv) writeConfig(name, content string) {
	env.t.Helper()
	path := filepath.Join(env.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		env.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		env.t.Fatal(err)
	}
}

// press queues a key-down edge and runs one frame.
func (env *testEnv) press(ev key.Event) bool {
	env.input <- backend.KeyEvent(ev)
	return env.app.Step(0)
}

func (env *testEnv) typeText(s string) {
	for _, r := range s {
		env.press(key.NewRuneEvent(r, key.ModNone))
	}
}

func (env *testEnv) special(k key.Key) {
	env.press(key.NewSpecialEvent(k, key.ModNone))
}

func (env *testEnv) ctrl(r rune) bool {
	return env.press(key.NewRuneEvent(r, key.ModCtrl))
}

func (env *testEnv) text() string {
	return env.app.Engine().Text()
}

func TestTypingRendersFrame(t *testing.T) {
	env := newTestEnv(t, nil)
	env.typeText("hi")

	if got := env.text(); got != "hi\n" {
		t.Fatalf("text = %q, want %q", got, "hi\n")
	}
	if !env.app.Modified() {
		t.Error("expected document to be modified")
	}
	if row := env.be.Row(0); !strings.Contains(row, "hi") {
		t.Errorf("row 0 = %q, want it to contain the typed text", row)
	}
	status := env.be.Row(9)
	if !strings.Contains(status, "[No Name] [+]") {
		t.Errorf("status = %q", status)
	}
	if !strings.Contains(status, "Ln 1, Col 3") {
		t.Errorf("status = %q, want caret position", status)
	}
}

func TestHeldKeyRepeats(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/work/ten.txt": "abcdefghij\n"}, "ten.txt")
	env.special(key.KeyEnd)

	env.input <- backend.KeyEvent(key.NewSpecialEvent(key.KeyBackspace, key.ModNone))
	for i := 0; i < 49; i++ {
		env.app.Step(10 * time.Millisecond)
	}

	if got := env.text(); got != "abcdef\n" {
		t.Errorf("text = %q, want 1 immediate and 3 repeated deletions", got)
	}
}

func TestReleaseStopsRepeat(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/work/ten.txt": "abcdefghij\n"}, "ten.txt")
	env.special(key.KeyEnd)

	bs := key.NewSpecialEvent(key.KeyBackspace, key.ModNone)
	env.input <- backend.KeyEvent(bs)
	env.input <- backend.KeyReleaseEvent(bs)
	for i := 0; i < 100; i++ {
		env.app.Step(10 * time.Millisecond)
	}

	if got := env.text(); got != "abcdefghi\n" {
		t.Errorf("text = %q, want a single deletion", got)
	}
}

func TestOneKeyEdgePerStep(t *testing.T) {
	env := newTestEnv(t, nil)
	env.input <- backend.Event{Type: backend.EventResize, Width: 40, Height: 10}
	env.input <- backend.KeyEvent(key.NewRuneEvent('a', key.ModNone))
	env.input <- backend.KeyEvent(key.NewRuneEvent('b', key.ModNone))

	env.app.Step(0)
	if got := env.text(); got != "a\n" {
		t.Fatalf("after one step text = %q", got)
	}
	env.app.Step(0)
	if got := env.text(); got != "ab\n" {
		t.Errorf("after two steps text = %q", got)
	}
}

func TestQueuedReleaseSharesStepWithPress(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, r := range "ab" {
		ev := key.NewRuneEvent(r, key.ModNone)
		env.input <- backend.KeyEvent(ev)
		env.input <- backend.KeyReleaseEvent(ev)
	}

	env.app.Step(0)
	if got := env.text(); got != "a\n" {
		t.Fatalf("after one step text = %q", got)
	}
	if st := env.app.repeat.State(); st != repeat.StateIdle {
		t.Errorf("scheduler = %v, want idle after the queued release", st)
	}
	env.app.Step(0)
	if got := env.text(); got != "ab\n" {
		t.Errorf("after two steps text = %q", got)
	}
	if len(env.input) != 0 || env.app.pending != nil {
		t.Error("expected every queued event to be consumed")
	}
}

func TestOpenFromPrompt(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/work/a.txt": "alpha\n"})

	env.ctrl('o')
	st := env.app.Status()
	if st.Prompt == nil {
		t.Fatal("expected open prompt")
	}
	if st.Prompt.Label != "Open" || st.Prompt.Input != "/work/" {
		t.Errorf("prompt = %+v", *st.Prompt)
	}

	env.typeText("a.txt")
	env.special(key.KeyEnter)

	if got := env.text(); got != "alpha\n" {
		t.Errorf("text = %q", got)
	}
	if env.app.Path() != "/work/a.txt" {
		t.Errorf("path = %q", env.app.Path())
	}
	if env.app.Modified() {
		t.Error("freshly opened document should not be modified")
	}
	if st := env.app.Status(); st.Prompt != nil || st.Message != "opened a.txt" {
		t.Errorf("status = %+v", st)
	}
	if env.app.Engine().CaretOffset() != 0 {
		t.Error("caret should start at the beginning")
	}
}

func TestOpenFailureKeepsDocument(t *testing.T) {
	env := newTestEnv(t, nil)
	env.typeText("x")

	env.ctrl('o')
	env.typeText("nope.txt")
	env.special(key.KeyEnter)

	if got := env.text(); got != "x\n" {
		t.Errorf("text = %q, document should be untouched", got)
	}
	if env.app.Path() != "" {
		t.Errorf("path = %q", env.app.Path())
	}
	if msg := env.app.Status().Message; !strings.HasPrefix(msg, "open /work/nope.txt") {
		t.Errorf("message = %q", msg)
	}
}

func TestPromptEscapeAndEmptyName(t *testing.T) {
	env := newTestEnv(t, nil)
	env.typeText("x")

	env.ctrl('o')
	env.special(key.KeyEscape)
	if env.app.Status().Prompt != nil {
		t.Fatal("escape should close the prompt")
	}

	env.ctrl('o')
	env.special(key.KeyEnter)
	if msg := env.app.Status().Message; msg != "no file name given" {
		t.Errorf("message = %q", msg)
	}
	if got := env.text(); got != "x\n" {
		t.Errorf("text = %q", got)
	}
}

func TestSaveUnnamedAsksForPath(t *testing.T) {
	env := newTestEnv(t, nil)
	env.typeText("hey")

	env.ctrl('s')
	st := env.app.Status()
	if st.Prompt == nil || st.Prompt.Label != "Save as" {
		t.Fatalf("expected save-as prompt, got %+v", st)
	}

	env.typeText("out.txt")
	env.special(key.KeyEnter)

	data, err := env.fs.ReadFile("/work/out.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hey\n" {
		t.Errorf("saved %q", data)
	}
	if env.app.Path() != "/work/out.txt" || env.app.Modified() {
		t.Errorf("path = %q, modified = %v", env.app.Path(), env.app.Modified())
	}
	if msg := env.app.Status().Message; msg != "saved out.txt" {
		t.Errorf("message = %q", msg)
	}
}

func TestSaveNamedWritesInPlace(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/work/a.txt": "alpha\n"}, "/work/a.txt")
	env.typeText("z")
	env.ctrl('s')

	data, _ := env.fs.ReadFile("/work/a.txt")
	if string(data) != "zalpha\n" {
		t.Errorf("saved %q", data)
	}
	if env.app.Status().Prompt != nil {
		t.Error("named save should not prompt")
	}
}

func TestSaveAsSeedsCurrentDirectory(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/docs/a.txt": "alpha\n"}, "/docs/a.txt")
	env.press(key.NewRuneEvent('s', key.ModCtrl|key.ModShift))

	st := env.app.Status()
	if st.Prompt == nil || st.Prompt.Label != "Save as" || st.Prompt.Input != "/docs/" {
		t.Fatalf("prompt = %+v", st.Prompt)
	}

	env.typeText("b.txt")
	env.special(key.KeyEnter)
	if data, _ := env.fs.ReadFile("/docs/b.txt"); string(data) != "alpha\n" {
		t.Errorf("saved %q", data)
	}
	if env.app.Path() != "/docs/b.txt" {
		t.Errorf("path = %q", env.app.Path())
	}
}

func TestPaste(t *testing.T) {
	env := newTestEnv(t, nil)
	env.ctrl('v')
	if msg := env.app.Status().Message; !strings.Contains(msg, clipboard.ErrEmpty.Error()) {
		t.Errorf("message = %q", msg)
	}
	if got := env.text(); got != "\n" {
		t.Errorf("text = %q", got)
	}

	env.clip.Text = "one\ntwo"
	env.ctrl('v')
	if got := env.text(); got != "one\ntwo\n" {
		t.Errorf("text = %q", got)
	}
	if off := env.app.Engine().CaretOffset(); off != 7 {
		t.Errorf("caret = %d, want 7", off)
	}
}

func TestNewFile(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/work/a.txt": "alpha\n"}, "a.txt")
	env.ctrl('n')

	if got := env.text(); got != "\n" {
		t.Errorf("text = %q", got)
	}
	if env.app.Path() != "" || env.app.Modified() {
		t.Errorf("path = %q, modified = %v", env.app.Path(), env.app.Modified())
	}
	if env.app.Engine().CaretOffset() != 0 {
		t.Error("caret should be reset")
	}
}

func TestQuit(t *testing.T) {
	env := newTestEnv(t, nil)
	if env.ctrl('q') {
		t.Fatal("unmodified document should quit at once")
	}

	env = newTestEnv(t, nil)
	env.typeText("x")
	if !env.ctrl('q') {
		t.Fatal("first quit with unsaved changes should only warn")
	}
	if msg := env.app.Status().Message; !strings.HasPrefix(msg, ErrUnsavedChanges.Error()) {
		t.Errorf("message = %q", msg)
	}

	env.special(key.KeyLeft)
	if !env.ctrl('q') {
		t.Fatal("another key should disarm the confirmation")
	}
	if env.ctrl('q') {
		t.Error("second quit in a row should quit")
	}
}

func TestStartupFile(t *testing.T) {
	env := newTestEnv(t, nil, "new.txt")
	if env.app.Path() != "/work/new.txt" {
		t.Errorf("path = %q", env.app.Path())
	}
	if msg := env.app.Status().Message; msg != "new file" {
		t.Errorf("message = %q", msg)
	}
	if got := env.text(); got != "\n" {
		t.Errorf("text = %q", got)
	}

	env = newTestEnv(t, map[string]string{"/work/bin": "a\x00b"}, "bin")
	if msg := env.app.Status().Message; !strings.Contains(msg, filestore.ErrBinary.Error()) {
		t.Errorf("message = %q", msg)
	}
	if got := env.text(); got != "\n" {
		t.Errorf("text = %q, want empty document", got)
	}
}

func TestStartupIndentToTabs(t *testing.T) {
	env := &testEnv{
		t:     t,
		fs:    filestore.NewMemFS(),
		clip:  &clipboard.Static{},
		input: make(chan backend.Event, 64),
		dir:   t.TempDir(),
	}
	env.fs.AddFile("/work/a.txt", "    x\n        y\n")
	env.writeConfig("config.toml", "[editor]\nindent_to_tabs = true\n")
	env.start("a.txt")

	if got := env.text(); got != "\tx\n\t\ty\n" {
		t.Errorf("text = %q", got)
	}
}

func TestConfigReload(t *testing.T) {
	env := newTestEnv(t, nil)
	changes := make(chan struct{}, 1)
	env.app.configChanges = changes

	env.writeConfig("config.toml", "[editor]\ntab_size = 8\nline_numbers = false\n\n[input]\nrepeat_interval = \"50ms\"\n")
	changes <- struct{}{}
	env.app.Step(0)

	if got := env.app.Engine().TabSize(); got != 8 {
		t.Errorf("tab size = %d, want 8", got)
	}
	if _, interval := env.app.repeat.Timing(); interval != 50*time.Millisecond {
		t.Errorf("repeat interval = %v", interval)
	}
	if got := env.app.Config().Editor.LineNumbers; got {
		t.Error("line numbers should be off")
	}
	if msg := env.app.Status().Message; msg != "config reloaded" {
		t.Errorf("message = %q", msg)
	}
	if row := env.be.Row(0); strings.HasPrefix(row, " 1 ") {
		t.Errorf("gutter still drawn: %q", row)
	}
}

func TestConfigErrorsKeepDefaults(t *testing.T) {
	env := &testEnv{
		t:     t,
		fs:    filestore.NewMemFS(),
		clip:  &clipboard.Static{},
		input: make(chan backend.Event, 64),
		dir:   t.TempDir(),
	}
	env.writeConfig("config.toml", "[editor\n")
	env.start()

	if got := env.app.Config(); got != config.Default() {
		t.Errorf("config = %+v, want defaults", got)
	}
	if msg := env.app.Status().Message; !strings.HasPrefix(msg, "config: ") {
		t.Errorf("message = %q", msg)
	}
}

func TestThemeFromConfig(t *testing.T) {
	env := &testEnv{
		t:     t,
		fs:    filestore.NewMemFS(),
		clip:  &clipboard.Static{},
		input: make(chan backend.Event, 64),
		dir:   t.TempDir(),
	}
	env.writeConfig("config.toml", "[ui]\ntheme = \"night\"\n")
	env.writeConfig(filepath.Join("themes", "night.toml"), "background = \"#000000\"\n")
	env.start()
	env.app.Step(0)

	if got := env.app.theme.Background.String(); got != "#000000" {
		t.Errorf("background = %s", got)
	}
	if got := env.be.Cell(39, 0).Style.Background.String(); got != "#000000" {
		t.Errorf("drawn background = %s", got)
	}

	env.writeConfig("config.toml", "[ui]\ntheme = \"missing\"\n")
	env.app.reloadConfig()
	if msg := env.app.Status().Message; !strings.HasPrefix(msg, "theme: ") {
		t.Errorf("message = %q", msg)
	}
}

func TestRun(t *testing.T) {
	env := newTestEnv(t, nil)
	be := backend.NewNullBackend(40, 10)
	if err := env.app.SetBackend(be); err != nil {
		t.Fatalf("SetBackend: %v", err)
	}

	be.PostEvent(backend.KeyEvent(key.NewRuneEvent('q', key.ModCtrl)))

	done := make(chan error, 1)
	go func() { done <- env.app.Run() }()

	select {
	case err := <-done:
		if !errors.Is(err, ErrQuit) {
			t.Errorf("Run() = %v, want ErrQuit", err)
		}
	case <-time.After(5 * time.Second):
		env.app.Shutdown()
		t.Fatal("Run did not return")
	}
	if be.Shows() == 0 {
		t.Error("expected at least one frame")
	}
}

func TestRunTypesBurstWithoutLoss(t *testing.T) {
	env := newTestEnv(t, nil)
	env.app.repeat.SetTiming(time.Hour, time.Hour)
	be := backend.NewNullBackend(40, 10)
	if err := env.app.SetBackend(be); err != nil {
		t.Fatal(err)
	}

	tap := func(ev key.Event) {
		be.PostEvent(backend.KeyEvent(ev))
		be.PostEvent(backend.KeyReleaseEvent(ev))
	}
	var want strings.Builder
	for i := 0; i < 200; i++ {
		r := rune('a' + i%26)
		tap(key.NewRuneEvent(r, key.ModNone))
		want.WriteRune(r)
	}
	tap(key.NewRuneEvent('q', key.ModCtrl))
	tap(key.NewRuneEvent('q', key.ModCtrl))

	done := make(chan error, 1)
	go func() { done <- env.app.Run() }()

	select {
	case err := <-done:
		if !errors.Is(err, ErrQuit) {
			t.Fatalf("Run() = %v, want ErrQuit", err)
		}
	case <-time.After(30 * time.Second):
		env.app.Shutdown()
		<-done
		t.Fatalf("Run did not reach the quit keys, text = %q", env.text())
	}

	if got := env.text(); got != want.String()+"\n" {
		t.Errorf("buffer holds %d runes, want 200", len([]rune(got))-1)
	}
}

func TestRunShutdown(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.app.SetBackend(backend.NewNullBackend(40, 10)); err != nil {
		t.Fatal(err)
	}

	env.app.Shutdown()
	env.app.Shutdown()

	done := make(chan error, 1)
	go func() { done <- env.app.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil after Shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRunWithoutBackend(t *testing.T) {
	app, err := New(Options{ConfigDir: t.TempDir(), Environ: func() []string { return nil }})
	if err != nil {
		t.Fatal(err)
	}

	err = app.Run()
	var initErr *InitError
	if !errors.As(err, &initErr) || !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run() = %v, want InitError wrapping ErrNoBackend", err)
	}
}

func TestLogFileOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "void.log")
	app, err := New(Options{
		ConfigDir:  t.TempDir(),
		Environ:    func() []string { return nil },
		LogFile:    path,
		LogLevel:   "debug",
		FileSystem: filestore.NewMemFS(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "session=") {
		t.Errorf("log = %q, want a session field", data)
	}
}
