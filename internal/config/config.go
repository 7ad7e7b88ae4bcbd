package config

import (
	"math"
	"time"

	"github.com/dshills/void/internal/config/loader"
)

// Config holds every setting.
type Config struct {
	Editor EditorConfig
	Input  InputConfig
	UI     UIConfig
}

// EditorConfig contains the editing settings.
type EditorConfig struct {
	// TabSize is the display width of a tab.
	TabSize int

	// LineNumbers shows the line number gutter.
	LineNumbers bool

	// GapGrow is the number of cells the gap buffer grows by.
	GapGrow int

	// IndentToTabs converts leading groups of TabSize spaces to tabs on open.
	IndentToTabs bool
}

// InputConfig contains keyboard timing.
type InputConfig struct {
	// RepeatStartDelay is how long a key must be held before it repeats.
	RepeatStartDelay time.Duration

	// RepeatInterval is the time between repeats.
	RepeatInterval time.Duration

	// Tick is the period of the main loop.
	Tick time.Duration
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme names the color theme.
	Theme string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabSize:      4,
			LineNumbers:  true,
			GapGrow:      10,
			IndentToTabs: false,
		},
		Input: InputConfig{
			RepeatStartDelay: 400 * time.Millisecond,
			RepeatInterval:   30 * time.Millisecond,
			Tick:             16 * time.Millisecond,
		},
		UI: UIConfig{
			Theme: "default",
		},
	}
}

// defaultMap returns the defaults as the bottom configuration layer.
func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"editor": map[string]any{
			"tab_size":       int64(d.Editor.TabSize),
			"line_numbers":   d.Editor.LineNumbers,
			"gap_grow":       int64(d.Editor.GapGrow),
			"indent_to_tabs": d.Editor.IndentToTabs,
		},
		"input": map[string]any{
			"repeat_start_delay": d.Input.RepeatStartDelay.String(),
			"repeat_interval":    d.Input.RepeatInterval.String(),
			"tick":               d.Input.Tick.String(),
		},
		"ui": map[string]any{
			"theme": d.UI.Theme,
		},
	}
}

// FromMap decodes a merged settings map. Settings that are missing, of the
// wrong type or out of range keep their defaults; the latter two are
// returned as problems.
func FromMap(data map[string]any) (Config, []error) {
	d := &decoder{data: data}
	def := Default()

	cfg := Config{
		Editor: EditorConfig{
			TabSize:      d.positiveInt("editor.tab_size", def.Editor.TabSize),
			LineNumbers:  d.bool("editor.line_numbers", def.Editor.LineNumbers),
			GapGrow:      d.positiveInt("editor.gap_grow", def.Editor.GapGrow),
			IndentToTabs: d.bool("editor.indent_to_tabs", def.Editor.IndentToTabs),
		},
		Input: InputConfig{
			RepeatStartDelay: d.positiveDuration("input.repeat_start_delay", def.Input.RepeatStartDelay),
			RepeatInterval:   d.positiveDuration("input.repeat_interval", def.Input.RepeatInterval),
			Tick:             d.positiveDuration("input.tick", def.Input.Tick),
		},
		UI: UIConfig{
			Theme: d.nonEmptyString("ui.theme", def.UI.Theme),
		},
	}
	return cfg, d.problems
}

type decoder struct {
	data     map[string]any
	problems []error
}

func (d *decoder) fail(err error) {
	d.problems = append(d.problems, err)
}

func (d *decoder) positiveInt(path string, def int) int {
	v, ok := loader.Lookup(d.data, path)
	if !ok {
		return def
	}

	var n int
	switch t := v.(type) {
	case int:
		n = t
	case int64:
		n = int(t)
	case uint64:
		n = int(t)
	case float64:
		if t != math.Trunc(t) {
			d.fail(&TypeError{Path: path, Expected: "integer", Actual: "float"})
			return def
		}
		n = int(t)
	default:
		d.fail(&TypeError{Path: path, Expected: "integer", Actual: typeName(v)})
		return def
	}

	if n < 1 {
		d.fail(&ValueError{Path: path, Value: n, Message: "must be at least 1"})
		return def
	}
	return n
}

func (d *decoder) bool(path string, def bool) bool {
	v, ok := loader.Lookup(d.data, path)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(&TypeError{Path: path, Expected: "bool", Actual: typeName(v)})
		return def
	}
	return b
}

func (d *decoder) nonEmptyString(path string, def string) string {
	v, ok := loader.Lookup(d.data, path)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		d.fail(&TypeError{Path: path, Expected: "string", Actual: typeName(v)})
		return def
	}
	if s == "" {
		d.fail(&ValueError{Path: path, Value: s, Message: "must not be empty"})
		return def
	}
	return s
}

// positiveDuration accepts a duration string such as "30ms", a
// time.Duration, or a bare integer of milliseconds.
func (d *decoder) positiveDuration(path string, def time.Duration) time.Duration {
	v, ok := loader.Lookup(d.data, path)
	if !ok {
		return def
	}

	var dur time.Duration
	switch t := v.(type) {
	case time.Duration:
		dur = t
	case string:
		parsed, err := time.ParseDuration(t)
		if err != nil {
			d.fail(&ValueError{Path: path, Value: t, Message: err.Error()})
			return def
		}
		dur = parsed
	case int:
		dur = time.Duration(t) * time.Millisecond
	case int64:
		dur = time.Duration(t) * time.Millisecond
	default:
		d.fail(&TypeError{Path: path, Expected: "duration", Actual: typeName(v)})
		return def
	}

	if dur <= 0 {
		d.fail(&ValueError{Path: path, Value: dur, Message: "must be positive"})
		return def
	}
	return dur
}
