// Package theme provides the editor's named color schemes.
package theme

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dshills/void/internal/config/loader"
	"github.com/dshills/void/internal/renderer/core"
)

// DefaultName names the built-in theme.
const DefaultName = "default"

// ErrNotFound is returned when no theme of the given name exists.
var ErrNotFound = errors.New("theme not found")

// Theme holds the colors the view is drawn with.
type Theme struct {
	Name string

	Background         core.Color
	Foreground         core.Color
	LineNumsBackground core.Color
	LineNumsText       core.Color
	Caret              core.Color
	Text               core.Color
}

// Default returns the built-in theme.
func Default() Theme {
	bg := core.ColorFromRGB(44, 33, 59)
	fg := core.ColorFromRGB(199, 199, 199)
	return Theme{
		Name:               DefaultName,
		Background:         bg,
		Foreground:         fg,
		LineNumsBackground: bg,
		LineNumsText:       fg,
		Caret:              fg,
		Text:               fg,
	}
}

// StatusBackground is the status line color, a mix of the line number
// gutter and the text colors.
func (t Theme) StatusBackground() core.Color {
	return t.LineNumsBackground.Blend(t.Foreground, 0.15)
}

// Keys returns the color names a theme file may set.
func Keys() []string {
	return []string{"background", "caret", "foreground", "line_nums_background", "line_nums_text", "text"}
}

// FromMap builds a theme from a map of color names to hex strings. Colors
// not named keep their value from the default theme. Unknown names are
// ignored.
func FromMap(name string, data map[string]any) (Theme, error) {
	t := Default()
	t.Name = name

	slots := map[string]*core.Color{
		"background":           &t.Background,
		"foreground":           &t.Foreground,
		"line_nums_background": &t.LineNumsBackground,
		"line_nums_text":       &t.LineNumsText,
		"caret":                &t.Caret,
		"text":                 &t.Text,
	}

	var errs []error
	for k, v := range data {
		slot, ok := slots[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			errs = append(errs, fmt.Errorf("theme %s: %s must be a hex string, got %T", name, k, v))
			continue
		}
		c, err := core.ColorFromHex(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("theme %s: %s: %w", name, k, err))
			continue
		}
		*slot = c
	}
	return t, errors.Join(errs...)
}

// Load finds the theme called name in dir, trying name.toml, name.yaml
// and name.yml. The default theme is built in, but a file of that name
// overrides it.
func Load(fsys loader.FileSystem, dir, name string) (Theme, error) {
	if name == "" {
		name = DefaultName
	}

	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		path := filepath.Join(dir, name+ext)
		if !loader.Exists(fsys, path) {
			continue
		}
		fl, err := loader.ForPath(fsys, path)
		if err != nil {
			return Default(), err
		}
		data, err := fl.Load()
		if err != nil {
			return Default(), err
		}
		return FromMap(name, data)
	}

	if name == DefaultName {
		return Default(), nil
	}
	return Default(), fmt.Errorf("%w: %s", ErrNotFound, name)
}
