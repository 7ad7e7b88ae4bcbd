package key

import "strings"

// Modifier is a set of held modifier keys.
type Modifier uint8

// Modifier bits. Meta is Cmd on macOS and the Windows key elsewhere.
const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// modifierOrder is the order modifiers are written in, as in "Ctrl+Shift+S".
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModMeta, "Meta"},
}

// Aliases accepted when parsing, in addition to the names above.
var modifierAliases = map[string]Modifier{
	"control": ModCtrl,
	"option":  ModAlt,
	"cmd":     ModMeta,
	"super":   ModMeta,
}

// Has reports whether any bit of mod is set in m.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

func (m Modifier) HasShift() bool { return m.Has(ModShift) }
func (m Modifier) HasCtrl() bool  { return m.Has(ModCtrl) }
func (m Modifier) HasAlt() bool   { return m.Has(ModAlt) }
func (m Modifier) HasMeta() bool  { return m.Has(ModMeta) }

// IsChord reports whether Ctrl or Alt is held. Chorded keys are commands,
// never text.
func (m Modifier) IsChord() bool {
	return m.Has(ModCtrl | ModAlt)
}

// With returns m plus mod.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns m minus mod.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// String joins the held modifiers with "+", e.g. "Ctrl+Alt".
func (m Modifier) String() string {
	var b strings.Builder
	for _, o := range modifierOrder {
		if !m.Has(o.mod) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('+')
		}
		b.WriteString(o.name)
	}
	return b.String()
}

// ModifierFromName returns the modifier called name, ignoring case, or
// ModNone for an unknown name.
func ModifierFromName(name string) Modifier {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, o := range modifierOrder {
		if strings.ToLower(o.name) == name {
			return o.mod
		}
	}
	return modifierAliases[name]
}
