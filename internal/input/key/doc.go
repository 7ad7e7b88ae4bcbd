// Package key provides the key event types the editor consumes.
//
//   - Key: identifies a keyboard key (a special key, or KeyRune for characters)
//   - Modifier: the Ctrl, Alt, Shift and Meta flags held with the key
//   - Event: one key-down edge with its produced rune and modifiers
//
// Modifiers are captured once per event and carried explicitly, never
// queried from ambient terminal state.
//
// Key specifications such as "Ctrl+Shift+S", "Alt+Left" or "x" can be
// parsed with Parse, which keybinding tests and status messages use.
package key
