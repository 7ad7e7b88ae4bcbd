// Package command maps key events to editor commands.
//
// Resolve is a pure total function: every key event yields exactly one
// Command, and OpNone when nothing applies. Modifier-qualified rules are
// checked before bare keys, so Ctrl+Shift+S resolves to SaveAs rather than
// Save and Ctrl+Left to a word jump rather than a single step.
package command

import (
	"unicode"

	"github.com/dshills/void/internal/input/key"
)

// Op identifies an editor operation.
type Op uint8

const (
	OpNone Op = iota

	// Edits
	OpInsertChar
	OpInsertNewline
	OpInsertTab
	OpDeleteBackward
	OpDeleteForward
	OpDeleteWordLeft
	OpDeleteWordRight

	// Motions
	OpMoveLeft
	OpMoveRight
	OpMoveUp
	OpMoveDown
	OpWordLeft
	OpWordRight
	OpLineStart
	OpLineEnd
	OpDocumentStart
	OpDocumentEnd

	// Delegated to collaborators outside the engine
	OpNewFile
	OpOpenFile
	OpSave
	OpSaveAs
	OpPaste
	OpQuit
)

var opNames = [...]string{
	OpNone:            "none",
	OpInsertChar:      "insert-char",
	OpInsertNewline:   "insert-newline",
	OpInsertTab:       "insert-tab",
	OpDeleteBackward:  "delete-backward",
	OpDeleteForward:   "delete-forward",
	OpDeleteWordLeft:  "delete-word-left",
	OpDeleteWordRight: "delete-word-right",
	OpMoveLeft:        "move-left",
	OpMoveRight:       "move-right",
	OpMoveUp:          "move-up",
	OpMoveDown:        "move-down",
	OpWordLeft:        "word-left",
	OpWordRight:       "word-right",
	OpLineStart:       "line-start",
	OpLineEnd:         "line-end",
	OpDocumentStart:   "document-start",
	OpDocumentEnd:     "document-end",
	OpNewFile:         "new-file",
	OpOpenFile:        "open-file",
	OpSave:            "save",
	OpSaveAs:          "save-as",
	OpPaste:           "paste",
	OpQuit:            "quit",
}

// String returns the operation name.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// IsEdit reports whether the operation changes buffer content.
func (o Op) IsEdit() bool {
	return o >= OpInsertChar && o <= OpDeleteWordRight
}

// IsMotion reports whether the operation only moves the caret.
func (o Op) IsMotion() bool {
	return o >= OpMoveLeft && o <= OpDocumentEnd
}

// IsVertical reports whether the operation moves between lines while
// keeping the visual column.
func (o Op) IsVertical() bool {
	return o == OpMoveUp || o == OpMoveDown
}

// Action is an intent the engine signals but does not carry out itself.
type Action uint8

const (
	ActionNone Action = iota
	ActionNewFile
	ActionOpenFile
	ActionSave
	ActionSaveAs
	ActionPaste
	ActionQuit
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionNewFile:
		return "new-file"
	case ActionOpenFile:
		return "open-file"
	case ActionSave:
		return "save"
	case ActionSaveAs:
		return "save-as"
	case ActionPaste:
		return "paste"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Command is a resolved operation. Rune is set for OpInsertChar.
type Command struct {
	Op   Op
	Rune rune
}

// Action returns the delegated action of the command, or ActionNone.
func (c Command) Action() Action {
	switch c.Op {
	case OpNewFile:
		return ActionNewFile
	case OpOpenFile:
		return ActionOpenFile
	case OpSave:
		return ActionSave
	case OpSaveAs:
		return ActionSaveAs
	case OpPaste:
		return ActionPaste
	case OpQuit:
		return ActionQuit
	default:
		return ActionNone
	}
}

// Resolve maps a key event to a command.
func Resolve(ev key.Event) Command {
	mods := ev.Modifiers
	ctrl := mods.HasCtrl()

	if ctrl && ev.Key == key.KeyRune {
		switch unicode.ToLower(ev.Rune) {
		case 's':
			if mods.HasShift() {
				return Command{Op: OpSaveAs}
			}
			return Command{Op: OpSave}
		case 'n':
			return Command{Op: OpNewFile}
		case 'o':
			return Command{Op: OpOpenFile}
		case 'v':
			return Command{Op: OpPaste}
		case 'q':
			return Command{Op: OpQuit}
		}
	}

	if ctrl {
		switch ev.Key {
		case key.KeyLeft:
			return Command{Op: OpWordLeft}
		case key.KeyRight:
			return Command{Op: OpWordRight}
		case key.KeyBackspace:
			return Command{Op: OpDeleteWordLeft}
		case key.KeyDelete:
			return Command{Op: OpDeleteWordRight}
		case key.KeyUp:
			return Command{Op: OpDocumentStart}
		case key.KeyDown:
			return Command{Op: OpDocumentEnd}
		}
	}

	if mods.HasAlt() {
		switch ev.Key {
		case key.KeyLeft:
			return Command{Op: OpLineStart}
		case key.KeyRight:
			return Command{Op: OpLineEnd}
		}
	}

	switch ev.Key {
	case key.KeyEnter:
		return Command{Op: OpInsertNewline}
	case key.KeyTab:
		return Command{Op: OpInsertTab}
	case key.KeyBackspace:
		return Command{Op: OpDeleteBackward}
	case key.KeyDelete:
		return Command{Op: OpDeleteForward}
	case key.KeyLeft:
		return Command{Op: OpMoveLeft}
	case key.KeyRight:
		return Command{Op: OpMoveRight}
	case key.KeyUp:
		return Command{Op: OpMoveUp}
	case key.KeyDown:
		return Command{Op: OpMoveDown}
	case key.KeyHome:
		return Command{Op: OpLineStart}
	case key.KeyEnd:
		return Command{Op: OpLineEnd}
	}

	if ev.IsRune() && !ctrl && Insertable(ev.Rune) {
		return Command{Op: OpInsertChar, Rune: ev.Rune}
	}
	return Command{}
}

// Insertable reports whether r may be typed into the buffer: any ASCII
// rune, or a letter from any script.
func Insertable(r rune) bool {
	return r <= unicode.MaxASCII || unicode.IsLetter(r)
}
