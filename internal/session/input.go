package session

import "fmt"

// Action identifies an editing action fed to the session.
type Action int

const (
	ActionNone Action = iota
	ActionInsertRune
	ActionInsertNewline
	ActionBackspace
	ActionDelete
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionMoveLineStart
	ActionMoveLineEnd
	ActionUndo
	ActionRedo
	ActionSave
	ActionOpen
	ActionNewFile
	ActionCancel
	ActionClearMessage
)

var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionInsertRune:    "insert-rune",
	ActionInsertNewline: "insert-newline",
	ActionBackspace:     "backspace",
	ActionDelete:        "delete",
	ActionMoveLeft:      "move-left",
	ActionMoveRight:     "move-right",
	ActionMoveUp:        "move-up",
	ActionMoveDown:      "move-down",
	ActionMoveLineStart: "move-line-start",
	ActionMoveLineEnd:   "move-line-end",
	ActionUndo:          "undo",
	ActionRedo:          "redo",
	ActionSave:          "save",
	ActionOpen:          "open",
	ActionNewFile:       "new-file",
	ActionCancel:        "cancel",
	ActionClearMessage:  "clear-message",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Input is a single action plus its rune payload for ActionInsertRune.
type Input struct {
	Action Action
	Rune   rune
}

// InsertRune builds the input for typing a single character.
func InsertRune(r rune) Input {
	return Input{Action: ActionInsertRune, Rune: r}
}

// Do builds an input for a payload-free action.
func Do(a Action) Input {
	return Input{Action: a}
}
