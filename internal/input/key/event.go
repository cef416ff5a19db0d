package key

import (
	"fmt"
	"unicode"
)

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune // set when Key == KeyRune
	Modifiers Modifier
}

// NewRune creates an event for a printable character.
func NewRune(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecial creates an event for a named key.
func NewSpecial(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether the event is an unmodified printable character
// (shift excluded, since shifted characters arrive pre-shifted).
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Modifiers&^ModShift == 0 &&
		e.Rune != 0 && unicode.IsPrint(e.Rune)
}

// String returns a readable "Ctrl+S" style rendering.
func (e Event) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		name = string(e.Rune)
	}
	if mods := e.Modifiers.String(); mods != "" {
		return fmt.Sprintf("%s+%s", mods, name)
	}
	return name
}

// Equal reports whether two events denote the same key press. Rune events
// compare case-sensitively.
func (e Event) Equal(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune &&
		e.Modifiers == other.Modifiers
}
