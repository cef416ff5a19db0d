// Package input translates key events into session actions.
package input

import (
	"fmt"

	"github.com/vellum-editor/vellum/internal/input/key"
	"github.com/vellum-editor/vellum/internal/session"
)

// Keymap maps key events onto session inputs. Unbound printable runes
// insert themselves; everything else unbound is ignored.
type Keymap struct {
	bindings map[key.Event]session.Input
}

// defaultBindings in key-spec notation.
var defaultBindings = map[string]session.Input{
	"<C-c>":     session.Do(session.ActionCancel),
	"Escape":    session.Do(session.ActionCancel),
	"<C-o>":     session.Do(session.ActionOpen),
	"<C-s>":     session.Do(session.ActionSave),
	"<C-n>":     session.Do(session.ActionNewFile),
	"<C-x>":     session.Do(session.ActionClearMessage),
	"<C-z>":     session.Do(session.ActionUndo),
	"<C-y>":     session.Do(session.ActionRedo),
	"Enter":     session.Do(session.ActionInsertNewline),
	"Space":     session.InsertRune(' '),
	"Tab":       session.InsertRune('\t'),
	"Backspace": session.Do(session.ActionBackspace),
	"Delete":    session.Do(session.ActionDelete),
	"Left":      session.Do(session.ActionMoveLeft),
	"Right":     session.Do(session.ActionMoveRight),
	"Up":        session.Do(session.ActionMoveUp),
	"Down":      session.Do(session.ActionMoveDown),
	"Home":      session.Do(session.ActionMoveLineStart),
	"End":       session.Do(session.ActionMoveLineEnd),
}

// NewKeymap returns a keymap with the default bindings.
func NewKeymap() *Keymap {
	m := &Keymap{bindings: make(map[key.Event]session.Input, len(defaultBindings))}
	for spec, in := range defaultBindings {
		// Specs are compile-time constants; a parse failure is a bug.
		if err := m.Bind(spec, in); err != nil {
			panic(err)
		}
	}
	return m
}

// Bind attaches a session input to a key spec, replacing any existing
// binding.
func (m *Keymap) Bind(spec string, in session.Input) error {
	ev, err := key.Parse(spec)
	if err != nil {
		return fmt.Errorf("bind %q: %w", spec, err)
	}
	m.bindings[ev] = in
	return nil
}

// Translate resolves a key event. Printable runes without a binding
// insert themselves.
func (m *Keymap) Translate(ev key.Event) session.Input {
	if in, ok := m.bindings[ev]; ok {
		return in
	}
	if ev.IsRune() {
		return session.InsertRune(ev.Rune)
	}
	return session.Do(session.ActionNone)
}
