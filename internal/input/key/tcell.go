package key

import "github.com/gdamore/tcell/v2"

// tcellSpecial maps tcell named keys onto ours.
var tcellSpecial = map[tcell.Key]Key{
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyTab:        KeyTab,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
}

// FromTcell translates a tcell key event into our representation, so
// terminal front-ends can feed the session without the core depending on
// any renderer.
func FromTcell(ev *tcell.EventKey) Event {
	var mods Modifier
	tm := ev.Modifiers()
	if tm&tcell.ModCtrl != 0 {
		mods |= ModCtrl
	}
	if tm&tcell.ModAlt != 0 {
		mods |= ModAlt
	}
	if tm&tcell.ModShift != 0 {
		mods |= ModShift
	}
	if tm&tcell.ModMeta != 0 {
		mods |= ModMeta
	}

	if k, ok := tcellSpecial[ev.Key()]; ok {
		return NewSpecial(k, mods)
	}

	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return NewSpecial(KeySpace, mods)
		}
		return NewRune(ev.Rune(), mods)
	}

	// tcell reports Ctrl+letter as dedicated key codes in the ASCII
	// control range; normalize them back to Ctrl+rune.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		r := rune('a' + (ev.Key() - tcell.KeyCtrlA))
		return NewRune(r, mods|ModCtrl)
	}

	return Event{Key: KeyNone, Modifiers: mods}
}
