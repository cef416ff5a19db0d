// Package key defines a front-end-agnostic representation of keyboard
// input: a Key identifier, a Modifier bitmask, and an Event combining the
// two with an optional rune. Key specs can be parsed from readable
// strings ("Ctrl+S") or vim-style notation ("<C-s>", "<CR>"), and tcell
// terminal events translate directly via FromTcell.
package key

// Key identifies a keyboard key. Printable characters use KeyRune with
// the rune carried alongside; everything else is a named special key.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyTab
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEnter:     "Enter",
	KeyEscape:    "Escape",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyTab:       "Tab",
	KeySpace:     "Space",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyInsert:    "Insert",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
}

// String returns the key's canonical name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// keyByName is the reverse lookup for parsing, populated at init.
var keyByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, name := range keyNames {
		m[name] = k
	}
	// Common aliases.
	m["Esc"] = KeyEscape
	m["Return"] = KeyEnter
	m["Del"] = KeyDelete
	m["BS"] = KeyBackspace
	return m
}()
