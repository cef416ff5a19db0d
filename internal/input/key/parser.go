package key

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse reads a key spec in either readable ("Ctrl+S", "Alt+Enter", "a")
// or vim-style ("<C-s>", "<A-CR>", "<Esc>") notation.
func Parse(spec string) (Event, error) {
	if spec == "" {
		return Event{}, fmt.Errorf("empty key spec")
	}
	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2 {
		return parseVim(spec[1 : len(spec)-1])
	}
	return parseReadable(spec)
}

// parseReadable handles "Ctrl+Shift+P" style specs. The final segment is
// the key; everything before it is a modifier.
func parseReadable(spec string) (Event, error) {
	// A trailing "+" means the key itself is '+' ("Ctrl++" or bare "+").
	keyPart := spec
	modPart := ""
	if idx := strings.LastIndex(spec, "+"); idx >= 0 && idx < len(spec)-1 {
		modPart, keyPart = spec[:idx], spec[idx+1:]
	} else if strings.HasSuffix(spec, "+") && len(spec) > 1 {
		modPart, keyPart = strings.TrimSuffix(spec[:len(spec)-1], "+"), "+"
	}

	var mods Modifier
	if modPart != "" {
		for _, part := range strings.Split(modPart, "+") {
			m, err := parseModifier(part)
			if err != nil {
				return Event{}, err
			}
			mods |= m
		}
	}
	return eventForName(keyPart, mods)
}

// vimMods maps vim-style modifier prefixes.
var vimMods = map[string]Modifier{
	"C": ModCtrl,
	"A": ModAlt,
	"M": ModMeta,
	"S": ModShift,
}

// vimKeys maps vim-style key names that differ from the canonical ones.
var vimKeys = map[string]Key{
	"CR":    KeyEnter,
	"Esc":   KeyEscape,
	"BS":    KeyBackspace,
	"Del":   KeyDelete,
	"Tab":   KeyTab,
	"Space": KeySpace,
}

// parseVim handles the inside of "<...>": "C-s", "A-CR", "Esc".
func parseVim(spec string) (Event, error) {
	var mods Modifier
	for len(spec) > 2 && spec[1] == '-' {
		m, ok := vimMods[strings.ToUpper(spec[:1])]
		if !ok {
			return Event{}, fmt.Errorf("unknown modifier %q", spec[:1])
		}
		mods |= m
		spec = spec[2:]
	}
	if k, ok := vimKeys[spec]; ok {
		return NewSpecial(k, mods), nil
	}
	return eventForName(spec, mods)
}

func parseModifier(s string) (Modifier, error) {
	switch strings.ToLower(s) {
	case "ctrl", "control", "c":
		return ModCtrl, nil
	case "alt", "a":
		return ModAlt, nil
	case "shift", "s":
		return ModShift, nil
	case "meta", "cmd", "m":
		return ModMeta, nil
	}
	return ModNone, fmt.Errorf("unknown modifier %q", s)
}

func eventForName(name string, mods Modifier) (Event, error) {
	if k, ok := keyByName[name]; ok {
		return NewSpecial(k, mods), nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return NewRune(r, mods), nil
	}
	return Event{}, fmt.Errorf("unknown key %q", name)
}
