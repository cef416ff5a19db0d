package config

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// applyLuaFile evaluates an init.lua and applies its global `options`
// table to cfg. Script errors are fatal; bad individual values are
// collected and skipped.
func applyLuaFile(cfg *Config, path string) error {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("evaluate %s: %w", path, err)
	}

	switch opts := L.GetGlobal("options").(type) {
	case *lua.LNilType:
		return nil
	case *lua.LTable:
		return applyOptions(cfg, opts)
	default:
		return fmt.Errorf("%w: options must be a table, got %s",
			ErrInvalidValue, opts.Type())
	}
}

func applyOptions(cfg *Config, tbl *lua.LTable) error {
	var errs []error
	fail := func(name string, v lua.LValue, want string) {
		errs = append(errs, fmt.Errorf("%w: %s must be %s, got %s",
			ErrInvalidValue, name, want, v.Type()))
	}

	if v := tbl.RawGetString("tab_width"); v != lua.LNil {
		if n, ok := v.(lua.LNumber); ok && n >= 1 && n <= 16 {
			cfg.TabWidth = int(n)
		} else {
			fail("tab_width", v, "a number in 1..16")
		}
	}
	if v := tbl.RawGetString("line_ending"); v != lua.LNil {
		if s, ok := v.(lua.LString); ok && validLineEnding(string(s)) {
			cfg.LineEnding = string(s)
		} else {
			fail("line_ending", v, `"lf", "crlf", or "cr"`)
		}
	}
	if v := tbl.RawGetString("max_undo"); v != lua.LNil {
		if n, ok := v.(lua.LNumber); ok && n >= 0 {
			cfg.MaxUndo = int(n)
		} else {
			fail("max_undo", v, "a non-negative number")
		}
	}
	if v := tbl.RawGetString("scroll_margin"); v != lua.LNil {
		if n, ok := v.(lua.LNumber); ok && n >= 0 {
			cfg.ScrollMargin = int(n)
		} else {
			fail("scroll_margin", v, "a non-negative number")
		}
	}
	if v := tbl.RawGetString("log_level"); v != lua.LNil {
		if s, ok := v.(lua.LString); ok && validLogLevel(string(s)) {
			cfg.LogLevel = string(s)
		} else {
			fail("log_level", v, `"debug", "info", "warn", or "error"`)
		}
	}
	return errors.Join(errs...)
}

func validLineEnding(s string) bool {
	switch s {
	case "lf", "crlf", "cr":
		return true
	}
	return false
}

func validLogLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
