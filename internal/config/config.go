// Package config holds the editor's runtime settings: compiled-in
// defaults overridden by an optional init.lua in the user config
// directory.
package config

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrInvalidValue indicates an init.lua option with the wrong type or an
// out-of-range value. Such options are skipped; the rest still apply.
var ErrInvalidValue = errors.New("invalid config value")

// Config is the resolved configuration.
type Config struct {
	// TabWidth is the visual width of a tab stop.
	TabWidth int

	// LineEnding forces a serialization style ("lf", "crlf", "cr").
	// Empty means detect from file content.
	LineEnding string

	// MaxUndo bounds the undo stack depth. Zero means the built-in
	// default.
	MaxUndo int

	// ScrollMargin is the number of context lines front-ends keep
	// visible around the cursor.
	ScrollMargin int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Default returns the compiled-in settings.
func Default() Config {
	return Config{
		TabWidth:     4,
		MaxUndo:      1000,
		ScrollMargin: 2,
		LogLevel:     "info",
	}
}

// Dir resolves the config directory: $VELLUM_CONFIG_DIR when set,
// otherwise the platform user config dir under "vellum".
func Dir() (string, error) {
	if dir := os.Getenv("VELLUM_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "vellum"), nil
}

// Load returns the defaults overridden by dir/init.lua. A missing init
// file is not an error. Malformed option values are collected into the
// returned error while the valid ones still apply.
func Load(dir string) (Config, error) {
	cfg := Default()
	path := filepath.Join(dir, "init.lua")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	err := applyLuaFile(&cfg, path)
	return cfg, err
}
