package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeInit(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "init.lua"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadWithoutInitFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadAppliesOptions(t *testing.T) {
	dir := writeInit(t, `
options = {
  tab_width = 8,
  line_ending = "crlf",
  max_undo = 500,
  scroll_margin = 5,
  log_level = "debug",
}
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		TabWidth:     8,
		LineEnding:   "crlf",
		MaxUndo:      500,
		ScrollMargin: 5,
		LogLevel:     "debug",
	}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadComputedOptions(t *testing.T) {
	// init.lua is a script, not a data file.
	dir := writeInit(t, `
local width = 2
options = { tab_width = width * 2 }
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TabWidth != 4 {
		t.Errorf("tab width = %d, want 4", cfg.TabWidth)
	}
}

func TestLoadSkipsBadValues(t *testing.T) {
	dir := writeInit(t, `
options = {
  tab_width = "wide",
  log_level = "debug",
  line_ending = "mixed",
}
`)
	cfg, err := Load(dir)
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
	if cfg.TabWidth != Default().TabWidth {
		t.Errorf("bad tab_width should keep the default, got %d", cfg.TabWidth)
	}
	if cfg.LineEnding != "" {
		t.Errorf("bad line_ending should keep the default, got %q", cfg.LineEnding)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("valid log_level should still apply, got %q", cfg.LogLevel)
	}
}

func TestLoadScriptErrorIsFatal(t *testing.T) {
	dir := writeInit(t, `this is not lua`)
	if _, err := Load(dir); err == nil {
		t.Error("expected a script error")
	}
}

func TestLoadRejectsNonTableOptions(t *testing.T) {
	dir := writeInit(t, `options = "fast"`)
	if _, err := Load(dir); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("err = %v, want ErrInvalidValue", err)
	}
}

func TestDirHonorsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VELLUM_CONFIG_DIR", dir)
	got, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("Dir() = %q, want %q", got, dir)
	}
}
