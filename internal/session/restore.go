package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

const maxRecentFiles = 10

// Restore persists cross-run session state as a small JSON document:
// recently opened files and the last cursor position per file.
type Restore struct {
	mu   sync.Mutex
	path string
	doc  string
}

// DefaultRestorePath resolves the session state file: $VELLUM_CONFIG_DIR
// when set, else the user config dir under "vellum".
func DefaultRestorePath() (string, error) {
	if dir := os.Getenv("VELLUM_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "session.json"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vellum", "session.json"), nil
}

// OpenRestore loads the state file at path. A missing or corrupt file
// yields an empty state, not an error.
func OpenRestore(path string) (*Restore, error) {
	r := &Restore{path: path, doc: "{}"}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	case gjson.ValidBytes(data):
		r.doc = string(data)
	}
	return r, nil
}

// RecentFiles returns the most recently used files, newest first.
func (r *Restore) RecentFiles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var files []string
	for _, v := range gjson.Get(r.doc, "recent").Array() {
		files = append(files, v.String())
	}
	return files
}

// CursorFor returns the recorded cursor position for path.
func (r *Restore) CursorFor(path string) (buffer.ByteOffset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := gjson.Get(r.doc, "cursors."+escapeKey(path))
	if !res.Exists() {
		return 0, false
	}
	return buffer.ByteOffset(res.Int()), true
}

// Touch moves path to the front of the recent list and records its cursor
// position. The list is capped at maxRecentFiles.
func (r *Restore) Touch(path string, cur buffer.ByteOffset) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recent := []string{path}
	for _, v := range gjson.Get(r.doc, "recent").Array() {
		if v.String() == path {
			continue
		}
		recent = append(recent, v.String())
		if len(recent) == maxRecentFiles {
			break
		}
	}
	if doc, err := sjson.Set(r.doc, "recent", recent); err == nil {
		r.doc = doc
	}
	if doc, err := sjson.Set(r.doc, "cursors."+escapeKey(path), int64(cur)); err == nil {
		r.doc = doc
	}
}

// Save writes the state file, creating its directory if needed.
func (r *Restore) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	return WriteFileAtomic(r.path, []byte(r.doc))
}

// escapeKey guards the characters that are meaningful in gjson/sjson path
// syntax, so file paths can serve as object keys.
func escapeKey(key string) string {
	var b strings.Builder
	for _, c := range key {
		switch c {
		case '.', '*', '?', '\\', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
