package engine

import (
	"io"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// config collects construction-time settings.
type config struct {
	content    string
	reader     io.Reader
	tabWidth   int
	lineEnding *buffer.LineEnding
	maxUndo    int
	readOnly   bool
}

// Option configures an Engine at creation time.
type Option func(*config)

// WithContent sets the initial buffer content.
func WithContent(s string) Option {
	return func(c *config) { c.content = s }
}

// WithReader loads the initial content from r. Takes precedence over
// WithContent.
func WithReader(r io.Reader) Option {
	return func(c *config) { c.reader = r }
}

// WithTabWidth sets the tab width for visual column computation.
func WithTabWidth(width int) Option {
	return func(c *config) { c.tabWidth = width }
}

// WithLineEnding forces the serialization line ending style instead of
// detecting it from the content.
func WithLineEnding(le buffer.LineEnding) Option {
	return func(c *config) { c.lineEnding = &le }
}

// WithMaxUndoEntries bounds the undo stack depth.
func WithMaxUndoEntries(n int) Option {
	return func(c *config) { c.maxUndo = n }
}

// WithReadOnly makes the engine reject all write operations.
func WithReadOnly() Option {
	return func(c *config) { c.readOnly = true }
}
