// Package buffer wraps a rope with editor semantics: line-ending handling,
// position conversion, validated edits, revisions, and snapshots. All
// Buffer methods are safe for concurrent use.
package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/vellum-editor/vellum/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
)

// LineEnding is the line ending style of a buffer's external representation.
// Internally text is always stored LF-normalized; the style is applied when
// serializing.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // old Mac: \r
)

// String returns the display name of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "crlf"
	case LineEndingCR:
		return "cr"
	default:
		return "lf"
	}
}

// Sequence returns the actual line ending bytes.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// ParseLineEnding is the inverse of String.
func ParseLineEnding(s string) (LineEnding, bool) {
	switch s {
	case "lf":
		return LineEndingLF, true
	case "crlf":
		return LineEndingCRLF, true
	case "cr":
		return LineEndingCR, true
	}
	return LineEndingLF, false
}

// DetectLineEnding inspects text and returns its dominant line ending.
// Defaults to LF for text without line breaks.
func DetectLineEnding(s string) LineEnding {
	crlf := strings.Count(s, "\r\n")
	lf := strings.Count(s, "\n") - crlf
	cr := strings.Count(s, "\r") - crlf
	if crlf >= lf && crlf >= cr && crlf > 0 {
		return LineEndingCRLF
	}
	if cr > lf {
		return LineEndingCR
	}
	return LineEndingLF
}

// normalizeToLF rewrites all line endings as LF.
func normalizeToLF(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Buffer is an editable text buffer. Content is stored LF-normalized in an
// immutable rope; every mutation installs a new rope and revision ID.
type Buffer struct {
	mu         sync.RWMutex
	rope       rope.Rope
	revision   RevisionID
	lineEnding LineEnding
	explicitLE bool
	tabWidth   int
}

// Option configures a Buffer at construction.
type Option func(*Buffer)

// WithLineEnding sets the serialization line ending style, disabling
// detection from initial content.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
		b.explicitLE = true
	}
}

// WithTabWidth sets the tab width used for visual column computation.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		rope:       rope.New(),
		revision:   NextRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content. The content's line
// ending style is detected and retained for serialization unless
// WithLineEnding overrides it.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	if !b.explicitLE {
		b.lineEnding = DetectLineEnding(s)
	}
	b.rope = rope.FromString(normalizeToLF(s))
	return b
}

// NewFromReader creates a buffer from a reader. The whole content is read
// before normalization so CRLF pairs split across reads are handled.
func NewFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewFromString(string(data), opts...), nil
}

// Text returns the full LF-normalized content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// Serialize returns the content with the buffer's line ending style applied.
func (b *Buffer) Serialize() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text := b.rope.String()
	if b.lineEnding == LineEndingLF {
		return text
	}
	return strings.ReplaceAll(text, "\n", b.lineEnding.Sequence())
}

// TextRange returns the text in [start, end).
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Slice(start, end)
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Len()
}

// IsEmpty reports whether the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.IsEmpty()
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// LineText returns the text of a line without its newline.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineText(line)
}

// LineLen returns the byte length of a line without its newline.
func (b *Buffer) LineLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineLen(line)
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line int) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineStartOffset(line)
}

// LineEndOffset returns the byte offset of the end of a line, before its
// newline.
func (b *Buffer) LineEndOffset(line int) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineEndOffset(line)
}

// RuneAt decodes the rune at the given byte offset.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.RuneAt(offset)
}

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p := b.rope.OffsetToPoint(offset)
	return Point{Line: p.Line, Column: p.Column}
}

// PointToOffset converts line/column to a byte offset.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.PointToOffset(rope.Point{Line: p.Line, Column: p.Column})
}

// Insert inserts text at offset and returns the resulting change.
func (b *Buffer) Insert(offset ByteOffset, text string) (Change, error) {
	return b.ApplyEdit(NewInsert(offset, text))
}

// Delete removes [start, end) and returns the resulting change.
func (b *Buffer) Delete(start, end ByteOffset) (Change, error) {
	return b.ApplyEdit(NewDelete(start, end))
}

// Replace replaces [start, end) with text and returns the resulting change.
func (b *Buffer) Replace(start, end ByteOffset, text string) (Change, error) {
	return b.ApplyEdit(NewReplace(start, end, text))
}

// ApplyEdit validates and applies a single edit, returning an invertible
// Change record.
func (b *Buffer) ApplyEdit(edit Edit) (Change, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applyLocked(edit)
}

func (b *Buffer) applyLocked(edit Edit) (Change, error) {
	if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End ||
		edit.Range.End > b.rope.Len() {
		return Change{}, ErrRangeInvalid
	}

	oldText := b.rope.Slice(edit.Range.Start, edit.Range.End)
	text := normalizeToLF(edit.NewText)
	b.rope = b.rope.Replace(edit.Range.Start, edit.Range.End, text)
	b.revision = NextRevisionID()

	return Change{
		Range:    edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: edit.Range.Start + ByteOffset(len(text))},
		OldText:  oldText,
		NewText:  text,
		Revision: b.revision,
	}, nil
}

// ApplyEdits applies a batch of edits atomically. Edits must be sorted in
// reverse offset order and non-overlapping so earlier edits do not shift
// the ranges of later ones.
func (b *Buffer) ApplyEdits(edits []Edit) ([]Change, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return nil, ErrEditsOverlap
		}
	}
	ropeLen := b.rope.Len()
	for _, edit := range edits {
		if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End ||
			edit.Range.End > ropeLen {
			return nil, ErrRangeInvalid
		}
	}

	changes := make([]Change, 0, len(edits))
	for _, edit := range edits {
		change, err := b.applyLocked(edit)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// Revision returns the current revision ID.
func (b *Buffer) Revision() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// LineEnding returns the serialization line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetLineEnding changes the serialization line ending style. Stored content
// is unaffected.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// TabWidth returns the tab width used for visual columns.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetTabWidth changes the tab width. Widths below 1 are ignored.
func (b *Buffer) SetTabWidth(width int) {
	if width < 1 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabWidth = width
}

// ClampOffset clamps offset into [0, Len] and, when snap is true, backs it
// off to the nearest rune boundary.
func (b *Buffer) ClampOffset(offset ByteOffset, snap bool) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 {
		return 0
	}
	if offset > b.rope.Len() {
		return b.rope.Len()
	}
	if !snap {
		return offset
	}
	for offset > 0 && offset < b.rope.Len() {
		c, _ := b.rope.ByteAt(offset)
		if utf8.RuneStart(c) {
			break
		}
		offset--
	}
	return offset
}

// Snapshot returns an immutable view of the current buffer state. The
// snapshot shares the rope structurally and is safe to read from any
// goroutine while the buffer continues to change.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		rope:       b.rope,
		revision:   b.revision,
		lineEnding: b.lineEnding,
		tabWidth:   b.tabWidth,
	}
}
