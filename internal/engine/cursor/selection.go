// Package cursor provides selections and multi-cursor sets over a buffer.
// A Selection is an anchor/head pair of byte offsets; when they coincide it
// is a plain cursor. A CursorSet keeps selections sorted, merged, and
// non-overlapping, with the first selection acting as the primary one.
package cursor

import (
	"fmt"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// ByteOffset is a byte position, re-exported for convenience.
type ByteOffset = buffer.ByteOffset

// Range is re-exported from the buffer package.
type Range = buffer.Range

// Selection is a range of selected text. Anchor is where the selection
// started; Head is where the cursor is and where typing happens. An
// immutable value type.
type Selection struct {
	Anchor ByteOffset
	Head   ByteOffset
}

// New creates a selection from anchor to head.
func New(anchor, head ByteOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// At creates a collapsed selection (a cursor) at offset.
func At(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// FromRange creates a forward selection covering r.
func FromRange(r Range) Selection {
	return Selection{Anchor: r.Start, Head: r.End}
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("cursor@%d", s.Head)
	}
	return fmt.Sprintf("sel(%d->%d)", s.Anchor, s.Head)
}

// IsEmpty reports whether the selection is a plain cursor.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Len returns the selection length in bytes.
func (s Selection) Len() ByteOffset {
	if s.Anchor <= s.Head {
		return s.Head - s.Anchor
	}
	return s.Anchor - s.Head
}

// Start returns the lower bound.
func (s Selection) Start() ByteOffset {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// End returns the upper bound.
func (s Selection) End() ByteOffset {
	if s.Anchor >= s.Head {
		return s.Anchor
	}
	return s.Head
}

// Range returns the selection as an ordered range.
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// IsForward reports whether head is at or after anchor.
func (s Selection) IsForward() bool {
	return s.Head >= s.Anchor
}

// MoveTo returns a collapsed selection at offset.
func (s Selection) MoveTo(offset ByteOffset) Selection {
	return At(offset)
}

// Extend returns a selection with the head moved to offset, anchor fixed.
func (s Selection) Extend(offset ByteOffset) Selection {
	return Selection{Anchor: s.Anchor, Head: offset}
}

// Collapse returns a cursor at the head position.
func (s Selection) Collapse() Selection {
	return At(s.Head)
}

// Overlaps reports whether two selections share bytes, or touch while at
// least one is empty (so duplicate cursors merge).
func (s Selection) Overlaps(other Selection) bool {
	a, b := s.Range(), other.Range()
	if a.Overlaps(b) {
		return true
	}
	return s.IsEmpty() && a.Start >= b.Start && a.Start <= b.End ||
		other.IsEmpty() && b.Start >= a.Start && b.Start <= a.End
}

// AdjustForChange maps the selection across an applied buffer change.
func (s Selection) AdjustForChange(c buffer.Change) Selection {
	return Selection{
		Anchor: c.AdjustOffset(s.Anchor),
		Head:   c.AdjustOffset(s.Head),
	}
}
