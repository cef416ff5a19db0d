package buffer

import "fmt"

// Edit is a request to replace a range with new text. An empty range is an
// insertion; empty text is a deletion.
type Edit struct {
	Range   Range
	NewText string
}

// NewInsert creates an Edit inserting text at offset.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit deleting the range [start, end).
func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// NewReplace creates an Edit replacing [start, end) with text.
func NewReplace(start, end ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: start, End: end}, NewText: text}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	switch {
	case e.Range.IsEmpty():
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	case e.NewText == "":
		return fmt.Sprintf("Delete%s", e.Range)
	default:
		return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
	}
}

// IsNoOp reports whether the edit changes nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns the change in buffer length caused by the edit.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// Change records an applied edit with enough information to invert it.
type Change struct {
	Range    Range  // range that was replaced, pre-edit coordinates
	NewRange Range  // resulting range, post-edit coordinates
	OldText  string // text that was removed
	NewText  string // text that was inserted
	Revision RevisionID
}

// Invert returns the change that would undo c.
func (c Change) Invert() Change {
	return Change{
		Range:    c.NewRange,
		NewRange: c.Range,
		OldText:  c.NewText,
		NewText:  c.OldText,
	}
}

// ToEdit converts the change back into an applicable edit.
func (c Change) ToEdit() Edit {
	return Edit{Range: c.Range, NewText: c.NewText}
}

// Delta returns the length delta the change introduced.
func (c Change) Delta() ByteOffset {
	return ByteOffset(len(c.NewText) - len(c.OldText))
}

// AdjustOffset maps a pre-change offset to its post-change position.
// Offsets inside the replaced range collapse to the end of the new text.
func (c Change) AdjustOffset(offset ByteOffset) ByteOffset {
	if offset <= c.Range.Start {
		return offset
	}
	if offset >= c.Range.End {
		return offset + c.Delta()
	}
	return c.NewRange.End
}
