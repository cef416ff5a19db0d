// Package rope implements an immutable, weight-balanced rope for text
// storage. All operations return new Rope values; existing values are never
// modified, which makes snapshots free and concurrent reads safe without
// locking.
//
// Each tree node caches its subtree byte length and newline count, so
// editing, slicing, and line/column addressing are all O(log n).
package rope

import (
	"strings"
	"unicode/utf8"
)

// ByteOffset is a byte position within a rope.
type ByteOffset = int64

// Point is a 0-indexed line and column position. Column counts bytes from
// the start of the line.
type Point struct {
	Line   int
	Column int
}

// Rope is an immutable rope. The zero value is not usable; construct with
// New, FromString, or FromReader.
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeaf("")}
}

// FromString creates a rope containing s.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	var b Builder
	b.WriteString(s)
	return b.Build()
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	if r.root == nil {
		return 0
	}
	return r.root.length
}

// IsEmpty reports whether the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// LineCount returns the number of lines (newlines + 1). An empty rope has
// one line.
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.newlines + 1
}

// String returns the full text. Use sparingly for large ropes; prefer
// Slice or Chunks.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.root.length))
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the byte range [start, end). Out-of-range
// bounds are clamped.
func (r Rope) Slice(start, end ByteOffset) string {
	if r.root == nil {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > r.root.length {
		end = r.root.length
	}
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(end - start))
	r.root.textInRange(&sb, start, end)
	return sb.String()
}

// ByteAt returns the byte at offset, or false if offset is out of range.
func (r Rope) ByteAt(offset ByteOffset) (byte, bool) {
	if r.root == nil || offset < 0 || offset >= r.root.length {
		return 0, false
	}
	return r.root.byteAt(offset), true
}

// RuneAt decodes the rune starting at the given byte offset. It returns
// utf8.RuneError and size 0 if offset is out of range.
func (r Rope) RuneAt(offset ByteOffset) (rune, int) {
	if r.root == nil || offset < 0 || offset >= r.root.length {
		return utf8.RuneError, 0
	}
	end := offset + utf8.UTFMax
	if end > r.root.length {
		end = r.root.length
	}
	return utf8.DecodeRuneInString(r.Slice(offset, end))
}

// Insert returns a new rope with text inserted at offset. Offsets past the
// end append; negative offsets prepend.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil || r.root.length == 0 {
		return FromString(text)
	}
	if offset <= 0 {
		return FromString(text).Concat(r)
	}
	if offset >= r.root.length {
		return r.Concat(FromString(text))
	}
	left, right := r.root.split(offset)
	return Rope{root: concat(concat(left, FromString(text).root), right)}
}

// Delete returns a new rope with the byte range [start, end) removed.
// The range is clamped to the rope bounds.
func (r Rope) Delete(start, end ByteOffset) Rope {
	if r.root == nil {
		return r
	}
	if start < 0 {
		start = 0
	}
	if end > r.root.length {
		end = r.root.length
	}
	if start >= end {
		return r
	}
	if start == 0 && end == r.root.length {
		return New()
	}
	if start == 0 {
		_, right := r.root.split(end)
		return Rope{root: right}
	}
	if end == r.root.length {
		left, _ := r.root.split(start)
		return Rope{root: left}
	}
	left, rest := r.root.split(start)
	_, right := rest.split(end - start)
	return Rope{root: concat(left, right)}
}

// Replace returns a new rope with [start, end) replaced by text.
func (r Rope) Replace(start, end ByteOffset, text string) Rope {
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Delete(start, end)
	}
	return r.Delete(start, end).Insert(start, text)
}

// Split divides the rope at offset into [0, offset) and [offset, len).
func (r Rope) Split(offset ByteOffset) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.root.length {
		return r, New()
	}
	left, right := r.root.split(offset)
	return Rope{root: left}, Rope{root: right}
}

// Concat returns the concatenation of r and other.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.root.length == 0 {
		return other
	}
	if other.root == nil || other.root.length == 0 {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// LineStartOffset returns the byte offset of the start of the given
// 0-indexed line. Lines past the end map to the rope length.
func (r Rope) LineStartOffset(line int) ByteOffset {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line > r.root.newlines {
		return r.root.length
	}
	return r.root.offsetAfterNewline(line)
}

// LineEndOffset returns the byte offset of the end of the given line, not
// including its newline.
func (r Rope) LineEndOffset(line int) ByteOffset {
	if r.root == nil || line < 0 {
		return 0
	}
	if line >= r.root.newlines {
		return r.root.length
	}
	return r.root.offsetAfterNewline(line+1) - 1
}

// LineText returns the text of the given line without its newline.
func (r Rope) LineText(line int) string {
	return r.Slice(r.LineStartOffset(line), r.LineEndOffset(line))
}

// LineLen returns the byte length of the given line without its newline.
func (r Rope) LineLen(line int) int {
	return int(r.LineEndOffset(line) - r.LineStartOffset(line))
}

// OffsetToPoint converts a byte offset to a line/column position. Offsets
// past the end map to the final position.
func (r Rope) OffsetToPoint(offset ByteOffset) Point {
	if r.root == nil || offset <= 0 {
		return Point{}
	}
	if offset > r.root.length {
		offset = r.root.length
	}
	line := r.root.newlinesBefore(offset)
	return Point{
		Line:   line,
		Column: int(offset - r.LineStartOffset(line)),
	}
}

// PointToOffset converts a line/column position to a byte offset. Columns
// past the end of the line clamp to the line end.
func (r Rope) PointToOffset(p Point) ByteOffset {
	if r.root == nil {
		return 0
	}
	start := r.LineStartOffset(p.Line)
	end := r.LineEndOffset(p.Line)
	if p.Column < 0 {
		return start
	}
	if start+ByteOffset(p.Column) > end {
		return end
	}
	return start + ByteOffset(p.Column)
}

// Equals reports whether two ropes contain the same text. It compares
// content, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	a := r.Chunks()
	b := other.Chunks()
	var abuf, bbuf string
	for {
		if len(abuf) == 0 {
			if !a.Next() {
				return len(bbuf) == 0 && !b.Next()
			}
			abuf = a.Chunk()
		}
		if len(bbuf) == 0 {
			if !b.Next() {
				return false
			}
			bbuf = b.Chunk()
		}
		n := len(abuf)
		if len(bbuf) < n {
			n = len(bbuf)
		}
		if abuf[:n] != bbuf[:n] {
			return false
		}
		abuf, bbuf = abuf[n:], bbuf[n:]
	}
}

// Height returns the tree height. Useful for balance testing.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return r.root.height + 1
}
