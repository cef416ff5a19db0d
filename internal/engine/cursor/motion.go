package cursor

import (
	"github.com/rivo/uniseg"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// Grapheme-aware horizontal motion. Byte offsets are the canonical cursor
// representation, but a cursor must never land inside a grapheme cluster:
// "🇦🇺" or "é" composed from two code points is one editing unit. Boundary
// search works on the cursor's line, which bounds the scan regardless of
// buffer size.

// NextBoundary returns the offset of the next grapheme boundary after
// offset. At or past the end of a line it steps over the newline.
func NextBoundary(buf *buffer.Buffer, offset ByteOffset) ByteOffset {
	length := buf.Len()
	if offset >= length {
		return length
	}
	offset = buf.ClampOffset(offset, true)

	p := buf.OffsetToPoint(offset)
	lineEnd := buf.LineEndOffset(p.Line)
	if offset >= lineEnd {
		return offset + 1 // step over the newline
	}

	rest := buf.TextRange(offset, lineEnd)
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(rest, -1)
	return offset + ByteOffset(len(cluster))
}

// PrevBoundary returns the offset of the previous grapheme boundary before
// offset. At the start of a line it steps back over the newline.
func PrevBoundary(buf *buffer.Buffer, offset ByteOffset) ByteOffset {
	if offset <= 0 {
		return 0
	}
	offset = buf.ClampOffset(offset, true)

	p := buf.OffsetToPoint(offset)
	lineStart := buf.LineStartOffset(p.Line)
	if offset <= lineStart {
		return offset - 1 // step back over the newline
	}

	// Walk the line's clusters up to offset; last boundary wins.
	line := buf.TextRange(lineStart, offset)
	var prev ByteOffset = lineStart
	state := -1
	for len(line) > 0 {
		cluster, rest, _, next := uniseg.FirstGraphemeClusterInString(line, state)
		if prev+ByteOffset(len(cluster)) >= offset {
			break
		}
		prev += ByteOffset(len(cluster))
		line = rest
		state = next
	}
	return prev
}

// BoundaryCount returns the number of grapheme clusters in s. Used for
// counting deletion units.
func BoundaryCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
