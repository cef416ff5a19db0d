package buffer

import (
	"io"
	"strings"

	"github.com/vellum-editor/vellum/internal/engine/rope"
)

// Snapshot is an immutable view of a buffer at a single revision. It is
// safe for concurrent use and costs O(1) to create because the underlying
// rope is shared, never copied.
type Snapshot struct {
	rope       rope.Rope
	revision   RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// Revision returns the revision the snapshot was taken at.
func (s *Snapshot) Revision() RevisionID {
	return s.revision
}

// Text returns the full LF-normalized content.
func (s *Snapshot) Text() string {
	return s.rope.String()
}

// TextRange returns the text in [start, end).
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	return s.rope.Slice(start, end)
}

// Len returns the snapshot length in bytes.
func (s *Snapshot) Len() ByteOffset {
	return s.rope.Len()
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return s.rope.LineCount()
}

// LineText returns the text of a line without its newline.
func (s *Snapshot) LineText(line int) string {
	return s.rope.LineText(line)
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point {
	p := s.rope.OffsetToPoint(offset)
	return Point{Line: p.Line, Column: p.Column}
}

// PointToOffset converts line/column to a byte offset.
func (s *Snapshot) PointToOffset(p Point) ByteOffset {
	return s.rope.PointToOffset(rope.Point{Line: p.Line, Column: p.Column})
}

// LineEnding returns the serialization line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}

// TabWidth returns the snapshot's tab width.
func (s *Snapshot) TabWidth() int {
	return s.tabWidth
}

// WriteTo serializes the snapshot to w with its line ending style applied.
// It implements io.WriterTo.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	var written int64
	seq := s.lineEnding.Sequence()
	it := s.rope.Chunks()
	for it.Next() {
		chunk := it.Chunk()
		if s.lineEnding != LineEndingLF {
			chunk = strings.ReplaceAll(chunk, "\n", seq)
		}
		n, err := io.WriteString(w, chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
