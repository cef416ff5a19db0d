package buffer

import (
	"fmt"
	"sync/atomic"
)

// ByteOffset is a byte position in the buffer. It is the canonical position
// type; line/column and visual positions are derived from it.
type ByteOffset = int64

// Point is a 0-indexed line and column position. Column counts bytes from
// the start of the line.
type Point struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if equal, 1 if p > other.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Before reports whether p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After reports whether p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// RevisionID identifies a buffer revision. Every mutation produces a new
// revision.
type RevisionID uint64

var revisionCounter atomic.Uint64

// NextRevisionID returns a process-unique revision ID.
func NextRevisionID() RevisionID {
	return RevisionID(revisionCounter.Add(1))
}
