package buffer

import "fmt"

// Range is a half-open byte range [Start, End) in the buffer.
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// NewRange creates a range, swapping the bounds if they are inverted.
func NewRange(start, end ByteOffset) Range {
	if start > end {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() ByteOffset {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Start >= r.End
}

// Contains reports whether offset falls within the range.
func (r Range) Contains(offset ByteOffset) bool {
	return offset >= r.Start && offset < r.End
}

// ContainsRange reports whether other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Overlaps reports whether the two ranges share any bytes.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Intersect returns the overlapping part of the two ranges. The second
// return value is false if they do not overlap.
func (r Range) Intersect(other Range) (Range, bool) {
	start := r.Start
	if other.Start > start {
		start = other.Start
	}
	end := r.End
	if other.End < end {
		end = other.End
	}
	if start >= end {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// Union returns the smallest range covering both ranges.
func (r Range) Union(other Range) Range {
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	return Range{Start: start, End: end}
}

// Shift returns the range moved by delta bytes.
func (r Range) Shift(delta ByteOffset) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}
