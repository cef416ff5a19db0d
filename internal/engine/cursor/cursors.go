package cursor

import (
	"sort"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// Set manages one or more selections. Invariants: selections are sorted by
// start offset, non-overlapping, and there is always at least one. The
// first selection is the primary.
type Set struct {
	selections []Selection
}

// NewSet creates a set with a single cursor at offset 0.
func NewSet() *Set {
	return &Set{selections: []Selection{At(0)}}
}

// NewSetAt creates a set with a single cursor at the given offset.
func NewSetAt(offset ByteOffset) *Set {
	return &Set{selections: []Selection{At(offset)}}
}

// NewSetFrom creates a set from existing selections, normalizing them.
func NewSetFrom(sels []Selection) *Set {
	s := &Set{selections: make([]Selection, len(sels))}
	copy(s.selections, sels)
	s.normalize()
	return s
}

// Primary returns the primary (first) selection.
func (s *Set) Primary() Selection {
	return s.selections[0]
}

// PrimaryOffset returns the head offset of the primary selection.
func (s *Set) PrimaryOffset() ByteOffset {
	return s.selections[0].Head
}

// All returns a copy of all selections, safe for the caller to modify.
func (s *Set) All() []Selection {
	out := make([]Selection, len(s.selections))
	copy(out, s.selections)
	return out
}

// Count returns the number of selections.
func (s *Set) Count() int {
	return len(s.selections)
}

// IsMulti reports whether there is more than one selection.
func (s *Set) IsMulti() bool {
	return len(s.selections) > 1
}

// Add inserts a selection, merging overlaps.
func (s *Set) Add(sel Selection) {
	s.selections = append(s.selections, sel)
	s.normalize()
}

// Set replaces everything with a single selection.
func (s *Set) Set(sel Selection) {
	s.selections = s.selections[:0]
	s.selections = append(s.selections, sel)
}

// SetAll replaces all selections. An empty slice resets to a cursor at 0.
func (s *Set) SetAll(sels []Selection) {
	if len(sels) == 0 {
		s.Set(At(0))
		return
	}
	s.selections = s.selections[:0]
	s.selections = append(s.selections, sels...)
	s.normalize()
}

// Collapse reduces every selection to a cursor at its head.
func (s *Set) Collapse() {
	for i, sel := range s.selections {
		s.selections[i] = sel.Collapse()
	}
	s.normalize()
}

// MapAll replaces each selection with fn(selection) and re-normalizes.
func (s *Set) MapAll(fn func(Selection) Selection) {
	for i, sel := range s.selections {
		s.selections[i] = fn(sel)
	}
	s.normalize()
}

// AdjustForChange maps every selection across an applied buffer change.
func (s *Set) AdjustForChange(c buffer.Change) {
	for i, sel := range s.selections {
		s.selections[i] = sel.AdjustForChange(c)
	}
	s.normalize()
}

// normalize sorts selections and merges overlapping ones. Merging two
// selections keeps the union range with the direction of the earlier one.
func (s *Set) normalize() {
	if len(s.selections) == 0 {
		s.selections = append(s.selections, At(0))
		return
	}

	sort.SliceStable(s.selections, func(i, j int) bool {
		a, b := s.selections[i], s.selections[j]
		if a.Start() != b.Start() {
			return a.Start() < b.Start()
		}
		return a.End() < b.End()
	})

	merged := s.selections[:1]
	for _, sel := range s.selections[1:] {
		last := &merged[len(merged)-1]
		if last.Overlaps(sel) {
			u := last.Range().Union(sel.Range())
			if last.IsForward() {
				*last = Selection{Anchor: u.Start, Head: u.End}
			} else {
				*last = Selection{Anchor: u.End, Head: u.Start}
			}
			continue
		}
		merged = append(merged, sel)
	}
	s.selections = merged
}
