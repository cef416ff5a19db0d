package rope

import "unicode/utf8"

// ChunkIterator walks the rope's leaves in order without copying text.
//
//	it := r.Chunks()
//	for it.Next() {
//		process(it.Chunk())
//	}
type ChunkIterator struct {
	stack   []*node
	current string
}

// Chunks returns an iterator over the rope's text chunks.
func (r Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{}
	if r.root != nil && r.root.length > 0 {
		it.push(r.root)
	}
	return it
}

func (it *ChunkIterator) push(n *node) {
	for !n.isLeaf() {
		it.stack = append(it.stack, n.right)
		n = n.left
	}
	it.stack = append(it.stack, n)
}

// Next advances to the next chunk. It returns false when the rope is
// exhausted.
func (it *ChunkIterator) Next() bool {
	for len(it.stack) > 0 {
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		if !n.isLeaf() {
			it.push(n)
			continue
		}
		if n.length == 0 {
			continue
		}
		it.current = n.text
		return true
	}
	it.current = ""
	return false
}

// Chunk returns the current chunk. Valid only after Next returns true.
func (it *ChunkIterator) Chunk() string {
	return it.current
}

// RuneIterator walks the rope rune by rune, tracking byte offsets. Runes
// split across leaf boundaries are decoded across chunks.
type RuneIterator struct {
	chunks *ChunkIterator
	buf    []byte
	done   bool
	offset ByteOffset
}

// Runes returns an iterator over the rope's runes starting at byte 0.
func (r Rope) Runes() *RuneIterator {
	return &RuneIterator{chunks: r.Chunks()}
}

// Next returns the next rune, its starting byte offset, and false when the
// rope is exhausted.
func (it *RuneIterator) Next() (rune, ByteOffset, bool) {
	for len(it.buf) == 0 || (!it.done && !utf8.FullRune(it.buf)) {
		if !it.chunks.Next() {
			it.done = true
			break
		}
		it.buf = append(it.buf, it.chunks.Chunk()...)
	}
	if len(it.buf) == 0 {
		return utf8.RuneError, it.offset, false
	}
	r, size := utf8.DecodeRune(it.buf)
	it.buf = it.buf[size:]
	off := it.offset
	it.offset += ByteOffset(size)
	return r, off, true
}
