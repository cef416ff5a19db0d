package rope

import "strings"

// MaxLeafBytes is the maximum number of bytes stored in a single leaf.
// Leaves longer than this are split during construction and insertion.
const MaxLeafBytes = 512

// maxHeight bounds the depth of ropes we consider balanced. fibs has an
// entry per height; a rope of height h is balanced when its byte length is
// at least fibs[h].
const maxHeight = 64

var fibs = buildFibs()

func buildFibs() [maxHeight]int64 {
	var f [maxHeight]int64
	f[0], f[1] = 1, 1
	for i := 2; i < maxHeight; i++ {
		f[i] = f[i-1] + f[i-2]
		if f[i] < f[i-1] { // overflow guard
			f[i] = f[i-1]
		}
	}
	return f
}

// node is a rope tree node. A leaf holds text; an internal node holds two
// non-nil children and cached aggregates over its subtree.
type node struct {
	left, right *node

	// Cached aggregates. For a leaf these describe text; for an internal
	// node they cover the whole subtree.
	length   int64
	newlines int
	height   int

	text string // leaf payload; empty for internal nodes
}

func newLeaf(text string) *node {
	return &node{
		length:   int64(len(text)),
		newlines: strings.Count(text, "\n"),
		text:     text,
	}
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// join creates an internal node over two non-nil children without
// rebalancing. Callers that may produce deep trees go through concat.
func join(left, right *node) *node {
	h := left.height
	if right.height > h {
		h = right.height
	}
	return &node{
		left:     left,
		right:    right,
		length:   left.length + right.length,
		newlines: left.newlines + right.newlines,
		height:   h + 1,
	}
}

// concat joins two subtrees, merging small adjacent leaves and rebalancing
// when the result grows too deep for its length.
func concat(left, right *node) *node {
	if left == nil || left.length == 0 {
		return right
	}
	if right == nil || right.length == 0 {
		return left
	}

	// Merge adjacent short leaves to keep the tree shallow under
	// character-at-a-time insertion.
	if left.isLeaf() && right.isLeaf() && left.length+right.length <= MaxLeafBytes {
		return newLeaf(left.text + right.text)
	}
	if !left.isLeaf() && left.right.isLeaf() && right.isLeaf() &&
		left.right.length+right.length <= MaxLeafBytes {
		return join(left.left, newLeaf(left.right.text+right.text))
	}

	n := join(left, right)
	if !n.balanced() {
		return rebalance(n)
	}
	return n
}

// balanced reports whether the subtree depth is justified by its length,
// using the classic Fibonacci criterion.
func (n *node) balanced() bool {
	if n.height >= maxHeight {
		return false
	}
	return n.length >= fibs[n.height]
}

// rebalance rebuilds the subtree from its leaves into a near-perfect tree.
func rebalance(n *node) *node {
	leaves := make([]*node, 0, 1<<uint(min(n.height, 12)))
	leaves = collectLeaves(n, leaves)
	return buildBalanced(leaves)
}

func collectLeaves(n *node, out []*node) []*node {
	if n.isLeaf() {
		if n.length > 0 {
			out = append(out, n)
		}
		return out
	}
	out = collectLeaves(n.left, out)
	return collectLeaves(n.right, out)
}

func buildBalanced(leaves []*node) *node {
	switch len(leaves) {
	case 0:
		return newLeaf("")
	case 1:
		return leaves[0]
	}
	mid := len(leaves) / 2
	return join(buildBalanced(leaves[:mid]), buildBalanced(leaves[mid:]))
}

// split divides the subtree at offset into [0, offset) and [offset, len).
// offset must satisfy 0 < offset < n.length.
func (n *node) split(offset int64) (*node, *node) {
	if n.isLeaf() {
		return newLeaf(n.text[:offset]), newLeaf(n.text[offset:])
	}
	if offset < n.left.length {
		ll, lr := n.left.split(offset)
		return ll, concat(lr, n.right)
	}
	if offset > n.left.length {
		rl, rr := n.right.split(offset - n.left.length)
		return concat(n.left, rl), rr
	}
	return n.left, n.right
}

// textInRange appends the bytes in [start, end) of the subtree to sb.
// The range is assumed valid against the subtree length.
func (n *node) textInRange(sb *strings.Builder, start, end int64) {
	if n.isLeaf() {
		sb.WriteString(n.text[start:end])
		return
	}
	if start < n.left.length {
		rightEdge := end
		if rightEdge > n.left.length {
			rightEdge = n.left.length
		}
		n.left.textInRange(sb, start, rightEdge)
	}
	if end > n.left.length {
		leftEdge := start - n.left.length
		if leftEdge < 0 {
			leftEdge = 0
		}
		n.right.textInRange(sb, leftEdge, end-n.left.length)
	}
}

func (n *node) appendTo(sb *strings.Builder) {
	if n.isLeaf() {
		sb.WriteString(n.text)
		return
	}
	n.left.appendTo(sb)
	n.right.appendTo(sb)
}

// byteAt returns the byte at offset within the subtree. offset must be in
// [0, n.length).
func (n *node) byteAt(offset int64) byte {
	for !n.isLeaf() {
		if offset < n.left.length {
			n = n.left
		} else {
			offset -= n.left.length
			n = n.right
		}
	}
	return n.text[offset]
}

// newlinesBefore counts '\n' bytes in [0, offset) of the subtree.
func (n *node) newlinesBefore(offset int64) int {
	if offset >= n.length {
		return n.newlines
	}
	if n.isLeaf() {
		return strings.Count(n.text[:offset], "\n")
	}
	if offset <= n.left.length {
		return n.left.newlinesBefore(offset)
	}
	return n.left.newlines + n.right.newlinesBefore(offset-n.left.length)
}

// offsetAfterNewline returns the byte offset immediately after the k-th
// newline in the subtree (k is 1-indexed, k <= n.newlines).
func (n *node) offsetAfterNewline(k int) int64 {
	if n.isLeaf() {
		var off int64
		text := n.text
		for i := 0; i < k; i++ {
			idx := strings.IndexByte(text, '\n')
			off += int64(idx) + 1
			text = text[idx+1:]
		}
		return off
	}
	if k <= n.left.newlines {
		return n.left.offsetAfterNewline(k)
	}
	return n.left.length + n.right.offsetAfterNewline(k-n.left.newlines)
}
