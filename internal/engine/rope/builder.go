package rope

import "io"

// Builder constructs a rope incrementally from appended text. It batches
// writes into full leaves and builds a balanced tree in one pass, which is
// considerably cheaper than repeated Concat for large inputs.
//
// The zero value is ready to use.
type Builder struct {
	leaves  []*node
	pending []byte
}

// WriteString appends s to the rope being built.
func (b *Builder) WriteString(s string) {
	for len(s) > 0 {
		room := MaxLeafBytes - len(b.pending)
		if room == 0 {
			b.flush()
			room = MaxLeafBytes
		}
		n := len(s)
		if n > room {
			n = room
		}
		b.pending = append(b.pending, s[:n]...)
		s = s[n:]
	}
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.WriteString(string(p))
	return len(p), nil
}

func (b *Builder) flush() {
	if len(b.pending) == 0 {
		return
	}
	b.leaves = append(b.leaves, newLeaf(string(b.pending)))
	b.pending = b.pending[:0]
}

// Build returns the accumulated rope and resets the builder.
func (b *Builder) Build() Rope {
	b.flush()
	root := buildBalanced(b.leaves)
	b.leaves = nil
	return Rope{root: root}
}

// FromReader creates a rope from the contents of r.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.WriteString(string(buf[:n]))
		}
		if err == io.EOF {
			return b.Build(), nil
		}
		if err != nil {
			return Rope{}, err
		}
	}
}
