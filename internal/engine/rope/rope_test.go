package rope

import (
	"math/rand"
	"strings"
	"testing"
	"testing/quick"
)

func TestNew(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if !r.IsEmpty() {
		t.Error("new rope should be empty")
	}
	if r.String() != "" {
		t.Errorf("String() = %q, want \"\"", r.String())
	}
	if r.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", r.LineCount())
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single char", "a"},
		{"short", "hello"},
		{"with newline", "hello\nworld"},
		{"trailing newline", "a\nb\n"},
		{"unicode", "héllo wörld 世界 🌍"},
		{"larger than leaf", strings.Repeat("abcdefghij", 200)},
		{"many lines", strings.Repeat("line\n", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if r.String() != tt.input {
				t.Errorf("String() = %q, want %q", r.String(), tt.input)
			}
			if r.Len() != int64(len(tt.input)) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.input))
			}
			wantLines := strings.Count(tt.input, "\n") + 1
			if r.LineCount() != wantLines {
				t.Errorf("LineCount() = %d, want %d", r.LineCount(), wantLines)
			}
		})
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		offset  ByteOffset
		text    string
		want    string
	}{
		{"into empty", "", 0, "abc", "abc"},
		{"at start", "world", 0, "hello ", "hello world"},
		{"at end", "hello", 5, " world", "hello world"},
		{"in middle", "held", 3, "lo wor", "hello world"},
		{"empty text", "hello", 2, "", "hello"},
		{"past end appends", "ab", 99, "c", "abc"},
		{"newline", "ab", 1, "\n", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial)
			got := r.Insert(tt.offset, tt.text)
			if got.String() != tt.want {
				t.Errorf("Insert() = %q, want %q", got.String(), tt.want)
			}
			if r.String() != tt.initial {
				t.Errorf("original mutated: %q", r.String())
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name       string
		initial    string
		start, end ByteOffset
		want       string
	}{
		{"all", "hello", 0, 5, ""},
		{"prefix", "hello", 0, 2, "llo"},
		{"suffix", "hello", 3, 5, "hel"},
		{"middle", "hello world", 5, 6, "helloworld"},
		{"empty range", "hello", 2, 2, "hello"},
		{"clamped end", "hello", 3, 99, "hel"},
		{"inverted range", "hello", 4, 2, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromString(tt.initial).Delete(tt.start, tt.end)
			if got.String() != tt.want {
				t.Errorf("Delete() = %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name       string
		initial    string
		start, end ByteOffset
		text       string
		want       string
	}{
		{"middle", "hello world", 6, 11, "rope", "hello rope"},
		{"grow", "ab", 1, 2, "bcd", "abcd"},
		{"shrink", "abcd", 0, 3, "x", "xd"},
		{"pure insert", "ab", 1, 1, "x", "axb"},
		{"pure delete", "abc", 1, 2, "", "ac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromString(tt.initial).Replace(tt.start, tt.end, tt.text)
			if got.String() != tt.want {
				t.Errorf("Replace() = %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestSliceAndByteAt(t *testing.T) {
	text := "the quick brown fox\njumps over\nthe lazy dog"
	r := FromString(text)

	if got := r.Slice(4, 9); got != "quick" {
		t.Errorf("Slice(4,9) = %q, want %q", got, "quick")
	}
	if got := r.Slice(-5, 3); got != "the" {
		t.Errorf("Slice(-5,3) = %q, want %q", got, "the")
	}
	if got := r.Slice(40, 99); got != " dog" {
		t.Errorf("Slice(40,99) = %q, want %q", got, " dog")
	}

	for i := 0; i < len(text); i++ {
		b, ok := r.ByteAt(int64(i))
		if !ok || b != text[i] {
			t.Fatalf("ByteAt(%d) = %q, %v, want %q", i, b, ok, text[i])
		}
	}
	if _, ok := r.ByteAt(int64(len(text))); ok {
		t.Error("ByteAt(len) should report false")
	}
}

func TestRuneAt(t *testing.T) {
	r := FromString("a世b")
	if got, size := r.RuneAt(1); got != '世' || size != 3 {
		t.Errorf("RuneAt(1) = %q, %d", got, size)
	}
	if _, size := r.RuneAt(99); size != 0 {
		t.Error("RuneAt out of range should return size 0")
	}
}

func TestLineAddressing(t *testing.T) {
	r := FromString("alpha\nbeta\n\ngamma")

	tests := []struct {
		line        int
		start, end  ByteOffset
		text        string
	}{
		{0, 0, 5, "alpha"},
		{1, 6, 10, "beta"},
		{2, 11, 11, ""},
		{3, 12, 17, "gamma"},
	}
	for _, tt := range tests {
		if got := r.LineStartOffset(tt.line); got != tt.start {
			t.Errorf("LineStartOffset(%d) = %d, want %d", tt.line, got, tt.start)
		}
		if got := r.LineEndOffset(tt.line); got != tt.end {
			t.Errorf("LineEndOffset(%d) = %d, want %d", tt.line, got, tt.end)
		}
		if got := r.LineText(tt.line); got != tt.text {
			t.Errorf("LineText(%d) = %q, want %q", tt.line, got, tt.text)
		}
	}

	if got := r.LineStartOffset(99); got != r.Len() {
		t.Errorf("LineStartOffset past end = %d, want %d", got, r.Len())
	}
}

func TestPointConversion(t *testing.T) {
	r := FromString("ab\ncdef\n\ng")

	tests := []struct {
		offset ByteOffset
		point  Point
	}{
		{0, Point{0, 0}},
		{1, Point{0, 1}},
		{2, Point{0, 2}}, // at the newline
		{3, Point{1, 0}},
		{7, Point{1, 4}},
		{8, Point{2, 0}},
		{9, Point{3, 0}},
		{10, Point{3, 1}},
	}
	for _, tt := range tests {
		if got := r.OffsetToPoint(tt.offset); got != tt.point {
			t.Errorf("OffsetToPoint(%d) = %+v, want %+v", tt.offset, got, tt.point)
		}
		if got := r.PointToOffset(tt.point); got != tt.offset {
			t.Errorf("PointToOffset(%+v) = %d, want %d", tt.point, got, tt.offset)
		}
	}

	// Columns past line end clamp to the line end.
	if got := r.PointToOffset(Point{Line: 0, Column: 99}); got != 2 {
		t.Errorf("clamped column = %d, want 2", got)
	}
}

func TestSplitConcat(t *testing.T) {
	text := "hello rope world"
	r := FromString(text)
	for i := int64(0); i <= r.Len(); i++ {
		left, right := r.Split(i)
		if left.String() != text[:i] || right.String() != text[i:] {
			t.Fatalf("Split(%d) = %q, %q", i, left.String(), right.String())
		}
		if got := left.Concat(right); got.String() != text {
			t.Fatalf("Concat after Split(%d) = %q", i, got.String())
		}
	}
}

func TestEquals(t *testing.T) {
	// Same content, different structure.
	a := FromString("hello ").Concat(FromString("world"))
	b := FromString("hello world")
	if !a.Equals(b) {
		t.Error("ropes with equal content should be Equals")
	}
	if a.Equals(FromString("hello_world")) {
		t.Error("different content should not be Equals")
	}
}

func TestBalanceUnderSequentialInsert(t *testing.T) {
	r := New()
	for i := 0; i < 20000; i++ {
		r = r.Insert(r.Len(), "x")
	}
	if r.Len() != 20000 {
		t.Fatalf("Len() = %d, want 20000", r.Len())
	}
	if h := r.Height(); h > 40 {
		t.Errorf("Height() = %d after sequential inserts, tree is degenerate", h)
	}
}

func TestRuneIterator(t *testing.T) {
	text := "aé世🌍\nz"
	it := FromString(text).Runes()
	var got []rune
	var offsets []ByteOffset
	for {
		r, off, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, r)
		offsets = append(offsets, off)
	}
	if string(got) != text {
		t.Errorf("iterated runes = %q, want %q", string(got), text)
	}
	wantOffsets := []ByteOffset{0, 1, 3, 6, 10, 11}
	for i, off := range offsets {
		if off != wantOffsets[i] {
			t.Errorf("offset[%d] = %d, want %d", i, off, wantOffsets[i])
		}
	}
}

func TestBuilderMatchesFromString(t *testing.T) {
	var b Builder
	var ref strings.Builder
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		s := strings.Repeat(string(rune('a'+rng.Intn(26))), rng.Intn(100))
		b.WriteString(s)
		ref.WriteString(s)
	}
	if got := b.Build().String(); got != ref.String() {
		t.Error("Builder output does not round-trip")
	}
}

func TestFromReader(t *testing.T) {
	text := strings.Repeat("line of text\n", 1000)
	r, err := FromReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if r.String() != text {
		t.Error("FromReader content mismatch")
	}
}

// quick property: a random sequence of edits applied to a rope and to a
// plain string produce the same text.
func TestEditsMatchStringReference(t *testing.T) {
	f := func(seed int64) bool {
		rng := rand.New(rand.NewSource(seed))
		r := New()
		var ref string
		for i := 0; i < 300; i++ {
			switch rng.Intn(3) {
			case 0: // insert
				off := int64(0)
				if len(ref) > 0 {
					off = int64(rng.Intn(len(ref) + 1))
				}
				text := strings.Repeat(string(rune('a'+rng.Intn(26))), rng.Intn(20)+1)
				r = r.Insert(off, text)
				ref = ref[:off] + text + ref[off:]
			case 1: // delete
				if len(ref) == 0 {
					continue
				}
				start := rng.Intn(len(ref))
				end := start + rng.Intn(len(ref)-start)
				r = r.Delete(int64(start), int64(end))
				ref = ref[:start] + ref[end:]
			case 2: // replace
				if len(ref) == 0 {
					continue
				}
				start := rng.Intn(len(ref))
				end := start + rng.Intn(len(ref)-start)
				text := strings.Repeat("z", rng.Intn(10))
				r = r.Replace(int64(start), int64(end), text)
				ref = ref[:start] + text + ref[end:]
			}
		}
		return r.String() == ref && r.Len() == int64(len(ref)) &&
			r.LineCount() == strings.Count(ref, "\n")+1
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 20}); err != nil {
		t.Error(err)
	}
}

func FuzzInsertDelete(f *testing.F) {
	f.Add("hello\nworld", uint16(3), "xyz", uint16(2), uint16(7))
	f.Add("", uint16(0), "\n\n", uint16(0), uint16(1))
	f.Fuzz(func(t *testing.T, base string, insOff uint16, ins string, delStart, delEnd uint16) {
		r := FromString(base)
		ref := base

		off := int64(insOff) % (int64(len(ref)) + 1)
		r = r.Insert(off, ins)
		ref = ref[:off] + ins + ref[off:]

		if len(ref) > 0 {
			start := int64(delStart) % int64(len(ref))
			end := int64(delEnd) % (int64(len(ref)) + 1)
			r = r.Delete(start, end)
			if start < end {
				ref = ref[:start] + ref[end:]
			}
		}

		if r.String() != ref {
			t.Errorf("rope = %q, reference = %q", r.String(), ref)
		}
	})
}
