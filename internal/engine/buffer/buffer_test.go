package buffer

import (
	"errors"
	"strings"
	"testing"
)

func TestNewFromString(t *testing.T) {
	b := NewFromString("hello\nworld")
	if b.Text() != "hello\nworld" {
		t.Errorf("Text() = %q", b.Text())
	}
	if b.LineCount() != 2 {
		t.Errorf("LineCount() = %d, want 2", b.LineCount())
	}
	if b.Len() != 11 {
		t.Errorf("Len() = %d, want 11", b.Len())
	}
}

func TestLineEndingDetection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  LineEnding
	}{
		{"plain", "no line breaks", LineEndingLF},
		{"lf", "a\nb\nc", LineEndingLF},
		{"crlf", "a\r\nb\r\nc", LineEndingCRLF},
		{"cr", "a\rb\rc", LineEndingCR},
		{"mixed mostly crlf", "a\r\nb\r\nc\nd", LineEndingCRLF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromString(tt.input)
			if b.LineEnding() != tt.want {
				t.Errorf("LineEnding() = %v, want %v", b.LineEnding(), tt.want)
			}
			// Content is always LF-normalized internally.
			if strings.Contains(b.Text(), "\r") {
				t.Error("internal text contains carriage returns")
			}
		})
	}
}

func TestSerializeRestoresLineEndings(t *testing.T) {
	b := NewFromString("a\r\nb\r\nc")
	if got := b.Serialize(); got != "a\r\nb\r\nc" {
		t.Errorf("Serialize() = %q", got)
	}
	b.SetLineEnding(LineEndingLF)
	if got := b.Serialize(); got != "a\nb\nc" {
		t.Errorf("Serialize() after SetLineEnding = %q", got)
	}
}

func TestInsertDeleteReplace(t *testing.T) {
	b := NewFromString("hello world")

	change, err := b.Insert(5, ",")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if b.Text() != "hello, world" {
		t.Errorf("after insert: %q", b.Text())
	}
	if change.NewText != "," || change.OldText != "" {
		t.Errorf("insert change = %+v", change)
	}

	if _, err := b.Delete(5, 6); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if b.Text() != "hello world" {
		t.Errorf("after delete: %q", b.Text())
	}

	change, err = b.Replace(6, 11, "rope")
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if b.Text() != "hello rope" {
		t.Errorf("after replace: %q", b.Text())
	}
	if change.OldText != "world" {
		t.Errorf("replace OldText = %q", change.OldText)
	}
}

func TestEditValidation(t *testing.T) {
	b := NewFromString("abc")

	if _, err := b.Insert(-1, "x"); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("negative offset: %v", err)
	}
	if _, err := b.Insert(4, "x"); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("offset past end: %v", err)
	}
	if _, err := b.Delete(2, 1); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("inverted range: %v", err)
	}
}

func TestChangeInvertRoundTrip(t *testing.T) {
	b := NewFromString("the quick brown fox")
	change, err := b.Replace(4, 9, "slow")
	if err != nil {
		t.Fatal(err)
	}
	if b.Text() != "the slow brown fox" {
		t.Fatalf("after replace: %q", b.Text())
	}

	inv := change.Invert()
	if _, err := b.ApplyEdit(inv.ToEdit()); err != nil {
		t.Fatalf("apply inverse: %v", err)
	}
	if b.Text() != "the quick brown fox" {
		t.Errorf("after invert: %q", b.Text())
	}
}

func TestApplyEdits(t *testing.T) {
	b := NewFromString("aaa bbb ccc")

	// Reverse offset order so edits do not shift each other.
	edits := []Edit{
		NewReplace(8, 11, "C"),
		NewReplace(4, 7, "B"),
		NewReplace(0, 3, "A"),
	}
	changes, err := b.ApplyEdits(edits)
	if err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	if b.Text() != "A B C" {
		t.Errorf("after batch: %q", b.Text())
	}
	if len(changes) != 3 {
		t.Errorf("changes = %d, want 3", len(changes))
	}

	// Overlapping batch is rejected before anything applies.
	b2 := NewFromString("abcdef")
	_, err = b2.ApplyEdits([]Edit{NewDelete(2, 5), NewDelete(0, 3)})
	if !errors.Is(err, ErrEditsOverlap) {
		t.Errorf("overlap error = %v", err)
	}
	if b2.Text() != "abcdef" {
		t.Errorf("buffer modified by rejected batch: %q", b2.Text())
	}
}

func TestRevisionAdvances(t *testing.T) {
	b := NewFromString("x")
	r1 := b.Revision()
	if _, err := b.Insert(0, "y"); err != nil {
		t.Fatal(err)
	}
	if b.Revision() == r1 {
		t.Error("revision did not advance after edit")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	b := NewFromString("before")
	snap := b.Snapshot()

	if _, err := b.Replace(0, 6, "after"); err != nil {
		t.Fatal(err)
	}

	if snap.Text() != "before" {
		t.Errorf("snapshot text = %q, want %q", snap.Text(), "before")
	}
	if b.Text() != "after" {
		t.Errorf("buffer text = %q, want %q", b.Text(), "after")
	}
	if snap.Revision() == b.Revision() {
		t.Error("snapshot revision should differ after edit")
	}
}

func TestSnapshotWriteTo(t *testing.T) {
	b := NewFromString("a\r\nb")
	var sb strings.Builder
	if _, err := b.Snapshot().WriteTo(&sb); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "a\r\nb" {
		t.Errorf("WriteTo = %q", sb.String())
	}
}

func TestClampOffset(t *testing.T) {
	b := NewFromString("a世b") // 世 occupies bytes 1-3
	tests := []struct {
		offset ByteOffset
		want   ByteOffset
	}{
		{-5, 0},
		{0, 0},
		{1, 1},
		{2, 1}, // inside the multi-byte rune, snaps back
		{3, 1},
		{4, 4},
		{99, 5},
	}
	for _, tt := range tests {
		if got := b.ClampOffset(tt.offset, true); got != tt.want {
			t.Errorf("ClampOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestVisualColumn(t *testing.T) {
	b := NewFromString("\ta世b", WithTabWidth(4))
	tests := []struct {
		name string
		p    Point
		want int
	}{
		{"line start", Point{0, 0}, 0},
		{"after tab", Point{0, 1}, 4},
		{"after a", Point{0, 2}, 5},
		{"after wide rune", Point{0, 5}, 7},
		{"line end", Point{0, 6}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.VisualColumn(tt.p); got != tt.want {
				t.Errorf("VisualColumn(%v) = %d, want %d", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointForVisualColumn(t *testing.T) {
	b := NewFromString("\tabc", WithTabWidth(4))
	tests := []struct {
		target int
		want   Point
	}{
		{0, Point{0, 0}},
		{3, Point{0, 0}}, // inside the tab
		{4, Point{0, 1}},
		{5, Point{0, 2}},
		{99, Point{0, 4}},
	}
	for _, tt := range tests {
		if got := b.PointForVisualColumn(0, tt.target); got != tt.want {
			t.Errorf("PointForVisualColumn(0, %d) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestRangeOps(t *testing.T) {
	a := Range{Start: 2, End: 8}
	if !a.Contains(2) || a.Contains(8) {
		t.Error("Contains boundary behavior wrong")
	}
	if got, ok := a.Intersect(Range{Start: 6, End: 10}); !ok || got != (Range{Start: 6, End: 8}) {
		t.Errorf("Intersect = %v, %v", got, ok)
	}
	if _, ok := a.Intersect(Range{Start: 8, End: 9}); ok {
		t.Error("touching ranges should not intersect")
	}
	if got := a.Union(Range{Start: 0, End: 3}); got != (Range{Start: 0, End: 8}) {
		t.Errorf("Union = %v", got)
	}
	if NewRange(5, 1) != (Range{Start: 1, End: 5}) {
		t.Error("NewRange should swap inverted bounds")
	}
}

func TestAdjustOffset(t *testing.T) {
	// Replace [3,6) "def" with "XY" in "abcdefgh": delta -1.
	c := Change{
		Range:    Range{Start: 3, End: 6},
		NewRange: Range{Start: 3, End: 5},
		OldText:  "def",
		NewText:  "XY",
	}
	tests := []struct {
		offset, want ByteOffset
	}{
		{0, 0},
		{3, 3},
		{4, 5}, // inside replaced range collapses to new end
		{6, 5},
		{8, 7},
	}
	for _, tt := range tests {
		if got := c.AdjustOffset(tt.offset); got != tt.want {
			t.Errorf("AdjustOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}
