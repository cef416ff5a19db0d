package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
)

func mustNew(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewEmpty(t *testing.T) {
	e := mustNew(t)
	if e.Text() != "" || e.Len() != 0 || e.LineCount() != 1 {
		t.Errorf("empty engine state: %q len=%d lines=%d", e.Text(), e.Len(), e.LineCount())
	}
	if e.PrimaryCursor() != 0 {
		t.Errorf("initial cursor = %d", e.PrimaryCursor())
	}
}

func TestNewWithContent(t *testing.T) {
	e := mustNew(t, WithContent("line 1\nline 2"))
	if e.LineCount() != 2 {
		t.Errorf("LineCount = %d", e.LineCount())
	}
	if got := e.LineText(1); got != "line 2" {
		t.Errorf("LineText(1) = %q", got)
	}
}

func TestNewWithReader(t *testing.T) {
	e := mustNew(t, WithReader(strings.NewReader("from reader")))
	if e.Text() != "from reader" {
		t.Errorf("Text = %q", e.Text())
	}
}

func TestCRLFContentDetected(t *testing.T) {
	e := mustNew(t, WithContent("a\r\nb"), WithTabWidth(8))
	if e.LineEnding() != buffer.LineEndingCRLF {
		t.Errorf("LineEnding = %v", e.LineEnding())
	}
	if e.Text() != "a\nb" {
		t.Errorf("Text = %q, want LF-normalized", e.Text())
	}
}

func TestInsertAtCursor(t *testing.T) {
	e := mustNew(t, WithContent("hello"))
	e.SetPrimaryCursor(5)
	if err := e.Insert(", world"); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "hello, world" {
		t.Errorf("Text = %q", e.Text())
	}
	if e.PrimaryCursor() != 12 {
		t.Errorf("cursor = %d", e.PrimaryCursor())
	}
}

func TestUndoRedo(t *testing.T) {
	e := mustNew(t)
	if err := e.Insert("Hello"); err != nil {
		t.Fatal(err)
	}
	e.SetPrimaryCursor(5)
	if err := e.Insert(" World"); err != nil {
		t.Fatal(err)
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "Hello" {
		t.Errorf("after undo: %q", e.Text())
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "" {
		t.Errorf("after second undo: %q", e.Text())
	}
	if err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "Hello" {
		t.Errorf("after redo: %q", e.Text())
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("exhausted undo = %v", err)
	}
}

func TestUndoGrouping(t *testing.T) {
	e := mustNew(t, WithContent("abcde"))
	e.BeginUndoGroup("rewrite")
	if err := e.Replace(0, 2, "XY"); err != nil {
		t.Fatal(err)
	}
	if err := e.Replace(3, 5, "Z"); err != nil {
		t.Fatal(err)
	}
	e.EndUndoGroup()

	if e.Text() != "XYcZ" {
		t.Fatalf("after group: %q", e.Text())
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "abcde" {
		t.Errorf("after group undo: %q", e.Text())
	}
}

func TestMultiCursorInsert(t *testing.T) {
	e := mustNew(t, WithContent("foo bar foo"))
	e.SetPrimaryCursor(0)
	e.AddCursor(8)
	if err := e.Insert("X"); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "Xfoo bar Xfoo" {
		t.Errorf("Text = %q", e.Text())
	}
}

func TestDeleteBackwardAcrossSelection(t *testing.T) {
	e := mustNew(t, WithContent("hello world"))
	e.Select(cursor.New(5, 11))
	if err := e.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "hello" {
		t.Errorf("Text = %q", e.Text())
	}
}

func TestReadOnly(t *testing.T) {
	e := mustNew(t, WithContent("locked"), WithReadOnly())
	if err := e.Insert("x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Insert on read-only = %v", err)
	}
	if err := e.Undo(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Undo on read-only = %v", err)
	}
	if e.Text() != "locked" {
		t.Errorf("read-only buffer modified: %q", e.Text())
	}
}

func TestCursorClampsToRuneBoundary(t *testing.T) {
	e := mustNew(t, WithContent("a世b"))
	e.SetPrimaryCursor(2) // inside the 3-byte rune
	if e.PrimaryCursor() != 1 {
		t.Errorf("cursor = %d, want snapped to 1", e.PrimaryCursor())
	}
}

func TestOnChange(t *testing.T) {
	e := mustNew(t)
	var mu sync.Mutex
	calls := 0
	e.OnChange(func(buffer.Change) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	if err := e.Insert("a"); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("change callbacks = %d, want 2", calls)
	}
}

func TestSnapshotsAndDiff(t *testing.T) {
	e := mustNew(t, WithContent("one\ntwo"))
	e.CreateSnapshot("start")

	e.SetPrimaryCursor(e.Len())
	if err := e.Insert("\nthree"); err != nil {
		t.Fatal(err)
	}

	text, err := e.GetSnapshotText("start")
	if err != nil {
		t.Fatal(err)
	}
	if text != "one\ntwo" {
		t.Errorf("snapshot text = %q", text)
	}

	stats, err := e.StatsSinceSnapshot("start")
	if err != nil {
		t.Fatal(err)
	}
	if stats.LinesAdded != 1 || stats.LinesRemoved != 0 {
		t.Errorf("stats = %+v", stats)
	}

	if _, err := e.GetSnapshotText("missing"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("missing snapshot = %v", err)
	}
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	e := mustNew(t, WithContent(strings.Repeat("line\n", 100)))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = e.Text()
					_ = e.LineCount()
					_ = e.Selections()
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		if err := e.Insert("x"); err != nil {
			t.Errorf("Insert: %v", err)
		}
	}
	close(stop)
	wg.Wait()
}
