package engine

import (
	"fmt"
	"sync"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
	"github.com/vellum-editor/vellum/internal/engine/history"
	"github.com/vellum-editor/vellum/internal/engine/tracking"
)

// ChangeFunc is notified whenever the buffer's revision moves, including
// through undo and redo. One command may touch several ranges, so the
// Change carries only the new revision ("something changed at revision
// R"); callbacks read whatever detail they need from the engine.
// Callbacks run synchronously on the mutating goroutine, after the
// engine lock is released, so they may read engine state.
type ChangeFunc func(buffer.Change)

// Engine combines a buffer, cursor set, undo history, and snapshot store
// into the unit a front-end embeds per open buffer. All methods are safe
// for concurrent use.
type Engine struct {
	mu sync.RWMutex

	buf   *buffer.Buffer
	sels  *cursor.Set
	hist  *history.History
	snaps *tracking.Store

	readOnly bool
	onChange []ChangeFunc
}

// New creates an engine.
func New(opts ...Option) (*Engine, error) {
	cfg := config{tabWidth: 4}
	for _, opt := range opts {
		opt(&cfg)
	}

	bufOpts := []buffer.Option{buffer.WithTabWidth(cfg.tabWidth)}
	if cfg.lineEnding != nil {
		bufOpts = append(bufOpts, buffer.WithLineEnding(*cfg.lineEnding))
	}

	var buf *buffer.Buffer
	switch {
	case cfg.reader != nil:
		b, err := buffer.NewFromReader(cfg.reader, bufOpts...)
		if err != nil {
			return nil, fmt.Errorf("load content: %w", err)
		}
		buf = b
	case cfg.content != "":
		buf = buffer.NewFromString(cfg.content, bufOpts...)
	default:
		buf = buffer.New(bufOpts...)
	}

	return &Engine{
		buf:      buf,
		sels:     cursor.NewSet(),
		hist:     history.New(cfg.maxUndo),
		snaps:    tracking.NewStore(),
		readOnly: cfg.readOnly,
	}, nil
}

// OnChange registers a callback for buffer change notifications.
func (e *Engine) OnChange(fn ChangeFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = append(e.onChange, fn)
}

func (e *Engine) notify(c buffer.Change) {
	e.mu.RLock()
	fns := make([]ChangeFunc, len(e.onChange))
	copy(fns, e.onChange)
	e.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Read access

// Text returns the full buffer content.
func (e *Engine) Text() string {
	return e.buf.Text()
}

// Len returns the buffer length in bytes.
func (e *Engine) Len() buffer.ByteOffset {
	return e.buf.Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.buf.LineCount()
}

// LineText returns a line's text without its newline.
func (e *Engine) LineText(line int) string {
	return e.buf.LineText(line)
}

// TextRange returns the text in [start, end).
func (e *Engine) TextRange(start, end buffer.ByteOffset) string {
	return e.buf.TextRange(start, end)
}

// OffsetToPoint converts a byte offset to line/column.
func (e *Engine) OffsetToPoint(offset buffer.ByteOffset) buffer.Point {
	return e.buf.OffsetToPoint(offset)
}

// PointToOffset converts line/column to a byte offset.
func (e *Engine) PointToOffset(p buffer.Point) buffer.ByteOffset {
	return e.buf.PointToOffset(p)
}

// Revision returns the current buffer revision.
func (e *Engine) Revision() buffer.RevisionID {
	return e.buf.Revision()
}

// LineEnding returns the serialization line ending style.
func (e *Engine) LineEnding() buffer.LineEnding {
	return e.buf.LineEnding()
}

// SetLineEnding changes the serialization line ending style.
func (e *Engine) SetLineEnding(le buffer.LineEnding) {
	e.buf.SetLineEnding(le)
}

// TabWidth returns the configured tab width.
func (e *Engine) TabWidth() int {
	return e.buf.TabWidth()
}

// SetTabWidth changes the tab width.
func (e *Engine) SetTabWidth(width int) {
	e.buf.SetTabWidth(width)
}

// IsReadOnly reports whether the engine rejects writes.
func (e *Engine) IsReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// Buffer exposes the underlying buffer for read-side helpers like visual
// column computation. Mutations must go through the engine.
func (e *Engine) Buffer() *buffer.Buffer {
	return e.buf
}

// Cursor access

// Selections returns a copy of all selections.
func (e *Engine) Selections() []cursor.Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sels.All()
}

// PrimaryCursor returns the primary selection's head offset.
func (e *Engine) PrimaryCursor() buffer.ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sels.PrimaryOffset()
}

// SetPrimaryCursor collapses all selections to a single cursor at offset,
// snapped to a rune boundary and clamped to the buffer.
func (e *Engine) SetPrimaryCursor(offset buffer.ByteOffset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sels.Set(cursor.At(e.buf.ClampOffset(offset, true)))
}

// AddCursor adds a cursor at offset, keeping existing selections.
func (e *Engine) AddCursor(offset buffer.ByteOffset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sels.Add(cursor.At(e.buf.ClampOffset(offset, true)))
}

// Select replaces all selections with one selection.
func (e *Engine) Select(sel cursor.Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sels.Set(cursor.Selection{
		Anchor: e.buf.ClampOffset(sel.Anchor, true),
		Head:   e.buf.ClampOffset(sel.Head, true),
	})
}

// MoveCursors applies fn to every selection.
func (e *Engine) MoveCursors(fn func(cursor.Selection) cursor.Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sels.MapAll(fn)
}

// Write access

// Execute runs a history command against the buffer and cursors.
func (e *Engine) Execute(cmd history.Command) error {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}
	before := e.buf.Revision()
	err := e.hist.Execute(cmd, e.buf, e.sels)
	after := e.buf.Revision()
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.notifyIfChanged(before, after)
	return nil
}

// Insert inserts text at every cursor, replacing active selections.
func (e *Engine) Insert(text string) error {
	return e.Execute(history.NewInsert(text))
}

// DeleteBackward deletes one grapheme before every cursor, or the active
// selections.
func (e *Engine) DeleteBackward() error {
	return e.Execute(history.NewDelete(history.Backward))
}

// DeleteForward deletes one grapheme after every cursor, or the active
// selections.
func (e *Engine) DeleteForward() error {
	return e.Execute(history.NewDelete(history.Forward))
}

// Replace replaces an explicit range with text.
func (e *Engine) Replace(start, end buffer.ByteOffset, text string) error {
	return e.Execute(history.NewReplace(buffer.NewRange(start, end), text))
}

// Undo reverses the most recent command.
func (e *Engine) Undo() error {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}
	before := e.buf.Revision()
	err := e.hist.Undo(e.buf, e.sels)
	after := e.buf.Revision()
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.notifyIfChanged(before, after)
	return nil
}

// Redo re-applies the most recently undone command.
func (e *Engine) Redo() error {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}
	before := e.buf.Revision()
	err := e.hist.Redo(e.buf, e.sels)
	after := e.buf.Revision()
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.notifyIfChanged(before, after)
	return nil
}

// notifyIfChanged emits a synthetic whole-state change notification when
// the revision moved. Individual commands may touch several ranges; the
// callback contract is "something changed", carrying the latest revision.
func (e *Engine) notifyIfChanged(before, after buffer.RevisionID) {
	if after == before {
		return
	}
	e.notify(buffer.Change{Revision: after})
}

// CanUndo reports whether an undo is available.
func (e *Engine) CanUndo() bool {
	return e.hist.CanUndo()
}

// CanRedo reports whether a redo is available.
func (e *Engine) CanRedo() bool {
	return e.hist.CanRedo()
}

// BeginUndoGroup starts grouping subsequent edits into one undo unit.
func (e *Engine) BeginUndoGroup(name string) {
	e.hist.BeginGroup(name)
}

// EndUndoGroup closes the current undo group.
func (e *Engine) EndUndoGroup() {
	e.hist.EndGroup()
}

// History exposes undo introspection.
func (e *Engine) History() *history.History {
	return e.hist
}

// Snapshots

// Snapshot returns an immutable view of the current buffer state.
func (e *Engine) Snapshot() *buffer.Snapshot {
	return e.buf.Snapshot()
}

// CreateSnapshot registers the current state under label.
func (e *Engine) CreateSnapshot(label string) {
	e.snaps.Save(label, e.buf.Snapshot())
}

// GetSnapshotText returns the text of a named snapshot.
func (e *Engine) GetSnapshotText(label string) (string, error) {
	snap, err := e.snaps.Get(label)
	if err != nil {
		return "", err
	}
	return snap.Text(), nil
}

// DropSnapshot removes a named snapshot.
func (e *Engine) DropSnapshot(label string) {
	e.snaps.Drop(label)
}

// DiffSinceSnapshot returns the line diff from a named snapshot to now.
func (e *Engine) DiffSinceSnapshot(label string) ([]tracking.Op, error) {
	return e.snaps.DiffSince(label, e.buf.Snapshot())
}

// StatsSinceSnapshot returns added/removed line counts since a named
// snapshot.
func (e *Engine) StatsSinceSnapshot(label string) (tracking.Stats, error) {
	return e.snaps.StatsSince(label, e.buf.Snapshot())
}
