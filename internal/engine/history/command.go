// Package history implements command-based undo/redo. Every edit is a
// Command that records enough state on Execute to reverse itself; History
// keeps the undo and redo stacks and supports grouping commands into a
// single undo unit.
package history

import (
	"fmt"
	"unicode/utf8"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
)

// Command is a composable edit action that can be executed and undone.
type Command interface {
	// Execute performs the command against the buffer and cursor set.
	Execute(buf *buffer.Buffer, sels *cursor.Set) error

	// Undo reverses a previously executed command.
	Undo(buf *buffer.Buffer, sels *cursor.Set) error

	// Description returns a short human-readable label for the command.
	Description() string
}

// record is the per-selection state a command captures during Execute.
type record struct {
	change buffer.Change
	before cursor.Selection
}

// applyAtSelections replaces every selection's range with text, processing
// selections in reverse offset order so earlier ranges stay valid. It
// returns the records needed for undo and leaves a collapsed cursor at the
// end of each replacement.
func applyAtSelections(buf *buffer.Buffer, sels *cursor.Set, text string) ([]record, error) {
	all := sels.All()
	records := make([]record, 0, len(all))

	for i := len(all) - 1; i >= 0; i-- {
		sel := all[i]
		r := sel.Range()
		change, err := buf.Replace(r.Start, r.End, text)
		if err != nil {
			return nil, fmt.Errorf("edit at %s: %w", r, err)
		}
		records = append(records, record{change: change, before: sel})
	}

	// Rebuild cursors in ascending order, accounting for the length delta
	// of all edits before each one.
	after := make([]cursor.Selection, len(all))
	var delta buffer.ByteOffset
	for i, sel := range all {
		r := sel.Range()
		end := r.Start + delta + buffer.ByteOffset(len(text))
		after[i] = cursor.At(end)
		delta += buffer.ByteOffset(len(text)) - r.Len()
	}
	sels.SetAll(after)

	return records, nil
}

// undoRecords reverses records (which are stored highest-offset first) and
// restores the pre-command selections.
func undoRecords(buf *buffer.Buffer, sels *cursor.Set, records []record) error {
	// Records were captured in reverse offset order; undoing them in that
	// same order visits the highest offsets last, so each inverse range is
	// valid at application time.
	for i := len(records) - 1; i >= 0; i-- {
		inv := records[i].change.Invert()
		if _, err := buf.ApplyEdit(inv.ToEdit()); err != nil {
			return fmt.Errorf("undo edit at %s: %w", inv.Range, err)
		}
	}

	restored := make([]cursor.Selection, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		restored = append(restored, records[i].before)
	}
	sels.SetAll(restored)
	return nil
}

// InsertCommand inserts text at every cursor, replacing active selections.
type InsertCommand struct {
	Text    string
	records []record
}

// NewInsert creates an insert command.
func NewInsert(text string) *InsertCommand {
	return &InsertCommand{Text: text}
}

// Execute inserts the text at all selections.
func (c *InsertCommand) Execute(buf *buffer.Buffer, sels *cursor.Set) error {
	if c.Text == "" {
		return nil
	}
	records, err := applyAtSelections(buf, sels, c.Text)
	if err != nil {
		return err
	}
	c.records = records
	return nil
}

// Undo removes the inserted text and restores the prior selections.
func (c *InsertCommand) Undo(buf *buffer.Buffer, sels *cursor.Set) error {
	return undoRecords(buf, sels, c.records)
}

// Description returns a label for the command.
func (c *InsertCommand) Description() string {
	switch c.Text {
	case "\n":
		return "insert newline"
	case "\t":
		return "insert tab"
	}
	if n := utf8.RuneCountInString(c.Text); n > 20 {
		return fmt.Sprintf("insert %d characters", n)
	}
	return fmt.Sprintf("insert %q", c.Text)
}

// Direction selects which side of the cursor DeleteCommand removes.
type Direction int

const (
	// Backward deletes before the cursor, like Backspace.
	Backward Direction = iota
	// Forward deletes after the cursor, like Delete.
	Forward
)

// DeleteCommand deletes one grapheme cluster per cursor in the given
// direction, or the selection contents where a selection is active.
type DeleteCommand struct {
	Dir     Direction
	records []record
	before  []cursor.Selection
}

// NewDelete creates a delete command.
func NewDelete(dir Direction) *DeleteCommand {
	return &DeleteCommand{Dir: dir}
}

// Execute performs the deletion at all selections.
func (c *DeleteCommand) Execute(buf *buffer.Buffer, sels *cursor.Set) error {
	all := sels.All()
	records := make([]record, 0, len(all))
	// ranges[i] is what all[i] deletes; empty at a buffer edge where the
	// deletion is a no-op. No-op cursors still survive the rebuild below.
	ranges := make([]buffer.Range, len(all))

	for i := len(all) - 1; i >= 0; i-- {
		sel := all[i]
		r := sel.Range()
		if r.IsEmpty() {
			if c.Dir == Backward {
				r.Start = cursor.PrevBoundary(buf, r.End)
			} else {
				r.End = cursor.NextBoundary(buf, r.Start)
			}
		}
		ranges[i] = r
		if r.IsEmpty() {
			continue // nothing to delete at a buffer edge
		}
		change, err := buf.Delete(r.Start, r.End)
		if err != nil {
			return fmt.Errorf("delete %s: %w", r, err)
		}
		records = append(records, record{change: change, before: sel})
	}
	c.records = records
	if len(records) == 0 {
		return nil
	}
	c.before = all

	// Rebuild every cursor, no-op ones included, collapsed at its range
	// start and shifted left by the total bytes removed before it.
	after := make([]cursor.Selection, len(all))
	var delta buffer.ByteOffset
	for i, r := range ranges {
		after[i] = cursor.At(r.Start - delta)
		delta += r.Len()
	}
	sels.SetAll(after)

	return nil
}

// Undo restores the deleted text and prior selections.
func (c *DeleteCommand) Undo(buf *buffer.Buffer, sels *cursor.Set) error {
	if err := undoRecords(buf, sels, c.records); err != nil {
		return err
	}
	// undoRecords only knows the recorded selections; put back the whole
	// set so cursors whose deletion was a no-op reappear too.
	if len(c.before) > 0 {
		sels.SetAll(c.before)
	}
	return nil
}

// Description returns a label for the command.
func (c *DeleteCommand) Description() string {
	if c.Dir == Backward {
		return "delete backward"
	}
	return "delete forward"
}

// ReplaceCommand replaces an explicit range with new text, independent of
// the cursor set. The cursor collapses to the end of the replacement.
type ReplaceCommand struct {
	Range   buffer.Range
	Text    string
	records []record
}

// NewReplace creates a replace command for an explicit range.
func NewReplace(r buffer.Range, text string) *ReplaceCommand {
	return &ReplaceCommand{Range: r, Text: text}
}

// Execute performs the replacement.
func (c *ReplaceCommand) Execute(buf *buffer.Buffer, sels *cursor.Set) error {
	before := sels.Primary()
	change, err := buf.Replace(c.Range.Start, c.Range.End, c.Text)
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.Range, err)
	}
	c.records = []record{{change: change, before: before}}
	sels.Set(cursor.At(change.NewRange.End))
	return nil
}

// Undo restores the replaced text.
func (c *ReplaceCommand) Undo(buf *buffer.Buffer, sels *cursor.Set) error {
	return undoRecords(buf, sels, c.records)
}

// Description returns a label for the command.
func (c *ReplaceCommand) Description() string {
	return fmt.Sprintf("replace %s", c.Range)
}

// CompoundCommand groups commands into a single undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// Execute runs all grouped commands in order.
func (c *CompoundCommand) Execute(buf *buffer.Buffer, sels *cursor.Set) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(buf, sels); err != nil {
			// Roll back the commands that already ran.
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(buf, sels)
			}
			return err
		}
	}
	return nil
}

// Undo reverses all grouped commands in reverse order.
func (c *CompoundCommand) Undo(buf *buffer.Buffer, sels *cursor.Set) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(buf, sels); err != nil {
			return err
		}
	}
	return nil
}

// Description returns the group label.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%d edits", len(c.Commands))
}
