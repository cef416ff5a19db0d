package history

import (
	"errors"
	"sync"
	"time"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
)

// Errors returned by history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when no limit is configured.
const DefaultMaxEntries = 1000

// entry wraps a command with its execution time.
type entry struct {
	command Command
	when    time.Time
}

// Info describes one undoable or redoable operation.
type Info struct {
	Description string
	Timestamp   time.Time
}

// History manages undo/redo state for one buffer.
type History struct {
	mu sync.Mutex

	undo []*entry
	redo []*entry

	grouping  bool
	groupName string
	groupCmds []Command

	maxEntries int
}

// New creates a history with the given undo depth limit. Non-positive
// limits fall back to DefaultMaxEntries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Execute runs a command and records it for undo.
func (h *History) Execute(cmd Command, buf *buffer.Buffer, sels *cursor.Set) error {
	if err := cmd.Execute(buf, sels); err != nil {
		return err
	}
	h.Push(cmd)
	return nil
}

// Push records an already executed command. Inside a group the command is
// collected into the pending compound instead.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupCmds = append(h.groupCmds, cmd)
		return
	}
	h.pushLocked(cmd)
}

func (h *History) pushLocked(cmd Command) {
	h.undo = append(h.undo, &entry{command: cmd, when: time.Now()})
	h.redo = nil

	if len(h.undo) > h.maxEntries {
		h.undo = h.undo[len(h.undo)-h.maxEntries:]
	}
}

// Undo reverses the most recent command. The lock is not held during
// command execution so long-running buffer work does not block readers.
func (h *History) Undo(buf *buffer.Buffer, sels *cursor.Set) error {
	h.mu.Lock()
	if len(h.undo) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.mu.Unlock()

	if err := e.command.Undo(buf, sels); err != nil {
		h.mu.Lock()
		h.undo = append(h.undo, e)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.redo = append(h.redo, e)
	h.mu.Unlock()
	return nil
}

// Redo re-executes the most recently undone command.
func (h *History) Redo(buf *buffer.Buffer, sels *cursor.Set) error {
	h.mu.Lock()
	if len(h.redo) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.mu.Unlock()

	if err := e.command.Execute(buf, sels); err != nil {
		h.mu.Lock()
		h.redo = append(h.redo, e)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.undo = append(h.undo, e)
	h.mu.Unlock()
	return nil
}

// CanUndo reports whether an undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// UndoCount returns the undo stack depth.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// RedoCount returns the redo stack depth.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// BeginGroup starts collecting commands into one undo unit. Nested calls
// are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupCmds = nil
}

// EndGroup closes the current group and pushes it as a single compound
// command. An empty group pushes nothing.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false

	if len(h.groupCmds) == 0 {
		return
	}
	h.pushLocked(&CompoundCommand{Name: h.groupName, Commands: h.groupCmds})
	h.groupCmds = nil
}

// CancelGroup abandons the current group. Commands already executed keep
// their buffer effects but become un-undoable.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.grouping = false
	h.groupCmds = nil
}

// IsGrouping reports whether a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Clear drops all undo and redo state.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
	h.grouping = false
	h.groupCmds = nil
}

// PeekUndo describes the next undo operation without performing it.
func (h *History) PeekUndo() (Info, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) == 0 {
		return Info{}, false
	}
	e := h.undo[len(h.undo)-1]
	return Info{Description: e.command.Description(), Timestamp: e.when}, true
}

// PeekRedo describes the next redo operation without performing it.
func (h *History) PeekRedo() (Info, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return Info{}, false
	}
	e := h.redo[len(h.redo)-1]
	return Info{Description: e.command.Description(), Timestamp: e.when}, true
}
