package engine

import (
	"errors"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/history"
	"github.com/vellum-editor/vellum/internal/engine/tracking"
)

// ErrReadOnly is returned by write operations on a read-only engine.
var ErrReadOnly = errors.New("engine is read-only")

// Re-exported sub-package errors so callers can match without importing
// the internals.
var (
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange
	ErrRangeInvalid     = buffer.ErrRangeInvalid
	ErrEditsOverlap     = buffer.ErrEditsOverlap
	ErrNothingToUndo    = history.ErrNothingToUndo
	ErrNothingToRedo    = history.ErrNothingToRedo
	ErrSnapshotNotFound = tracking.ErrSnapshotNotFound
)
