// Package events defines the payload types published by the editing core.
// They are plain data; consumers must not retain references into live
// engine state beyond the snapshot values carried here.
package events

import "github.com/vellum-editor/vellum/internal/engine/buffer"

// BufferChanged is published after any buffer mutation, including undo
// and redo.
type BufferChanged struct {
	Revision  buffer.RevisionID
	LineCount int
	Len       buffer.ByteOffset
}

// CursorMoved is published when the primary cursor position changes.
type CursorMoved struct {
	Offset buffer.ByteOffset
	Point  buffer.Point
}

// FileOpened is published after a file is loaded into the session.
type FileOpened struct {
	Path      string
	LineCount int
}

// FileSaved is published after a successful save.
type FileSaved struct {
	Path  string
	Bytes int64
}

// SessionMessage is published when the session records a user-visible
// message, such as an error from a failed open.
type SessionMessage struct {
	Text string
}

// ModeChanged is published when the session's input destination changes,
// for example entering the save-as prompt.
type ModeChanged struct {
	Mode string
}
