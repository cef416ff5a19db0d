// Package engine provides the core text editing engine for vellum.
//
// The engine is the unit a front-end embeds per open buffer: it combines
// text storage, cursors, undo/redo, and snapshot tracking behind one
// thread-safe API, with no knowledge of rendering or input devices.
//
// It is built from several sub-packages:
//
//   - rope: immutable weight-balanced rope for O(log n) text operations
//   - buffer: editor semantics over the rope (line endings, positions,
//     validated edits, revisions, snapshots)
//   - cursor: selections, multi-cursor sets, grapheme-aware motion
//   - history: command-based undo/redo with grouping
//   - tracking: named snapshots and line-level diffs
//
// # Basic usage
//
//	e, _ := engine.New(engine.WithContent("Hello, World!"))
//	e.SetPrimaryCursor(13)
//	e.Insert(" Again.")
//	e.Undo()
//
// # Multiple cursors
//
//	e, _ := engine.New(engine.WithContent("foo bar foo"))
//	e.SetPrimaryCursor(0)
//	e.AddCursor(8)
//	e.Insert("X") // "Xfoo bar Xfoo"
//
// # Undo grouping
//
//	e.BeginUndoGroup("reformat")
//	e.Replace(0, 3, "fn")
//	e.Insert(" main()")
//	e.EndUndoGroup()
//	e.Undo() // reverts both edits
//
// # Snapshots
//
//	e.CreateSnapshot("before")
//	// ... edits ...
//	stats, _ := e.StatsSinceSnapshot("before")
package engine
