// Package tracking provides named buffer snapshots and line-level diffs
// between them, used to answer "what changed since" questions without
// replaying the undo history.
package tracking

import "strings"

// OpKind classifies one run of lines in a diff.
type OpKind uint8

const (
	OpEqual OpKind = iota
	OpDelete
	OpInsert
)

// String returns the op kind's display name.
func (k OpKind) String() string {
	switch k {
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return "equal"
	}
}

// Op is a run of consecutive lines sharing one diff classification.
type Op struct {
	Kind  OpKind
	Lines []string
}

// Stats summarizes a diff.
type Stats struct {
	LinesAdded   int
	LinesRemoved int
}

// IsZero reports whether the diff contained no changes.
func (s Stats) IsZero() bool {
	return s.LinesAdded == 0 && s.LinesRemoved == 0
}

// DiffLines computes a line-based diff from old to new text. Common prefix
// and suffix lines are trimmed first; the middle is aligned with a longest
// common subsequence, so moved blocks report as delete plus insert.
func DiffLines(oldText, newText string) []Op {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)

	// Trim common prefix.
	prefix := 0
	for prefix < len(oldLines) && prefix < len(newLines) && oldLines[prefix] == newLines[prefix] {
		prefix++
	}
	// Trim common suffix.
	suffix := 0
	for suffix < len(oldLines)-prefix && suffix < len(newLines)-prefix &&
		oldLines[len(oldLines)-1-suffix] == newLines[len(newLines)-1-suffix] {
		suffix++
	}

	var ops []Op
	if prefix > 0 {
		ops = append(ops, Op{Kind: OpEqual, Lines: oldLines[:prefix]})
	}
	ops = append(ops, lcsDiff(
		oldLines[prefix:len(oldLines)-suffix],
		newLines[prefix:len(newLines)-suffix],
	)...)
	if suffix > 0 {
		ops = append(ops, Op{Kind: OpEqual, Lines: oldLines[len(oldLines)-suffix:]})
	}
	return ops
}

// DiffStats computes just the added/removed line counts.
func DiffStats(oldText, newText string) Stats {
	var s Stats
	for _, op := range DiffLines(oldText, newText) {
		switch op.Kind {
		case OpInsert:
			s.LinesAdded += len(op.Lines)
		case OpDelete:
			s.LinesRemoved += len(op.Lines)
		}
	}
	return s
}

// lcsMaxCells bounds the DP table. Beyond it the middle is reported as a
// whole-block replacement, which keeps worst-case cost linear.
const lcsMaxCells = 4 << 20

func lcsDiff(oldLines, newLines []string) []Op {
	switch {
	case len(oldLines) == 0 && len(newLines) == 0:
		return nil
	case len(oldLines) == 0:
		return []Op{{Kind: OpInsert, Lines: newLines}}
	case len(newLines) == 0:
		return []Op{{Kind: OpDelete, Lines: oldLines}}
	}

	if len(oldLines)*len(newLines) > lcsMaxCells {
		return []Op{
			{Kind: OpDelete, Lines: oldLines},
			{Kind: OpInsert, Lines: newLines},
		}
	}

	// Classic LCS table, then walk back emitting runs.
	n, m := len(oldLines), len(newLines)
	table := make([]int, (n+1)*(m+1))
	idx := func(i, j int) int { return i*(m+1) + j }
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				table[idx(i, j)] = table[idx(i+1, j+1)] + 1
			} else if table[idx(i+1, j)] >= table[idx(i, j+1)] {
				table[idx(i, j)] = table[idx(i+1, j)]
			} else {
				table[idx(i, j)] = table[idx(i, j+1)]
			}
		}
	}

	var ops []Op
	emit := func(kind OpKind, line string) {
		if len(ops) > 0 && ops[len(ops)-1].Kind == kind {
			ops[len(ops)-1].Lines = append(ops[len(ops)-1].Lines, line)
			return
		}
		ops = append(ops, Op{Kind: kind, Lines: []string{line}})
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case oldLines[i] == newLines[j]:
			emit(OpEqual, oldLines[i])
			i++
			j++
		case table[idx(i+1, j)] >= table[idx(i, j+1)]:
			emit(OpDelete, oldLines[i])
			i++
		default:
			emit(OpInsert, newLines[j])
			j++
		}
	}
	for ; i < n; i++ {
		emit(OpDelete, oldLines[i])
	}
	for ; j < m; j++ {
		emit(OpInsert, newLines[j])
	}
	return ops
}

// splitLines splits text into lines without their newlines. Empty text has
// one empty line, matching buffer line counting.
func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
