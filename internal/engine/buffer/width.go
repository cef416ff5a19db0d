package buffer

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// VisualColumn returns the on-screen column of a point, expanding tabs to
// the buffer's tab width and using display widths for everything else.
// Wide CJK runes count as two cells. This keeps byte offsets canonical
// while still answering "where does the cursor render".
func (b *Buffer) VisualColumn(p Point) int {
	b.mu.RLock()
	line := b.rope.LineText(p.Line)
	tabWidth := b.tabWidth
	b.mu.RUnlock()

	return visualColumn(line, p.Column, tabWidth)
}

// PointForVisualColumn returns the point on the given line whose visual
// column is closest to, without exceeding, the target column. Used to keep
// the cursor's horizontal position stable across vertical movement.
func (b *Buffer) PointForVisualColumn(line, target int) Point {
	b.mu.RLock()
	text := b.rope.LineText(line)
	tabWidth := b.tabWidth
	b.mu.RUnlock()

	col := 0
	byteCol := 0
	for _, r := range text {
		w := runeVisualWidth(r, col, tabWidth)
		if col+w > target {
			break
		}
		col += w
		byteCol += utf8.RuneLen(r)
	}
	return Point{Line: line, Column: byteCol}
}

func visualColumn(line string, byteColumn, tabWidth int) int {
	if byteColumn > len(line) {
		byteColumn = len(line)
	}
	col := 0
	for _, r := range line[:byteColumn] {
		col += runeVisualWidth(r, col, tabWidth)
	}
	return col
}

func runeVisualWidth(r rune, col, tabWidth int) int {
	if r == '\t' {
		return tabWidth - col%tabWidth
	}
	return runewidth.RuneWidth(r)
}
