package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/session"
)

// driver is the line-mode command loop. It owns a current-line address
// the way ed does, and reports failures through the session's message
// log.
type driver struct {
	sess *session.Session
	scan *bufio.Scanner
	out  io.Writer
	line int // current line, zero-based
}

func newDriver(sess *session.Session, in io.Reader, out io.Writer) *driver {
	return &driver{
		sess: sess,
		scan: bufio.NewScanner(in),
		out:  out,
	}
}

// loop reads commands until quit or EOF.
func (d *driver) loop() error {
	for d.scan.Scan() {
		if d.execute(strings.TrimSpace(d.scan.Text())) {
			return nil
		}
	}
	return d.scan.Err()
}

// execute runs one command, returning true to quit.
func (d *driver) execute(cmd string) bool {
	switch {
	case cmd == "":
	case cmd == "p":
		d.printAll()
	case cmd == "a":
		d.insertLines(false)
	case cmd == "i":
		d.insertLines(true)
	case cmd == "d":
		d.deleteLine()
	case cmd == "u":
		d.sess.Apply(session.Do(session.ActionUndo))
		d.syncLine()
	case cmd == "r":
		d.sess.Apply(session.Do(session.ActionRedo))
		d.syncLine()
	case cmd == "q":
		if d.sess.Dirty() {
			fmt.Fprintln(d.out, "unsaved changes (q! to discard)")
			break
		}
		return true
	case cmd == "q!":
		return true
	case cmd == "w" || strings.HasPrefix(cmd, "w "):
		path := strings.TrimSpace(strings.TrimPrefix(cmd, "w"))
		if err := d.sess.SaveFile(path); err != nil {
			fmt.Fprintln(d.out, err)
		}
	case strings.HasPrefix(cmd, "e "):
		path := strings.TrimSpace(strings.TrimPrefix(cmd, "e"))
		if err := d.sess.OpenFile(path); err != nil {
			fmt.Fprintln(d.out, err)
			break
		}
		d.line = 0
	default:
		if n, err := strconv.Atoi(cmd); err == nil {
			d.gotoLine(n)
			break
		}
		fmt.Fprintln(d.out, "?")
	}
	d.flushMessage()
	return false
}

func (d *driver) printAll() {
	eng := d.sess.Engine()
	n := eng.LineCount()
	// A trailing newline produces a phantom empty last line; don't show it.
	if n > 1 && eng.LineText(n-1) == "" {
		n--
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(d.out, "%d\t%s\n", i+1, eng.LineText(i))
	}
}

// gotoLine addresses a one-based line and echoes it, ed style.
func (d *driver) gotoLine(n int) {
	eng := d.sess.Engine()
	if n < 1 || n > eng.LineCount() {
		fmt.Fprintln(d.out, "?")
		return
	}
	d.line = n - 1
	fmt.Fprintln(d.out, eng.LineText(d.line))
}

// insertLines reads input lines until a lone "." and inserts them before
// the current line, or after it for append.
func (d *driver) insertLines(before bool) {
	lines := d.collect()
	if len(lines) == 0 {
		return
	}
	eng := d.sess.Engine()
	joined := strings.Join(lines, "\n")

	var off buffer.ByteOffset
	var text string
	switch {
	case before:
		off = eng.PointToOffset(buffer.Point{Line: d.line})
		text = joined + "\n"
	case d.line+1 < eng.LineCount():
		off = eng.PointToOffset(buffer.Point{Line: d.line + 1})
		text = joined + "\n"
	case eng.Len() > 0 && eng.TextRange(eng.Len()-1, eng.Len()) != "\n":
		// Appending past a final line with no trailing newline.
		off = eng.Len()
		text = "\n" + joined
	default:
		off = eng.Len()
		text = joined + "\n"
	}

	eng.SetPrimaryCursor(off)
	if err := eng.Insert(text); err != nil {
		fmt.Fprintln(d.out, err)
		return
	}
	d.line = eng.OffsetToPoint(off + buffer.ByteOffset(len(text)) - 1).Line
}

func (d *driver) collect() []string {
	var lines []string
	for d.scan.Scan() {
		line := d.scan.Text()
		if line == "." {
			break
		}
		lines = append(lines, line)
	}
	return lines
}

func (d *driver) deleteLine() {
	eng := d.sess.Engine()
	start := eng.PointToOffset(buffer.Point{Line: d.line})
	var end buffer.ByteOffset
	if d.line+1 < eng.LineCount() {
		end = eng.PointToOffset(buffer.Point{Line: d.line + 1})
	} else {
		end = eng.Len()
		if start > 0 {
			start-- // take the preceding newline with the last line
		}
	}
	if start == end {
		return
	}
	if err := eng.Replace(start, end, ""); err != nil {
		fmt.Fprintln(d.out, err)
		return
	}
	d.clampLine()
}

// syncLine re-derives the current line from the cursor, for undo and
// redo which move it.
func (d *driver) syncLine() {
	eng := d.sess.Engine()
	d.line = eng.OffsetToPoint(eng.PrimaryCursor()).Line
}

func (d *driver) clampLine() {
	if last := d.sess.Engine().LineCount() - 1; d.line > last {
		d.line = last
	}
	if d.line < 0 {
		d.line = 0
	}
}

// flushMessage echoes and acknowledges the newest session message.
func (d *driver) flushMessage() {
	if msg, ok := d.sess.LatestMessage(); ok {
		fmt.Fprintln(d.out, msg)
		d.sess.Apply(session.Do(session.ActionClearMessage))
	}
}
