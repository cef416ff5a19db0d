// Package session implements the editing state machine that sits between
// an input front-end and the engine: prompt handling for open/save, the
// message log, file IO, and event publication.
package session

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/vellum-editor/vellum/internal/engine"
	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/engine/cursor"
	"github.com/vellum-editor/vellum/internal/event"
	"github.com/vellum-editor/vellum/internal/event/events"
)

// ErrNoFileSpecified is returned when a save or open commits without a
// file name.
var ErrNoFileSpecified = errors.New("no file specified")

// Destination routes typed input: to the buffer, or to a pending
// file-name prompt.
type Destination int

const (
	DestEdit Destination = iota
	DestPromptOpen
	DestPromptSave
)

func (d Destination) String() string {
	switch d {
	case DestPromptOpen:
		return "prompt-open"
	case DestPromptSave:
		return "prompt-save"
	default:
		return "edit"
	}
}

// Session owns one engine plus the surrounding editing state: the current
// file name, the input destination, the message log, and the dirty flag.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	eng     *engine.Engine
	engOpts []engine.Option

	bus     *event.Bus
	restore *Restore

	fileName string
	dest     Destination
	prompt   string

	messages       []string
	messageVisible bool

	dirty atomic.Bool
	done  bool
}

// Option configures a Session at creation time.
type Option func(*Session)

// WithBus publishes session and buffer events on bus.
func WithBus(bus *event.Bus) Option {
	return func(s *Session) { s.bus = bus }
}

// WithRestore records opened and saved files in r and restores the last
// cursor position when a file is reopened.
func WithRestore(r *Restore) Option {
	return func(s *Session) { s.restore = r }
}

// WithEngineOptions passes opts to every engine the session creates,
// including the replacements built by Open and NewFile.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Session) { s.engOpts = opts }
}

// New creates a session with an empty buffer.
func New(opts ...Option) (*Session, error) {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.resetEngine(); err != nil {
		return nil, err
	}
	return s, nil
}

// resetEngine replaces the engine, wiring its change callback. extra
// options are applied after the session-wide ones.
func (s *Session) resetEngine(extra ...engine.Option) error {
	opts := make([]engine.Option, 0, len(s.engOpts)+len(extra))
	opts = append(opts, s.engOpts...)
	opts = append(opts, extra...)

	eng, err := engine.New(opts...)
	if err != nil {
		return err
	}
	eng.OnChange(func(c buffer.Change) {
		s.dirty.Store(true)
		s.publish(event.TopicBufferChanged, events.BufferChanged{
			Revision:  c.Revision,
			LineCount: eng.LineCount(),
			Len:       eng.Len(),
		})
	})
	s.eng = eng
	return nil
}

// Apply feeds one input to the state machine. Errors surface as messages,
// never as returns; front-ends poll LatestMessage.
func (s *Session) Apply(in Input) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.eng.PrimaryCursor()
	if s.dest == DestEdit {
		s.applyEdit(in)
	} else {
		s.applyPrompt(in)
	}
	if after := s.eng.PrimaryCursor(); after != before {
		s.publish(event.TopicCursorMoved, events.CursorMoved{
			Offset: after,
			Point:  s.eng.OffsetToPoint(after),
		})
	}
}

func (s *Session) applyEdit(in Input) {
	switch in.Action {
	case ActionInsertRune:
		s.reportErr(s.eng.Insert(string(in.Rune)))
	case ActionInsertNewline:
		s.reportErr(s.eng.Insert("\n"))
	case ActionBackspace:
		s.reportErr(s.eng.DeleteBackward())
	case ActionDelete:
		s.reportErr(s.eng.DeleteForward())
	case ActionMoveLeft:
		s.eng.SetPrimaryCursor(cursor.PrevBoundary(s.eng.Buffer(), s.eng.PrimaryCursor()))
	case ActionMoveRight:
		s.eng.SetPrimaryCursor(cursor.NextBoundary(s.eng.Buffer(), s.eng.PrimaryCursor()))
	case ActionMoveUp:
		s.moveVertical(-1)
	case ActionMoveDown:
		s.moveVertical(1)
	case ActionMoveLineStart:
		p := s.eng.OffsetToPoint(s.eng.PrimaryCursor())
		s.eng.SetPrimaryCursor(s.eng.PointToOffset(buffer.Point{Line: p.Line}))
	case ActionMoveLineEnd:
		p := s.eng.OffsetToPoint(s.eng.PrimaryCursor())
		start := s.eng.PointToOffset(buffer.Point{Line: p.Line})
		s.eng.SetPrimaryCursor(start + buffer.ByteOffset(len(s.eng.LineText(p.Line))))
	case ActionUndo:
		if err := s.eng.Undo(); errors.Is(err, engine.ErrNothingToUndo) {
			s.addMessage("nothing to undo")
		} else {
			s.reportErr(err)
		}
	case ActionRedo:
		if err := s.eng.Redo(); errors.Is(err, engine.ErrNothingToRedo) {
			s.addMessage("nothing to redo")
		} else {
			s.reportErr(err)
		}
	case ActionSave:
		if s.fileName == "" {
			s.setDestination(DestPromptSave)
			return
		}
		s.reportErr(s.saveTo(s.fileName))
	case ActionOpen:
		s.setDestination(DestPromptOpen)
	case ActionNewFile:
		s.reportErr(s.newFile())
	case ActionCancel:
		s.done = true
	case ActionClearMessage:
		s.messageVisible = false
	}
}

func (s *Session) applyPrompt(in Input) {
	switch in.Action {
	case ActionInsertRune:
		s.prompt += string(in.Rune)
	case ActionBackspace:
		if s.prompt != "" {
			_, size := utf8.DecodeLastRuneInString(s.prompt)
			s.prompt = s.prompt[:len(s.prompt)-size]
		}
	case ActionInsertNewline:
		s.commitPrompt()
	case ActionCancel:
		s.prompt = ""
		s.setDestination(DestEdit)
	case ActionClearMessage:
		s.messageVisible = false
	}
}

// commitPrompt runs the pending open or save. The destination always
// returns to edit, and the previous message is cleared before any new
// error is recorded.
func (s *Session) commitPrompt() {
	name := s.prompt
	dest := s.dest
	s.prompt = ""
	s.setDestination(DestEdit)
	s.messageVisible = false

	var err error
	switch {
	case name == "":
		err = ErrNoFileSpecified
	case dest == DestPromptSave:
		err = s.saveTo(name)
	case dest == DestPromptOpen:
		err = s.open(name)
	}
	s.reportErr(err)
}

func (s *Session) moveVertical(delta int) {
	buf := s.eng.Buffer()
	p := s.eng.OffsetToPoint(s.eng.PrimaryCursor())
	line := p.Line + delta
	if line < 0 || line >= s.eng.LineCount() {
		return
	}
	col := buf.VisualColumn(p)
	s.eng.SetPrimaryCursor(s.eng.PointToOffset(buf.PointForVisualColumn(line, col)))
}

func (s *Session) saveTo(path string) error {
	data := []byte(s.eng.Buffer().Serialize())
	if err := WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	s.fileName = path
	s.dirty.Store(false)
	s.touchRestore(path)
	s.publish(event.TopicFileSaved, events.FileSaved{Path: path, Bytes: int64(len(data))})
	return nil
}

func (s *Session) open(path string) error {
	text, err := ReadFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if err := s.resetEngine(engine.WithContent(text)); err != nil {
		return err
	}
	s.fileName = path
	s.dirty.Store(false)
	if s.restore != nil {
		if off, ok := s.restore.CursorFor(path); ok {
			s.eng.SetPrimaryCursor(off)
		}
	}
	s.touchRestore(path)
	s.publish(event.TopicFileOpened, events.FileOpened{
		Path:      path,
		LineCount: s.eng.LineCount(),
	})
	return nil
}

func (s *Session) newFile() error {
	if err := s.resetEngine(); err != nil {
		return err
	}
	s.fileName = ""
	s.dirty.Store(false)
	s.publish(event.TopicBufferChanged, events.BufferChanged{
		Revision:  s.eng.Revision(),
		LineCount: s.eng.LineCount(),
		Len:       s.eng.Len(),
	})
	return nil
}

func (s *Session) touchRestore(path string) {
	if s.restore == nil {
		return
	}
	s.restore.Touch(path, s.eng.PrimaryCursor())
	if err := s.restore.Save(); err != nil {
		s.addMessage(fmt.Sprintf("session state not saved: %v", err))
	}
}

func (s *Session) setDestination(d Destination) {
	if s.dest == d {
		return
	}
	s.dest = d
	s.publish(event.TopicSessionMode, events.ModeChanged{Mode: d.String()})
}

func (s *Session) reportErr(err error) {
	if err != nil {
		s.addMessage(err.Error())
	}
}

func (s *Session) addMessage(text string) {
	s.messages = append(s.messages, text)
	s.messageVisible = true
	s.publish(event.TopicSessionMessage, events.SessionMessage{Text: text})
}

func (s *Session) publish(topic event.Topic, payload any) {
	if s.bus != nil {
		_ = s.bus.Publish(topic, payload)
	}
}

// OpenFile loads path into a fresh engine, replacing the current buffer
// and history.
func (s *Session) OpenFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open(path)
}

// SaveFile writes the buffer to path, or to the current file name when
// path is empty.
func (s *Session) SaveFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path == "" {
		path = s.fileName
	}
	if path == "" {
		return ErrNoFileSpecified
	}
	return s.saveTo(path)
}

// NewFile discards the buffer, history, and file association.
func (s *Session) NewFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newFile()
}

// Engine returns the live engine. It is replaced by OpenFile and NewFile;
// callers should not retain it across those.
func (s *Session) Engine() *engine.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng
}

// FileName returns the associated file path, empty for a scratch buffer.
func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// Destination returns where typed input currently goes.
func (s *Session) Destination() Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dest
}

// Prompt returns the pending file-name prompt text.
func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

// Dirty reports whether the buffer changed since the last save, open, or
// new file.
func (s *Session) Dirty() bool {
	return s.dirty.Load()
}

// Done reports whether a cancel in edit mode requested exit.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// LatestMessage returns the newest message if one is visible.
func (s *Session) LatestMessage() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.messageVisible || len(s.messages) == 0 {
		return "", false
	}
	return s.messages[len(s.messages)-1], true
}

// Messages returns the full message log.
func (s *Session) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}
