// Package session owns a terminal's input mode and its input stream.
//
// A Session moves the terminal between cooked, raw and raw-with-mouse
// modes, remembering the original state so Restore can put it back exactly.
// While raw, Events issues a single Reader that pumps decoded input events
// from the terminal. Close interrupts any blocked read and always restores
// the terminal.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/vito/ttykit/pkg/input"
	"github.com/vito/ttykit/pkg/seq"
)

// ShutdownTimeout bounds how long Close and Restore wait for the input pump
// to exit after its read has been cancelled.
const ShutdownTimeout = 500 * time.Millisecond

// Mode is the terminal input mode.
type Mode int

const (
	ModeCooked Mode = iota
	ModeRaw
	ModeRawMouse
)

func (m Mode) String() string {
	switch m {
	case ModeCooked:
		return "cooked"
	case ModeRaw:
		return "raw"
	case ModeRawMouse:
		return "raw+mouse"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Option configures a Session.
type Option func(*Session)

// WithEscapeTimeout sets how long a lone ESC is held before it is reported
// as the Escape key.
func WithEscapeTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.escapeTimeout = d
	}
}

// WithMouseMode selects which mouse activity RawMouse reports.
func WithMouseMode(m seq.MouseMode) Option {
	return func(s *Session) {
		s.mouseMode = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// Session is a terminal's mode state machine and input source.
type Session struct {
	in  io.Reader
	out io.Writer
	con Console

	escapeTimeout time.Duration
	mouseMode     seq.MouseMode
	logger        *slog.Logger

	mu        sync.Mutex
	mode      Mode
	saved     *term.State
	reader    *Reader
	onRestore []func()
	closed    bool
}

// New creates a Session reading from in and writing mode sequences to out.
// The terminal starts in cooked mode.
func New(in io.Reader, out io.Writer, con Console, opts ...Option) *Session {
	s := &Session{
		in:            in,
		out:           out,
		con:           con,
		escapeTimeout: input.DefaultEscapeTimeout,
		mouseMode:     seq.MouseMotion,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a Session on the process's stdin and stdout.
func Open(opts ...Option) (*Session, error) {
	if !term.IsTerminal(os.Stdin.Fd()) {
		return nil, ErrNotTerminal
	}
	return New(os.Stdin, os.Stdout, NewConsole(os.Stdin, os.Stdout), opts...), nil
}

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Size returns the terminal dimensions, falling back to 80x24 when the
// console cannot report them.
func (s *Session) Size() (cols, rows int) {
	cols, rows, err := s.con.Size()
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}

// EnableRaw switches to raw mode. From RawMouse it only turns mouse
// reporting off.
func (s *Session) EnableRaw() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(ModeRaw)
}

// EnableMouse switches to raw mode with mouse reporting.
func (s *Session) EnableMouse() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(ModeRawMouse)
}

func (s *Session) transitionLocked(to Mode) error {
	if s.closed {
		return ErrClosed
	}
	from := s.mode
	if from == to {
		return nil
	}

	if from == ModeCooked {
		state, err := s.con.MakeRaw()
		if err != nil {
			return s.failLocked(from, to, err)
		}
		s.saved = state
		s.mode = ModeRaw
	}

	switch {
	case to == ModeRawMouse:
		if _, err := io.WriteString(s.out, seq.EnableMouse(s.mouseMode)); err != nil {
			return s.failLocked(from, to, err)
		}
	case from == ModeRawMouse:
		if _, err := io.WriteString(s.out, seq.DisableMouse()); err != nil {
			return s.failLocked(from, to, err)
		}
	}

	s.mode = to
	s.logger.Debug("terminal mode changed", "from", from, "to", to)
	return nil
}

// failLocked restores what it can before reporting a failed transition.
func (s *Session) failLocked(from, to Mode, err error) error {
	if restoreErr := s.restoreLocked(); restoreErr != nil {
		s.logger.Warn("restore after failed mode change", "error", restoreErr)
	}
	s.closed = true
	return &ModeTransitionError{From: from, To: to, Err: err}
}

// OnRestore registers fn to run whenever the terminal is about to leave raw
// mode, including from a signal handler. fn must not call back into the
// Session.
func (s *Session) OnRestore(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRestore = append(s.onRestore, fn)
}

// Restore returns the terminal to the mode it was in before the first
// EnableRaw or EnableMouse and ends any active Reader. It is safe to call
// repeatedly; calls after the first do nothing.
func (s *Session) Restore() error {
	s.mu.Lock()
	if s.mode == ModeCooked {
		s.mu.Unlock()
		return nil
	}
	hooks := slices.Clone(s.onRestore)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	s.mu.Lock()
	r := s.reader
	err := s.restoreLocked()
	s.mu.Unlock()

	if r != nil {
		s.awaitReader(r)
	}
	return err
}

func (s *Session) restoreLocked() error {
	if s.reader != nil {
		s.reader.halt()
		s.reader = nil
	}
	if s.mode == ModeCooked {
		return nil
	}

	var err error
	if s.mode == ModeRawMouse {
		_, err = io.WriteString(s.out, seq.DisableMouse())
	}
	if s.saved != nil {
		if restoreErr := s.con.Restore(s.saved); restoreErr != nil {
			err = restoreErr
		}
		s.saved = nil
	}
	from := s.mode
	s.mode = ModeCooked
	s.logger.Debug("terminal mode restored", "from", from, "error", err)
	return err
}

// Events issues the Reader for this session's input. Only one Reader may be
// open at a time; it ends when closed or when the session is restored.
func (s *Session) Events() (*Reader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return nil, ErrClosed
	case s.reader != nil:
		return nil, ErrReaderActive
	case s.mode == ModeCooked:
		return nil, ErrCooked
	}

	r, err := startReader(s, s.in)
	if err != nil {
		return nil, err
	}
	s.reader = r
	return r, nil
}

func (s *Session) releaseReader(r *Reader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader == r {
		s.reader = nil
	}
}

func (s *Session) awaitReader(r *Reader) {
	if !r.wait(ShutdownTimeout) {
		s.logger.Warn("input reader did not stop in time", "timeout", ShutdownTimeout)
	}
}

// Close ends the session: it interrupts a blocked read, restores the
// terminal and rejects further use. The terminal is restored even if the
// reader failed.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed && s.mode == ModeCooked && s.reader == nil {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	r := s.reader
	if r != nil {
		r.halt()
	}
	s.mu.Unlock()

	if r != nil {
		s.awaitReader(r)
	}
	return s.Restore()
}
