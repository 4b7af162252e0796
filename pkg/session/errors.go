package session

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by operations on a closed or failed session.
	ErrClosed = errors.New("session closed")

	// ErrReaderActive is returned by Events while a previously issued
	// Reader is still open.
	ErrReaderActive = errors.New("session already has an active event reader")

	// ErrCooked is returned by Events when the terminal is not in raw mode.
	ErrCooked = errors.New("terminal is in cooked mode")

	// ErrNotTerminal is returned by Open when stdin is not a terminal.
	ErrNotTerminal = errors.New("stdin is not a terminal")
)

// ModeTransitionError reports a failed switch between terminal modes. The
// session has already attempted to restore the original mode when this is
// returned, and refuses further transitions.
type ModeTransitionError struct {
	From, To Mode
	Err      error
}

func (e *ModeTransitionError) Error() string {
	return fmt.Sprintf("switch terminal from %s to %s: %v", e.From, e.To, e.Err)
}

func (e *ModeTransitionError) Unwrap() error {
	return e.Err
}
