package session

import (
	"context"

	"github.com/charmbracelet/x/term"
)

// Console is the platform half of a Session: it switches the terminal's
// input mode and reports its size. Implementations exist for Unix ttys and
// the Windows console; tests substitute a fake.
type Console interface {
	// MakeRaw switches input to raw mode and returns the state to restore.
	MakeRaw() (*term.State, error)

	// Restore reinstates a state returned by MakeRaw.
	Restore(*term.State) error

	// Size returns the terminal dimensions in cells.
	Size() (cols, rows int, err error)

	// NotifyResize calls fn whenever the terminal is resized, until ctx is
	// done.
	NotifyResize(ctx context.Context, fn func())
}
