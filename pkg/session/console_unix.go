//go:build !windows

package session

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ttyConsole is a Console backed by a Unix tty. Raw mode is applied to in;
// the window size is read from out.
type ttyConsole struct {
	in, out *os.File
}

// NewConsole returns the Console for the given terminal files.
func NewConsole(in, out *os.File) Console {
	return &ttyConsole{in: in, out: out}
}

func (c *ttyConsole) MakeRaw() (*term.State, error) {
	state, err := term.MakeRaw(c.in.Fd())
	if err != nil {
		return nil, errors.Wrapf(err, "make %s raw", c.in.Name())
	}
	return state, nil
}

func (c *ttyConsole) Restore(state *term.State) error {
	return errors.Wrapf(term.Restore(c.in.Fd(), state), "restore %s", c.in.Name())
}

func (c *ttyConsole) Size() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(int(c.out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, errors.Wrap(err, "get window size")
	}
	return int(ws.Col), int(ws.Row), nil
}

func (c *ttyConsole) NotifyResize(ctx context.Context, fn func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-sigCh:
				fn()
			case <-ctx.Done():
				return
			}
		}
	}()
}
