//go:build windows

package session

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/pkg/errors"
)

// resizePollInterval is how often the console size is sampled. Console
// resizes arrive as input records, which the byte stream does not carry.
const resizePollInterval = 250 * time.Millisecond

type winConsole struct {
	in, out *os.File
}

// NewConsole returns the Console for the given console handles.
func NewConsole(in, out *os.File) Console {
	return &winConsole{in: in, out: out}
}

func (c *winConsole) MakeRaw() (*term.State, error) {
	// x/term enables virtual terminal input here, so keys arrive as the
	// same byte sequences a Unix tty produces
	state, err := term.MakeRaw(c.in.Fd())
	if err != nil {
		return nil, errors.Wrap(err, "make console raw")
	}
	return state, nil
}

func (c *winConsole) Restore(state *term.State) error {
	return errors.Wrap(term.Restore(c.in.Fd(), state), "restore console")
}

func (c *winConsole) Size() (int, int, error) {
	w, h, err := term.GetSize(c.out.Fd())
	if err != nil {
		return 0, 0, errors.Wrap(err, "get console size")
	}
	return w, h, nil
}

func (c *winConsole) NotifyResize(ctx context.Context, fn func()) {
	go func() {
		ticker := time.NewTicker(resizePollInterval)
		defer ticker.Stop()
		lastW, lastH, _ := c.Size()
		for {
			select {
			case <-ticker.C:
				w, h, err := c.Size()
				if err != nil || (w == lastW && h == lastH) {
					continue
				}
				lastW, lastH = w, h
				fn()
			case <-ctx.Done():
				return
			}
		}
	}()
}
