package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/term"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"github.com/vito/ttykit/pkg/input"
	"github.com/vito/ttykit/pkg/ioctx"
	"github.com/vito/ttykit/pkg/session"
)

var (
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	mouseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	resizeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func keysCmd(a *app) *cobra.Command {
	var mouse, verbose bool
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Print the events decoded from terminal input",
		Long: `Puts the terminal in raw mode and prints every decoded event until
the quit chord (ctrl+c unless ttykit.toml sets quit) is pressed.

When stdin is not a terminal, the piped bytes are decoded instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			streams := ioctx.FromContext(ctx)
			f, ok := ioctx.File(streams.In)
			if !ok || !term.IsTerminal(f.Fd()) {
				return decodeStream(streams.In, streams.Out, a, verbose)
			}
			return a.runKeys(ctx, f, mouse || a.conf.Mouse, verbose)
		},
	}
	cmd.Flags().BoolVar(&mouse, "mouse", false, "Enable mouse reporting")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Dump each event's fields")
	return cmd
}

func (a *app) runKeys(ctx context.Context, in *os.File, mouse, verbose bool) error {
	out := ioctx.FromContext(ctx).Out
	outFile, ok := ioctx.File(out)
	if !ok {
		outFile = os.Stdout
	}

	s := session.New(in, out, session.NewConsole(in, outFile),
		session.WithEscapeTimeout(a.conf.EscapeTimeout),
		session.WithLogger(a.logger))
	defer s.Close()

	stop := s.HandleSignals(ctx, nil)
	defer stop()

	enable := s.EnableRaw
	if mouse {
		enable = s.EnableMouse
	}
	if err := enable(); err != nil {
		return err
	}

	r, err := s.Events()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\r\n", dimStyle.Render(fmt.Sprintf("mode %s, press %s to quit", s.Mode(), a.conf.Quit)))
	for {
		ev, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		a.logger.Debug("event", "event", ev)
		fmt.Fprint(out, strings.ReplaceAll(formatEvent(ev, verbose), "\n", "\r\n")+"\r\n")
		if k, ok := ev.(input.KeyEvent); ok && k == a.conf.Quit {
			return nil
		}
	}
}

// decodeStream decodes everything r produces, as if it had been typed.
func decodeStream(r io.Reader, out io.Writer, a *app, verbose bool) error {
	dec := input.NewDecoder(input.WithEscapeTimeout(a.conf.EscapeTimeout))
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		for _, ev := range dec.Decode(buf[:n]) {
			fmt.Fprintln(out, formatEvent(ev, verbose))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
	for _, ev := range dec.Flush() {
		fmt.Fprintln(out, formatEvent(ev, verbose))
	}
	return nil
}

func formatEvent(ev input.Event, verbose bool) string {
	if verbose {
		return ev.String() + " " + dimStyle.Render(pretty.Sprint(ev))
	}
	switch ev.(type) {
	case input.KeyEvent:
		return keyStyle.Render(ev.String())
	case input.MouseEvent:
		return mouseStyle.Render(ev.String())
	case input.ResizeEvent:
		return resizeStyle.Render(ev.String())
	default:
		return unknownStyle.Render(ev.String())
	}
}
