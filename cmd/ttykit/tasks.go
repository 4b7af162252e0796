package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/vito/ttykit/pkg/input"
	"github.com/vito/ttykit/pkg/ioctx"
	"github.com/vito/ttykit/pkg/region"
	"github.com/vito/ttykit/pkg/session"
	"golang.org/x/sync/errgroup"
)

var (
	spinStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	barStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

type tasksOpts struct {
	height int
	count  int
	step   time.Duration
	debug  string
}

func tasksCmd(a *app) *cobra.Command {
	var opts tasksOpts
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Run fake tasks under a live status region",
		Long: `Runs --count fake tasks, as many at once as the region has rows.
Each task shows a spinner, a progress bar or a message; finished tasks are
printed above the region. Press the quit chord to stop early.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("height") {
				opts.height = a.conf.Height
			}
			return a.runTasks(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.height, "height", 4, "Rows in the status region")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 8, "Number of tasks")
	cmd.Flags().DurationVar(&opts.step, "step", 80*time.Millisecond, "Time each task step takes")
	cmd.Flags().StringVar(&opts.debug, "render-stats", "", "Write per-frame render stats (JSON lines) to this file")
	return cmd
}

func (a *app) runTasks(ctx context.Context, opts tasksOpts) error {
	if opts.height < 1 {
		return fmt.Errorf("--height must be at least 1")
	}
	streams := ioctx.FromContext(ctx)

	mopts := []region.Option{
		region.WithTickInterval(a.conf.TickInterval),
		region.WithLogger(a.logger),
	}
	if opts.debug != "" {
		f, err := os.Create(opts.debug)
		if err != nil {
			return fmt.Errorf("open render stats: %w", err)
		}
		defer f.Close()
		mopts = append(mopts, region.WithDebugWriter(f))
	}
	m := region.NewManager(streams.Out, mopts...)

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	errQuit := errors.New("quit")
	if in, ok := ioctx.File(streams.In); ok && term.IsTerminal(in.Fd()) {
		s, err := a.watchQuit(ctx, in, m, func() { cancel(errQuit) })
		if err != nil {
			return err
		}
		defer s.Close()
	}

	err := m.Scope(opts.height, func(r *region.Region) error {
		return a.runFakeTasks(ctx, r, opts)
	})
	if errors.Is(context.Cause(ctx), errQuit) {
		return nil
	}
	return err
}

// watchQuit puts the terminal in raw mode so keystrokes don't disturb the
// region, and calls quit when the quit chord is pressed. Restoring the
// terminal, on return or on a signal, deactivates the region first.
func (a *app) watchQuit(ctx context.Context, in *os.File, m *region.Manager, quit func()) (*session.Session, error) {
	out := ioctx.FromContext(ctx).Out
	outFile, ok := ioctx.File(out)
	if !ok {
		outFile = os.Stdout
	}

	s := session.New(in, out, session.NewConsole(in, outFile),
		session.WithEscapeTimeout(a.conf.EscapeTimeout),
		session.WithLogger(a.logger))
	s.OnRestore(func() {
		if r := m.Active(); r != nil {
			if err := r.Deactivate(); err != nil {
				a.logger.Warn("deactivate region", "error", err)
			}
		}
	})
	s.HandleSignals(ctx, nil)

	if err := s.EnableRaw(); err != nil {
		return nil, err
	}
	r, err := s.Events()
	if err != nil {
		s.Close()
		return nil, err
	}
	go func() {
		for {
			ev, err := r.Next(ctx)
			if err != nil {
				return
			}
			if k, ok := ev.(input.KeyEvent); ok && k == a.conf.Quit {
				quit()
				return
			}
		}
	}()
	return s, nil
}

// runFakeTasks submits every task up front, so tasks beyond the region's
// height wait in its backlog, and works through them height at a time.
func (a *app) runFakeTasks(ctx context.Context, r *region.Region, opts tasksOpts) error {
	type task struct {
		n     int
		steps int
		item  region.Item
	}

	// Log through the region so log lines land above it instead of
	// through it.
	logger := a.logger
	if a.flags.LogFile == "" {
		logger = slog.New(slog.NewTextHandler(r, &slog.HandlerOptions{Level: a.level}))
	}

	tasks := make([]task, opts.count)
	for i := range tasks {
		t := task{n: i + 1, steps: 4 + i%5}
		label := fmt.Sprintf("task %d", t.n)
		switch i % 3 {
		case 0:
			spin := region.NewSpinner(label,
				region.WithIcons(a.conf.SpinnerIcons()),
				region.WithTotal(t.steps))
			spin.Style = func(s string) string { return spinStyle.Render(s) }
			t.item = spin
		case 1:
			bar := region.NewProgressBar(label)
			bar.Style = func(s string) string { return barStyle.Render(s) }
			bar.SetTotal(t.steps)
			t.item = bar
		default:
			t.item = region.NewMessage(label + ": waiting")
		}
		if _, err := r.Submit(t.item); err != nil {
			return err
		}
		tasks[i] = t
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Height())
	for _, t := range tasks {
		g.Go(func() error {
			for step := 1; step <= t.steps; step++ {
				select {
				case <-time.After(opts.step):
				case <-ctx.Done():
					return ctx.Err()
				}
				switch item := t.item.(type) {
				case *region.Spinner:
					item.Add(1)
				case *region.ProgressBar:
					item.Add(1)
				case *region.Message:
					item.Set(fmt.Sprintf("task %d: step %d/%d", t.n, step, t.steps))
				}
			}

			switch item := t.item.(type) {
			case *region.Spinner:
				item.Finish(fmt.Sprintf("task %d", t.n))
			case *region.ProgressBar:
				item.Finish()
			case *region.Message:
				item.Finish()
			}
			logger.Debug("task finished", "task", t.n, "steps", t.steps)
			return r.Print(doneStyle.Render("✓") + fmt.Sprintf(" task %d finished in %d steps", t.n, t.steps))
		})
	}
	return g.Wait()
}
