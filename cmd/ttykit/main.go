package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/vito/ttykit/pkg/ioctx"
	"github.com/vito/ttykit/pkg/ttyconf"
)

// Config holds the global flags.
type Config struct {
	Debug      bool
	LogFile    string
	ConfigPath string
}

// app is what every subcommand shares once the global flags are applied.
type app struct {
	flags  Config
	conf   *ttyconf.Config
	logger *slog.Logger
	level  slog.Level

	closeLog func() error
}

func main() {
	ctx := ioctx.WithStreams(context.Background(), ioctx.Stdio())
	if err := fang.Execute(ctx, newRootCmd(),
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "ttykit",
		Short: "Terminal input decoding and live status regions",
		Long: `ttykit exercises raw terminal input and a redrawing status region.
It decodes key and mouse input into events, and renders spinners and
progress bars beneath ordinary scrolling output.`,
		Example: `  # Show the events your terminal sends, with mouse reporting
  ttykit keys --mouse

  # Decode a captured byte stream
  printf '\033[1;5A' | ttykit keys

  # Run six fake tasks in a three row region
  ttykit tasks --count 6 --height 3

  # Print the bytes for an encoder action
  ttykit seq move-to 3 7`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.flags.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.flags.LogFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&a.flags.ConfigPath, "config", "", "Path to ttykit.toml (searched for upwards by default)")

	rootCmd.AddCommand(keysCmd(a), tasksCmd(a), seqCmd(), statsCmd())
	return rootCmd
}

// setup installs the logger and loads the config.
func (a *app) setup(ctx context.Context) error {
	level := slog.LevelWarn
	if a.flags.Debug {
		level = slog.LevelDebug
	}

	var logOut io.Writer = ioctx.FromContext(ctx).Err
	if a.flags.LogFile != "" {
		f, err := os.OpenFile(a.flags.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logOut = f
		a.closeLog = f.Close
	}

	a.level = level
	handler := slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: level,
	})
	a.logger = slog.New(handler)
	slog.SetDefault(a.logger)

	var err error
	if a.flags.ConfigPath != "" {
		a.conf, err = ttyconf.Load(a.flags.ConfigPath)
	} else {
		cwd, _ := os.Getwd()
		a.conf, err = ttyconf.Find(cwd)
	}
	if err != nil {
		return err
	}
	if a.conf.Path != "" {
		a.logger.Debug("loaded config", "path", a.conf.Path)
	}
	return nil
}
