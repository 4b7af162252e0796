package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vito/ttykit/pkg/ioctx"
	"github.com/vito/ttykit/pkg/region"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Summarize a render stats log",
		Long: `Reads the JSON lines written by 'tasks --render-stats' and prints a
summary of how much each frame cost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			stats, err := region.ReadStats(f)
			if err != nil {
				return err
			}
			printSummary(ioctx.FromContext(cmd.Context()).Out, summarize(stats))
			return nil
		},
	}
}

type statsSummary struct {
	Frames        int
	Written       int
	FullRedraws   int
	RowsRepainted int
	Rows          int
	Bytes         int
	MeanTotal     time.Duration
	MaxTotal      time.Duration
	MaxBacklog    int
}

func summarize(stats []region.RenderStats) statsSummary {
	var s statsSummary
	var total time.Duration
	for _, st := range stats {
		s.Frames++
		if st.BytesWritten > 0 {
			s.Written++
		}
		if st.FullRedraw {
			s.FullRedraws++
		}
		s.RowsRepainted += st.RowsRepainted
		s.Rows += st.Rows
		s.Bytes += st.BytesWritten
		total += st.TotalTime
		s.MaxTotal = max(s.MaxTotal, st.TotalTime)
		s.MaxBacklog = max(s.MaxBacklog, st.Backlog)
	}
	if s.Frames > 0 {
		s.MeanTotal = total / time.Duration(s.Frames)
	}
	return s
}

func printSummary(w io.Writer, s statsSummary) {
	if s.Frames == 0 {
		fmt.Fprintln(w, "no frames recorded")
		return
	}
	fmt.Fprintf(w, "frames:         %d (%d wrote output, %d full redraws)\n", s.Frames, s.Written, s.FullRedraws)
	if s.Rows > 0 {
		fmt.Fprintf(w, "rows repainted: %d of %d (%.0f%%)\n", s.RowsRepainted, s.Rows, 100*float64(s.RowsRepainted)/float64(s.Rows))
	}
	fmt.Fprintf(w, "bytes written:  %d\n", s.Bytes)
	fmt.Fprintf(w, "frame time:     mean %s, max %s\n", s.MeanTotal, s.MaxTotal)
	fmt.Fprintf(w, "max backlog:    %d\n", s.MaxBacklog)
}
