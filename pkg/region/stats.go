package region

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// RenderStats captures one frame of a region, from a tick, Flush or Print.
type RenderStats struct {
	// ComposeTime is how long the items took to render their rows.
	ComposeTime time.Duration

	// WriteTime is how long the write to the output stream took. Zero when
	// nothing changed.
	WriteTime time.Duration

	TotalTime time.Duration

	// Rows is the region height.
	Rows int

	// RowsRepainted counts rows that differed from the previous frame, or
	// every row on a full redraw.
	RowsRepainted int

	// FullRedraw is true when every row was repainted, e.g. after the
	// width changed or text was printed above the region.
	FullRedraw bool

	BytesWritten int

	// Visible and Backlog count submitted items that hold a slot and
	// that are waiting for one.
	Visible int
	Backlog int
}

type renderStatsJSON struct {
	Ts            int64 `json:"ts"`
	TotalUs       int64 `json:"total_us"`
	ComposeUs     int64 `json:"compose_us"`
	WriteUs       int64 `json:"write_us"`
	Rows          int   `json:"rows"`
	RowsRepainted int   `json:"rows_repainted"`
	FullRedraw    bool  `json:"full_redraw"`
	BytesWritten  int   `json:"bytes_written"`
	Visible       int   `json:"visible"`
	Backlog       int   `json:"backlog"`
}

// emitStats writes stats as one JSON line. Errors are ignored; the debug
// stream must never disturb rendering.
func emitStats(w io.Writer, stats RenderStats) {
	if w == nil {
		return
	}
	rec := renderStatsJSON{
		Ts:            time.Now().UnixMilli(),
		TotalUs:       stats.TotalTime.Microseconds(),
		ComposeUs:     stats.ComposeTime.Microseconds(),
		WriteUs:       stats.WriteTime.Microseconds(),
		Rows:          stats.Rows,
		RowsRepainted: stats.RowsRepainted,
		FullRedraw:    stats.FullRedraw,
		BytesWritten:  stats.BytesWritten,
		Visible:       stats.Visible,
		Backlog:       stats.Backlog,
	}
	data, _ := json.Marshal(rec)
	data = append(data, '\n')
	w.Write(data) //nolint:errcheck
}

// ReadStats decodes a stream written by WithDebugWriter. Lines that are not
// valid JSON, such as a torn final line, are skipped.
func ReadStats(r io.Reader) ([]RenderStats, error) {
	var stats []RenderStats
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !json.Valid(line) {
			continue
		}
		var rec renderStatsJSON
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decode render stats: %w", err)
		}
		stats = append(stats, RenderStats{
			ComposeTime:   time.Duration(rec.ComposeUs) * time.Microsecond,
			WriteTime:     time.Duration(rec.WriteUs) * time.Microsecond,
			TotalTime:     time.Duration(rec.TotalUs) * time.Microsecond,
			Rows:          rec.Rows,
			RowsRepainted: rec.RowsRepainted,
			FullRedraw:    rec.FullRedraw,
			BytesWritten:  rec.BytesWritten,
			Visible:       rec.Visible,
			Backlog:       rec.Backlog,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read render stats: %w", err)
	}
	return stats, nil
}
