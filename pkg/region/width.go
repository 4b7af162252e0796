package region

import (
	"slices"

	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks a row cut short to fit the terminal width.
const Ellipsis = "…"

// VisibleWidth returns the terminal display width of s, ignoring escape
// sequences and counting wide characters as two cells.
func VisibleWidth(s string) int {
	return ansi.StringWidth(s)
}

// Fit truncates s to width cells, ending it with Ellipsis when anything was
// cut.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// wrap soft-wraps s at width cells, preferring to break at spaces.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Wrap(s, width, "")
}

// clipRows keeps the first n rows and ends the last one kept with Ellipsis
// when rows were dropped.
func clipRows(rows []string, n, width int) []string {
	if len(rows) <= n {
		return rows
	}
	rows = slices.Clone(rows[:n])
	last := ansi.Truncate(rows[n-1], max(width-1, 0), "")
	rows[n-1] = last + Ellipsis
	return rows
}
