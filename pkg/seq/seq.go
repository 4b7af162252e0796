// Package seq builds terminal control sequences. Every function is pure and
// returns the exact bytes to write; nothing here touches a terminal.
//
// Rows and columns are 1-based, matching the wire protocol. Counts of zero or
// less produce an empty string rather than a sequence the terminal would
// interpret as "one".
package seq

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// MoveTo positions the cursor at the given row and column.
func MoveTo(row, col int) string {
	return ansi.CursorPosition(max(col, 1), max(row, 1))
}

// Home moves the cursor to the top-left corner.
func Home() string { return ansi.CursorHomePosition }

func Up(n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.CursorUp(n)
}

func Down(n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.CursorDown(n)
}

func Right(n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.CursorForward(n)
}

func Left(n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.CursorBackward(n)
}

// Column moves the cursor to the given column of the current row.
func Column(col int) string {
	return ansi.CursorHorizontalAbsolute(max(col, 1))
}

// ClearLine erases the whole current line without moving the cursor.
func ClearLine() string { return ansi.EraseEntireLine }

// ClearLineRight erases from the cursor to the end of the line.
func ClearLineRight() string { return ansi.EraseLineRight }

// ClearScreen erases the visible screen and homes the cursor.
func ClearScreen() string { return ansi.EraseEntireScreen + ansi.CursorHomePosition }

func ClearBelow() string { return ansi.EraseScreenBelow }

func ClearAbove() string { return ansi.EraseScreenAbove }

// ClearRegion erases n lines starting at the cursor row and leaves the
// cursor at column 1 of that first row.
func ClearRegion(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('\r')
	for i := range n {
		if i > 0 {
			b.WriteString(ansi.CursorDown(1))
		}
		b.WriteString(ansi.EraseEntireLine)
	}
	b.WriteString(Up(n - 1))
	return b.String()
}

func EnterAltScreen() string { return ansi.SetModeAltScreenSaveCursor }

func ExitAltScreen() string { return ansi.ResetModeAltScreenSaveCursor }

func ShowCursor() string { return ansi.SetModeTextCursorEnable }

func HideCursor() string { return ansi.ResetModeTextCursorEnable }

// SetScrollRegion limits scrolling to rows top through bottom inclusive.
func SetScrollRegion(top, bottom int) string {
	return ansi.SetTopBottomMargins(max(top, 1), max(bottom, 1))
}

// ResetScrollRegion restores scrolling to the full screen.
func ResetScrollRegion() string { return "\x1b[r" }

// SaveCursor stores the cursor position (DECSC).
func SaveCursor() string { return ansi.SaveCursor }

// RestoreCursor returns to the position stored by SaveCursor (DECRC).
func RestoreCursor() string { return ansi.RestoreCursor }

// EraseChars blanks n cells from the cursor to the right.
func EraseChars(n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.EraseCharacter(n)
}

func InsertLines(n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.InsertLine(n)
}

func DeleteLines(n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.DeleteLine(n)
}

func ScrollUp(n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.ScrollUp(n)
}

func ScrollDown(n int) string {
	if n <= 0 {
		return ""
	}
	return ansi.ScrollDown(n)
}

// SetTitle sets both the window title and icon name (OSC 0).
func SetTitle(title string) string {
	return ansi.SetIconNameWindowTitle(title)
}

// RequestCursorPosition asks the terminal to report the cursor position. The
// reply arrives on input as CSI row ; col R.
func RequestCursorPosition() string { return ansi.RequestCursorPosition }

// BeginSync and EndSync bracket output the terminal should paint atomically.
func BeginSync() string { return ansi.SetModeSynchronizedOutput }

func EndSync() string { return ansi.ResetModeSynchronizedOutput }

func EnableBracketedPaste() string { return ansi.SetModeBracketedPaste }

func DisableBracketedPaste() string { return ansi.ResetModeBracketedPaste }

func EnableAutoWrap() string { return ansi.SetModeAutoWrap }

func DisableAutoWrap() string { return ansi.ResetModeAutoWrap }
