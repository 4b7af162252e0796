package seq

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gotest.tools/v3/golden"
)

func TestSequences(t *testing.T) {
	actions := []struct {
		name string
		seq  string
	}{
		{"move-to-3-7", MoveTo(3, 7)},
		{"move-to-origin", MoveTo(0, 0)},
		{"up-4", Up(4)},
		{"down-1", Down(1)},
		{"right-3", Right(3)},
		{"left-2", Left(2)},
		{"column-5", Column(5)},
		{"clear-line", ClearLine()},
		{"clear-region-3", ClearRegion(3)},
		{"clear-screen", ClearScreen()},
		{"alt-screen", EnterAltScreen()},
		{"scroll-region-2-10", SetScrollRegion(2, 10)},
		{"reset-scroll-region", ResetScrollRegion()},
		{"hide-cursor", HideCursor()},
		{"mouse-motion", EnableMouse(MouseMotion)},
		{"disable-mouse", DisableMouse()},
		{"title", SetTitle("build")},
		{"cursor-bar", SetCursorShape(CursorBar)},
	}

	var out strings.Builder
	for _, a := range actions {
		fmt.Fprintf(&out, "%s %q\n", a.name, a.seq)
	}
	golden.Assert(t, out.String(), "sequences.golden")
}

func TestNonPositiveCountsAreEmpty(t *testing.T) {
	for name, fn := range map[string]func(int) string{
		"Up":          Up,
		"Down":        Down,
		"Right":       Right,
		"Left":        Left,
		"ClearRegion": ClearRegion,
		"EraseChars":  EraseChars,
		"InsertLines": InsertLines,
		"DeleteLines": DeleteLines,
		"ScrollUp":    ScrollUp,
		"ScrollDown":  ScrollDown,
	} {
		assert.Empty(t, fn(0), name)
		assert.Empty(t, fn(-3), name)
	}
}

func TestClearRegionSingleLine(t *testing.T) {
	assert.Equal(t, "\r\x1b[2K", ClearRegion(1))
}

func TestMouseModes(t *testing.T) {
	assert.Equal(t, "\x1b[?1000h\x1b[?1006h", EnableMouse(MouseClick))
	assert.Equal(t, "\x1b[?1002h\x1b[?1006h", EnableMouse(MouseDrag))
	assert.Equal(t, "drag", MouseDrag.String())
}
