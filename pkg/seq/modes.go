package seq

import "github.com/charmbracelet/x/ansi"

// CursorShape selects the cursor glyph (DECSCUSR).
type CursorShape int

const (
	CursorDefault CursorShape = iota
	CursorBlinkingBlock
	CursorBlock
	CursorBlinkingUnderline
	CursorUnderline
	CursorBlinkingBar
	CursorBar
)

var cursorShapeNames = map[CursorShape]string{
	CursorDefault:           "default",
	CursorBlinkingBlock:     "blinking-block",
	CursorBlock:             "block",
	CursorBlinkingUnderline: "blinking-underline",
	CursorUnderline:         "underline",
	CursorBlinkingBar:       "blinking-bar",
	CursorBar:               "bar",
}

func (s CursorShape) String() string {
	if n, ok := cursorShapeNames[s]; ok {
		return n
	}
	return "unknown"
}

func SetCursorShape(s CursorShape) string {
	return ansi.SetCursorStyle(int(s))
}

// MouseMode selects which mouse activity the terminal reports.
type MouseMode int

const (
	// MouseClick reports presses, releases and wheel.
	MouseClick MouseMode = iota
	// MouseDrag adds motion while a button is held.
	MouseDrag
	// MouseMotion reports all motion.
	MouseMotion
)

func (m MouseMode) String() string {
	switch m {
	case MouseClick:
		return "click"
	case MouseDrag:
		return "drag"
	case MouseMotion:
		return "motion"
	default:
		return "unknown"
	}
}

// EnableMouse turns on mouse reporting with SGR extended coordinates.
func EnableMouse(m MouseMode) string {
	var tracking string
	switch m {
	case MouseDrag:
		tracking = ansi.SetModeMouseButtonEvent
	case MouseMotion:
		tracking = ansi.SetModeMouseAnyEvent
	default:
		tracking = ansi.SetModeMouseNormal
	}
	return tracking + ansi.SetModeMouseExtSgr
}

// DisableMouse turns off every tracking mode EnableMouse may have set.
func DisableMouse() string {
	return ansi.ResetModeMouseExtSgr +
		ansi.ResetModeMouseAnyEvent +
		ansi.ResetModeMouseButtonEvent +
		ansi.ResetModeMouseNormal
}
