// Package input decodes terminal input into structured events.
//
// Bytes from a raw-mode terminal and Windows console input records both
// decode into the same closed set of Event variants: KeyEvent, MouseEvent,
// ResizeEvent and UnknownEvent. Bytes the decoder cannot interpret are never
// dropped; they surface as UnknownEvent in the position they arrived.
package input

import (
	"fmt"
	"strings"
)

// Event is one decoded input event. The set of implementations is closed.
type Event interface {
	fmt.Stringer
	isEvent()
}

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModCtrl
)

// modifierParam decodes the xterm "1;m" modifier parameter, where m-1 is the
// bit set above.
func modifierParam(m int) Modifier {
	if m <= 1 {
		return 0
	}
	return Modifier(m-1) & (ModShift | ModAlt | ModCtrl)
}

func (m Modifier) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if m&ModShift != 0 {
		parts = append(parts, "shift")
	}
	return strings.Join(parts, "+")
}

// KeyEvent is a key press. Code is KeyRune for printable input, with the
// character in Rune. Control letters decode as KeyRune plus ModCtrl.
type KeyEvent struct {
	Code Key
	Rune rune
	Mod  Modifier
}

func (KeyEvent) isEvent() {}

// String returns the chord form accepted by ParseKey, e.g. "ctrl+alt+x".
func (k KeyEvent) String() string {
	name := k.Code.String()
	if k.Code == KeyRune {
		name = runeName(k.Rune)
	}
	if k.Mod == 0 {
		return name
	}
	return k.Mod.String() + "+" + name
}

// MouseKind classifies a mouse report.
type MouseKind uint8

const (
	MousePress MouseKind = iota
	MouseRelease
	MouseDrag
	MouseMove
	MouseScroll
)

var mouseKindNames = [...]string{
	MousePress:   "press",
	MouseRelease: "release",
	MouseDrag:    "drag",
	MouseMove:    "move",
	MouseScroll:  "scroll",
}

func (k MouseKind) String() string {
	if int(k) < len(mouseKindNames) {
		return mouseKindNames[k]
	}
	return "unknown"
}

// MouseButton identifies the button involved in a report.
type MouseButton uint8

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
	ButtonWheelLeft
	ButtonWheelRight
	ButtonBack
	ButtonForward
)

var mouseButtonNames = [...]string{
	ButtonNone:       "none",
	ButtonLeft:       "left",
	ButtonMiddle:     "middle",
	ButtonRight:      "right",
	ButtonWheelUp:    "wheel-up",
	ButtonWheelDown:  "wheel-down",
	ButtonWheelLeft:  "wheel-left",
	ButtonWheelRight: "wheel-right",
	ButtonBack:       "back",
	ButtonForward:    "forward",
}

func (b MouseButton) String() string {
	if int(b) < len(mouseButtonNames) {
		return mouseButtonNames[b]
	}
	return "unknown"
}

// MouseEvent is a mouse report. X and Y are 0-based cell coordinates.
type MouseEvent struct {
	Kind   MouseKind
	Button MouseButton
	X, Y   int
	Mod    Modifier
}

func (MouseEvent) isEvent() {}

func (m MouseEvent) String() string {
	var b strings.Builder
	if m.Mod != 0 {
		b.WriteString(m.Mod.String())
		b.WriteByte('+')
	}
	fmt.Fprintf(&b, "mouse %s %s at %d,%d", m.Kind, m.Button, m.X, m.Y)
	return b.String()
}

// ResizeEvent reports new terminal dimensions in cells.
type ResizeEvent struct {
	Cols, Rows int
}

func (ResizeEvent) isEvent() {}

func (r ResizeEvent) String() string {
	return fmt.Sprintf("resize %dx%d", r.Cols, r.Rows)
}

// UnknownEvent carries bytes that did not form a recognised sequence.
type UnknownEvent struct {
	Bytes []byte
}

func (UnknownEvent) isEvent() {}

func (u UnknownEvent) String() string {
	return fmt.Sprintf("unknown %q", u.Bytes)
}
