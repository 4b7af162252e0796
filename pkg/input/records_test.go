package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func keyDown(vk uint16, ch rune, state uint32) ConsoleRecord {
	return ConsoleRecord{
		Kind:            RecordKey,
		KeyDown:         true,
		RepeatCount:     1,
		VirtualKeyCode:  vk,
		Char:            ch,
		ControlKeyState: state,
	}
}

func TestDecodeKeyRecords(t *testing.T) {
	d := NewDecoder()

	released := keyDown(0x41, 'a', 0)
	released.KeyDown = false

	repeated := keyDown(0x42, 'b', 0)
	repeated.RepeatCount = 3

	events := d.DecodeRecords([]ConsoleRecord{
		keyDown(0x41, 'A', ShiftPressed),
		released,
		keyDown(0x26, 0, 0),
		keyDown(0x26, 0, LeftCtrlPressed),
		keyDown(0x43, 0x03, LeftCtrlPressed),
		keyDown(0x58, 'x', LeftAltPressed),
		keyDown(0x10, 0, ShiftPressed),
		keyDown(0x09, '\t', ShiftPressed),
		repeated,
		keyDown(0x51, '@', RightAltPressed|LeftCtrlPressed),
	})

	assert.Equal(t, []Event{
		char('A'),
		key(KeyUp),
		KeyEvent{Code: KeyUp, Mod: ModCtrl},
		KeyEvent{Code: KeyRune, Rune: 'c', Mod: ModCtrl},
		KeyEvent{Code: KeyRune, Rune: 'x', Mod: ModAlt},
		KeyEvent{Code: KeyTab, Mod: ModShift},
		char('b'),
		char('b'),
		char('b'),
		char('@'),
	}, events)
}

func TestDecodeRecordsMatchesBytes(t *testing.T) {
	d := NewDecoder()

	// virtual terminal input delivers the sequence one character per record
	var recs []ConsoleRecord
	for _, r := range "\x1b[1;5A" {
		recs = append(recs, keyDown(0, r, 0))
	}

	assert.Equal(t, decodeAll("\x1b[1;5A"), d.DecodeRecords(recs))
}

func TestDecodeMouseRecords(t *testing.T) {
	d := NewDecoder()

	mouse := func(x, y int, buttons, flags uint32) ConsoleRecord {
		return ConsoleRecord{Kind: RecordMouse, X: x, Y: y, ButtonState: buttons, EventFlags: flags}
	}

	events := d.DecodeRecords([]ConsoleRecord{
		mouse(3, 4, FromLeft1stButtonPressed, 0),
		mouse(5, 4, FromLeft1stButtonPressed, MouseMoved),
		mouse(5, 4, 0, 0),
		mouse(6, 6, 0, MouseMoved),
		mouse(1, 1, 120<<16, MouseWheeled),
		mouse(1, 1, 0xff88<<16, MouseWheeled),
		mouse(1, 1, 120<<16, MouseHWheeled),
		mouse(2, 2, RightmostButtonPressed, DoubleClick),
	})

	assert.Equal(t, []Event{
		MouseEvent{Kind: MousePress, Button: ButtonLeft, X: 3, Y: 4},
		MouseEvent{Kind: MouseDrag, Button: ButtonLeft, X: 5, Y: 4},
		MouseEvent{Kind: MouseRelease, Button: ButtonLeft, X: 5, Y: 4},
		MouseEvent{Kind: MouseMove, Button: ButtonNone, X: 6, Y: 6},
		MouseEvent{Kind: MouseScroll, Button: ButtonWheelUp, X: 1, Y: 1},
		MouseEvent{Kind: MouseScroll, Button: ButtonWheelDown, X: 1, Y: 1},
		MouseEvent{Kind: MouseScroll, Button: ButtonWheelRight, X: 1, Y: 1},
		MouseEvent{Kind: MousePress, Button: ButtonRight, X: 2, Y: 2},
	}, events)
}

func TestDecodeResizeAndFocusRecords(t *testing.T) {
	d := NewDecoder()
	events := d.DecodeRecords([]ConsoleRecord{
		{Kind: RecordFocus},
		{Kind: RecordResize, Cols: 120, Rows: 40},
		{Kind: RecordMenu},
	})
	assert.Equal(t, []Event{ResizeEvent{Cols: 120, Rows: 40}}, events)
}

func TestHeldEscapeKeepsRecordOrder(t *testing.T) {
	d := NewDecoder()

	events := d.DecodeRecords([]ConsoleRecord{
		keyDown(0, 0x1b, 0),
		keyDown(0x26, 0, 0),
		keyDown(0, 0x1b, 0),
		{Kind: RecordResize, Cols: 80, Rows: 24},
		keyDown(0, 0x1b, 0),
		{Kind: RecordMouse, X: 1, Y: 2, ButtonState: FromLeft1stButtonPressed},
	})

	assert.Equal(t, []Event{
		key(KeyEscape),
		key(KeyUp),
		key(KeyEscape),
		ResizeEvent{Cols: 80, Rows: 24},
		key(KeyEscape),
		MouseEvent{Kind: MousePress, Button: ButtonLeft, X: 1, Y: 2},
	}, events)
	assert.Zero(t, d.Buffered())
}
