package input

import "unicode/utf8"

// RecordKind is the event type of a console input record.
type RecordKind uint8

const (
	RecordKey RecordKind = iota + 1
	RecordMouse
	RecordResize
	RecordFocus
	RecordMenu
)

// ConsoleRecord is a platform-neutral copy of a Windows INPUT_RECORD. Only
// the fields for Kind are meaningful.
type ConsoleRecord struct {
	Kind RecordKind

	// RecordKey
	KeyDown        bool
	RepeatCount    uint16
	VirtualKeyCode uint16
	Char           rune

	// RecordKey and RecordMouse
	ControlKeyState uint32

	// RecordMouse, 0-based cells
	X, Y        int
	ButtonState uint32
	EventFlags  uint32

	// RecordResize
	Cols, Rows int
}

// Control key state bits.
const (
	RightAltPressed  = 0x0001
	LeftAltPressed   = 0x0002
	RightCtrlPressed = 0x0004
	LeftCtrlPressed  = 0x0008
	ShiftPressed     = 0x0010
)

// Mouse event flags.
const (
	MouseMoved    = 0x0001
	DoubleClick   = 0x0002
	MouseWheeled  = 0x0004
	MouseHWheeled = 0x0008
)

// Mouse button state bits.
const (
	FromLeft1stButtonPressed = 0x0001
	RightmostButtonPressed   = 0x0002
	FromLeft2ndButtonPressed = 0x0004
)

var virtualKeys = map[uint16]Key{
	0x08: KeyBackspace,
	0x09: KeyTab,
	0x0c: KeyBegin,
	0x0d: KeyEnter,
	0x1b: KeyEscape,
	0x21: KeyPageUp,
	0x22: KeyPageDown,
	0x23: KeyEnd,
	0x24: KeyHome,
	0x25: KeyLeft,
	0x26: KeyUp,
	0x27: KeyRight,
	0x28: KeyDown,
	0x2d: KeyInsert,
	0x2e: KeyDelete,
	0x70: KeyF1,
	0x71: KeyF2,
	0x72: KeyF3,
	0x73: KeyF4,
	0x74: KeyF5,
	0x75: KeyF6,
	0x76: KeyF7,
	0x77: KeyF8,
	0x78: KeyF9,
	0x79: KeyF10,
	0x7a: KeyF11,
	0x7b: KeyF12,
}

var recordButtons = []struct {
	bit    uint32
	button MouseButton
}{
	{FromLeft1stButtonPressed, ButtonLeft},
	{FromLeft2ndButtonPressed, ButtonMiddle},
	{RightmostButtonPressed, ButtonRight},
}

func controlMods(state uint32) Modifier {
	var m Modifier
	if state&(RightAltPressed|LeftAltPressed) != 0 {
		m |= ModAlt
	}
	if state&(RightCtrlPressed|LeftCtrlPressed) != 0 {
		m |= ModCtrl
	}
	if state&ShiftPressed != 0 {
		m |= ModShift
	}
	return m
}

// DecodeRecords converts console input records into the same events the
// byte decoder produces for the equivalent terminal input.
func (d *Decoder) DecodeRecords(recs []ConsoleRecord) []Event {
	var events []Event
	for _, r := range recs {
		switch r.Kind {
		case RecordKey:
			events = append(events, d.keyRecord(r)...)
		case RecordMouse:
			events = d.after(events, d.mouseRecord(r))
		case RecordResize:
			events = d.after(events, []Event{ResizeEvent{Cols: r.Cols, Rows: r.Rows}})
		}
		// focus and menu records carry no input
	}
	return events
}

// after appends evs to events, first releasing any bytes still held from
// virtual terminal key records so events keep their arrival order.
func (d *Decoder) after(events, evs []Event) []Event {
	if len(evs) == 0 {
		return events
	}
	events = append(events, d.Flush()...)
	return append(events, evs...)
}

func (d *Decoder) keyRecord(r ConsoleRecord) []Event {
	if !r.KeyDown {
		return nil
	}
	repeat := max(int(r.RepeatCount), 1)
	mod := controlMods(r.ControlKeyState)

	if r.VirtualKeyCode == 0 && r.Char != 0 {
		// virtual terminal input: the console hands over raw sequence bytes
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r.Char)
		var events []Event
		for range repeat {
			events = append(events, d.Decode(buf[:n])...)
		}
		return events
	}

	var ev KeyEvent
	switch k, named := virtualKeys[r.VirtualKeyCode]; {
	case named:
		ev = KeyEvent{Code: k, Mod: mod}
	case r.Char == 0:
		// a modifier key on its own
		return nil
	case r.Char < 0x20 || r.Char == 0x7f:
		ev = controlKey(byte(r.Char))
		ev.Mod |= mod
	default:
		ev = KeyEvent{Code: KeyRune, Rune: r.Char}
		// shift is already applied to the rune; ctrl+alt together is AltGr
		if mod&(ModCtrl|ModAlt) != ModCtrl|ModAlt {
			ev.Mod = mod &^ ModShift
		}
	}

	events := make([]Event, 0, repeat)
	for range repeat {
		events = append(events, ev)
	}
	return d.after(nil, events)
}

func (d *Decoder) mouseRecord(r ConsoleRecord) []Event {
	base := MouseEvent{X: r.X, Y: r.Y, Mod: controlMods(r.ControlKeyState)}
	wheel := int16(r.ButtonState >> 16)

	switch {
	case r.EventFlags&MouseWheeled != 0:
		base.Kind = MouseScroll
		base.Button = ButtonWheelDown
		if wheel > 0 {
			base.Button = ButtonWheelUp
		}
		return []Event{base}
	case r.EventFlags&MouseHWheeled != 0:
		base.Kind = MouseScroll
		base.Button = ButtonWheelLeft
		if wheel > 0 {
			base.Button = ButtonWheelRight
		}
		return []Event{base}
	}

	state := r.ButtonState & 0xffff
	prev := d.buttons
	d.buttons = state

	if r.EventFlags&MouseMoved != 0 {
		base.Kind = MouseMove
		for _, b := range recordButtons {
			if state&b.bit != 0 {
				base.Kind = MouseDrag
				base.Button = b.button
				break
			}
		}
		return []Event{base}
	}

	var events []Event
	for _, b := range recordButtons {
		if prev&b.bit != 0 && state&b.bit == 0 {
			ev := base
			ev.Kind = MouseRelease
			ev.Button = b.button
			events = append(events, ev)
		}
	}
	for _, b := range recordButtons {
		pressed := prev&b.bit == 0 && state&b.bit != 0
		if pressed || (r.EventFlags&DoubleClick != 0 && state&b.bit != 0) {
			ev := base
			ev.Kind = MousePress
			ev.Button = b.button
			events = append(events, ev)
		}
	}
	return events
}
