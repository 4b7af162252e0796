//go:build windows

package input

import (
	xwindows "github.com/charmbracelet/x/windows"
	"golang.org/x/sys/windows"
)

// ReadConsoleRecords blocks until console input is available and returns up
// to limit records.
func ReadConsoleRecords(console windows.Handle, limit int) ([]ConsoleRecord, error) {
	if limit <= 0 {
		limit = 1
	}
	buf := make([]xwindows.InputRecord, limit)
	var n uint32
	if err := xwindows.ReadConsoleInput(console, &buf[0], uint32(len(buf)), &n); err != nil {
		return nil, err
	}
	recs := make([]ConsoleRecord, 0, n)
	for _, r := range buf[:n] {
		recs = append(recs, convertRecord(r))
	}
	return recs, nil
}

func convertRecord(r xwindows.InputRecord) ConsoleRecord {
	switch r.EventType {
	case windows.KEY_EVENT:
		k := r.KeyEvent()
		return ConsoleRecord{
			Kind:            RecordKey,
			KeyDown:         k.KeyDown,
			RepeatCount:     k.RepeatCount,
			VirtualKeyCode:  k.VirtualKeyCode,
			Char:            k.Char,
			ControlKeyState: k.ControlKeyState,
		}
	case windows.MOUSE_EVENT:
		m := r.MouseEvent()
		return ConsoleRecord{
			Kind:            RecordMouse,
			X:               int(m.MousePositon.X),
			Y:               int(m.MousePositon.Y),
			ButtonState:     m.ButtonState,
			ControlKeyState: m.ControlKeyState,
			EventFlags:      m.EventFlags,
		}
	case windows.WINDOW_BUFFER_SIZE_EVENT:
		w := r.WindowBufferSizeEvent()
		return ConsoleRecord{
			Kind: RecordResize,
			Cols: int(w.Size.X),
			Rows: int(w.Size.Y),
		}
	case windows.FOCUS_EVENT:
		return ConsoleRecord{Kind: RecordFocus}
	default:
		return ConsoleRecord{Kind: RecordMenu}
	}
}
