package input

import (
	"bytes"
	"strconv"
	"time"
	"unicode/utf8"
)

const (
	// DefaultEscapeTimeout is how long a lone ESC (or another incomplete
	// prefix) is held waiting for the rest of a sequence. This is a latency
	// heuristic: over a slow link a real sequence may arrive split across
	// the deadline and decode as Escape followed by text.
	DefaultEscapeTimeout = 50 * time.Millisecond

	// MaxSequenceLen bounds how many bytes of an unterminated CSI sequence
	// are held before they are given up as unknown.
	MaxSequenceLen = 64
)

// Option configures a Decoder.
type Option func(*Decoder)

// WithEscapeTimeout sets how long an incomplete prefix is held.
func WithEscapeTimeout(d time.Duration) Option {
	return func(dec *Decoder) {
		if d > 0 {
			dec.timeout = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(dec *Decoder) {
		dec.now = now
	}
}

// Decoder turns input bytes into Events. Bytes that end partway through a
// sequence are held and prefixed to the next chunk, so the events produced
// never depend on how the input was split into chunks.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	buf       []byte
	heldSince time.Time
	timeout   time.Duration
	now       func() time.Time

	// last console mouse button state, for press/release edges
	buttons uint32
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		timeout: DefaultEscapeTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// EscapeTimeout returns the configured hold interval.
func (d *Decoder) EscapeTimeout() time.Duration { return d.timeout }

// Buffered returns the number of bytes held from previous chunks.
func (d *Decoder) Buffered() int { return len(d.buf) }

// Decode consumes chunk and returns every event it completes, in order.
func (d *Decoder) Decode(chunk []byte) []Event {
	d.buf = append(d.buf, chunk...)

	var events []Event
	off := 0
	for off < len(d.buf) {
		n, ev := d.next(d.buf[off:])
		if n == 0 {
			break
		}
		if ev != nil {
			events = append(events, ev)
		}
		off += n
	}

	rest := d.buf[off:]
	switch {
	case len(rest) == 0:
		d.buf = d.buf[:0]
		d.heldSince = time.Time{}
	case len(chunk) > 0 || d.heldSince.IsZero():
		d.buf = append(d.buf[:0], rest...)
		d.heldSince = d.now()
	default:
		d.buf = append(d.buf[:0], rest...)
	}
	return events
}

// Deadline reports when the held prefix should be flushed, if any is held.
func (d *Decoder) Deadline() (time.Time, bool) {
	if len(d.buf) == 0 {
		return time.Time{}, false
	}
	return d.heldSince.Add(d.timeout), true
}

// Expire flushes the held prefix once its deadline has passed.
func (d *Decoder) Expire() []Event {
	deadline, ok := d.Deadline()
	if !ok || d.now().Before(deadline) {
		return nil
	}
	return d.Flush()
}

// Flush gives up waiting and decodes whatever is held as literal input: a
// lone ESC is the Escape key, ESC [ and ESC O are Alt+[ and Alt+O, and
// anything else is returned as an UnknownEvent.
func (d *Decoder) Flush() []Event {
	if len(d.buf) == 0 {
		return nil
	}
	held := bytes.Clone(d.buf)
	d.buf = d.buf[:0]
	d.heldSince = time.Time{}

	if held[0] == 0x1b {
		switch {
		case len(held) == 1:
			return []Event{KeyEvent{Code: KeyEscape}}
		case len(held) == 2 && (held[1] == '[' || held[1] == 'O'):
			return []Event{KeyEvent{Code: KeyRune, Rune: rune(held[1]), Mod: ModAlt}}
		case held[1] >= 0x80:
			// ESC then a truncated UTF-8 rune
			return []Event{KeyEvent{Code: KeyEscape}, UnknownEvent{Bytes: held[1:]}}
		}
	}
	return []Event{UnknownEvent{Bytes: held}}
}

// next decodes one event from the front of b. It returns 0 when b ends
// partway through a sequence and more input is needed; a non-zero result
// never changes if more bytes are appended to b.
func (d *Decoder) next(b []byte) (int, Event) {
	switch c := b[0]; {
	case c == 0x1b:
		return d.escape(b)
	case c < 0x20 || c == 0x7f:
		return 1, controlKey(c)
	case c < utf8.RuneSelf:
		return 1, KeyEvent{Code: KeyRune, Rune: rune(c)}
	default:
		return decodeRune(b)
	}
}

func decodeRune(b []byte) (int, Event) {
	if !utf8.FullRune(b) {
		return 0, nil
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return 1, UnknownEvent{Bytes: []byte{b[0]}}
	}
	return size, KeyEvent{Code: KeyRune, Rune: r}
}

func (d *Decoder) escape(b []byte) (int, Event) {
	if len(b) < 2 {
		return 0, nil
	}
	switch c := b[1]; {
	case c == '[':
		return d.csi(b)
	case c == 'O':
		return ss3(b)
	case c == 0x1b:
		return 2, KeyEvent{Code: KeyEscape, Mod: ModAlt}
	case c < 0x20 || c == 0x7f:
		ev := controlKey(c)
		ev.Mod |= ModAlt
		return 2, ev
	case c < utf8.RuneSelf:
		return 2, KeyEvent{Code: KeyRune, Rune: rune(c), Mod: ModAlt}
	}

	n, ev := decodeRune(b[1:])
	if n == 0 {
		return 0, nil
	}
	if k, ok := ev.(KeyEvent); ok {
		k.Mod |= ModAlt
		return 1 + n, k
	}
	// the invalid byte decodes on its own next
	return 1, KeyEvent{Code: KeyEscape}
}

func ss3(b []byte) (int, Event) {
	if len(b) < 3 {
		return 0, nil
	}
	final := b[2]
	if k, ok := letterKeys[final]; ok {
		return 3, KeyEvent{Code: k}
	}
	if final == 'M' {
		return 3, KeyEvent{Code: KeyEnter}
	}
	if r, ok := keypadRunes[final]; ok {
		return 3, KeyEvent{Code: KeyRune, Rune: r}
	}
	// not SS3 after all; ESC O was Alt+O
	return 2, KeyEvent{Code: KeyRune, Rune: 'O', Mod: ModAlt}
}

// csi scans a control sequence: parameter bytes 0x30-0x3f, intermediate
// bytes 0x20-0x2f, then one final byte 0x40-0x7e.
func (d *Decoder) csi(b []byte) (int, Event) {
	if len(b) < 3 {
		return 0, nil
	}
	if b[2] == 'M' {
		return x10Mouse(b)
	}
	for i := 2; i < len(b); i++ {
		c := b[i]
		switch {
		case c >= 0x20 && c <= 0x3f:
			if i+1 >= MaxSequenceLen {
				return i + 1, UnknownEvent{Bytes: bytes.Clone(b[:i+1])}
			}
		case c >= 0x40 && c <= 0x7e:
			return i + 1, csiEvent(b[:i+1])
		default:
			// malformed: give up the bytes so far and resume at c
			return i, UnknownEvent{Bytes: bytes.Clone(b[:i])}
		}
	}
	return 0, nil
}

func csiEvent(seq []byte) Event {
	unknown := UnknownEvent{Bytes: bytes.Clone(seq)}
	body := seq[2 : len(seq)-1]
	final := seq[len(seq)-1]

	if len(body) > 0 && body[0] == '<' {
		if final != 'M' && final != 'm' {
			return unknown
		}
		p, ok := parseParams(body[1:])
		if !ok || len(p) != 3 {
			return unknown
		}
		return mouseEvent(p[0], p[1]-1, p[2]-1, final == 'm')
	}

	p, ok := parseParams(body)
	if !ok {
		return unknown
	}

	switch final {
	case '~':
		if len(p) == 0 || len(p) > 2 {
			return unknown
		}
		k, ok := tildeKeys[p[0]]
		if !ok {
			return unknown
		}
		ev := KeyEvent{Code: k}
		if len(p) == 2 {
			ev.Mod = modifierParam(p[1])
		}
		return ev
	case 'Z':
		ev := KeyEvent{Code: KeyTab, Mod: ModShift}
		if len(p) == 2 {
			ev.Mod |= modifierParam(p[1])
		}
		return ev
	case 'M':
		// urxvt: CSI cb ; x ; y M
		if len(p) != 3 {
			return unknown
		}
		return mouseEvent(p[0]-32, p[1]-1, p[2]-1, false)
	}

	k, ok := letterKeys[final]
	if !ok {
		return unknown
	}
	switch {
	case len(p) == 0:
		return KeyEvent{Code: k}
	case len(p) == 1 && p[0] <= 1:
		return KeyEvent{Code: k}
	case len(p) == 2 && p[0] == 1:
		return KeyEvent{Code: k, Mod: modifierParam(p[1])}
	}
	return unknown
}

// x10Mouse decodes CSI M cb cx cy, where each value is offset by 32.
func x10Mouse(b []byte) (int, Event) {
	if len(b) < 6 {
		return 0, nil
	}
	cb, cx, cy := int(b[3])-32, int(b[4])-33, int(b[5])-33
	if cb < 0 || cx < 0 || cy < 0 {
		return 6, UnknownEvent{Bytes: bytes.Clone(b[:6])}
	}
	return 6, mouseEvent(cb, cx, cy, false)
}

// mouseEvent decodes an xterm button code: low two bits select the button,
// 4/8/16 are shift/alt/ctrl, 32 is motion, 64 the wheel and 128 the extra
// buttons.
func mouseEvent(code, x, y int, release bool) MouseEvent {
	ev := MouseEvent{X: max(x, 0), Y: max(y, 0)}
	if code&4 != 0 {
		ev.Mod |= ModShift
	}
	if code&8 != 0 {
		ev.Mod |= ModAlt
	}
	if code&16 != 0 {
		ev.Mod |= ModCtrl
	}

	low := code & 3
	switch {
	case code&64 != 0:
		ev.Kind = MouseScroll
		ev.Button = [...]MouseButton{ButtonWheelUp, ButtonWheelDown, ButtonWheelLeft, ButtonWheelRight}[low]
		return ev
	case code&128 != 0:
		ev.Button = [...]MouseButton{ButtonBack, ButtonForward, ButtonNone, ButtonNone}[low]
	default:
		ev.Button = [...]MouseButton{ButtonLeft, ButtonMiddle, ButtonRight, ButtonNone}[low]
	}

	motion := code&32 != 0
	switch {
	case release:
		ev.Kind = MouseRelease
	case motion && ev.Button == ButtonNone:
		ev.Kind = MouseMove
	case motion:
		ev.Kind = MouseDrag
	case ev.Button == ButtonNone:
		// X10 reports every release as button 3
		ev.Kind = MouseRelease
	default:
		ev.Kind = MousePress
	}
	return ev
}

// parseParams splits semicolon-separated decimal parameters. Empty
// parameters are 0. Anything else (private markers, sub-parameters) fails.
func parseParams(b []byte) ([]int, bool) {
	if len(b) == 0 {
		return nil, true
	}
	var params []int
	for _, field := range bytes.Split(b, []byte{';'}) {
		if len(field) == 0 {
			params = append(params, 0)
			continue
		}
		n, err := strconv.Atoi(string(field))
		if err != nil || n < 0 {
			return nil, false
		}
		params = append(params, n)
	}
	return params, true
}
