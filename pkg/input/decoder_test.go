package input

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced by hand so timeout tests never sleep.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func key(k Key) KeyEvent { return KeyEvent{Code: k} }

func char(r rune) KeyEvent { return KeyEvent{Code: KeyRune, Rune: r} }

func unknown(s string) UnknownEvent { return UnknownEvent{Bytes: []byte(s)} }

func decodeAll(input string) []Event {
	d := NewDecoder()
	return append(d.Decode([]byte(input)), d.Flush()...)
}

func TestDecodeCursorUp(t *testing.T) {
	d := NewDecoder()
	events := d.Decode([]byte("\x1b[A"))
	assert.Equal(t, []Event{key(KeyUp)}, events)
	assert.Zero(t, d.Buffered())
}

func TestLoneEscapeAfterTimeout(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	d := NewDecoder(WithClock(clock.now))

	assert.Empty(t, d.Decode([]byte("\x1b")))
	assert.Equal(t, 1, d.Buffered())

	deadline, ok := d.Deadline()
	require.True(t, ok)
	assert.Equal(t, clock.t.Add(DefaultEscapeTimeout), deadline)

	clock.advance(DefaultEscapeTimeout / 2)
	assert.Empty(t, d.Expire(), "still waiting for the rest of a sequence")

	clock.advance(DefaultEscapeTimeout / 2)
	assert.Equal(t, []Event{key(KeyEscape)}, d.Expire())
	assert.Zero(t, d.Buffered())

	_, ok = d.Deadline()
	assert.False(t, ok)
}

func TestEscapeCompletedBeforeTimeout(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	d := NewDecoder(WithClock(clock.now), WithEscapeTimeout(10*time.Millisecond))

	assert.Empty(t, d.Decode([]byte("\x1b")))
	clock.advance(5 * time.Millisecond)
	assert.Equal(t, []Event{key(KeyUp)}, d.Decode([]byte("[A")))

	clock.advance(time.Second)
	assert.Empty(t, d.Expire())
}

func TestSplitAnywhere(t *testing.T) {
	inputs := []string{
		"hello",
		"\x1b[A\x1b[1;5C",
		"\x1b[<0;10;5M\x1b[<0;10;5m",
		"\x1b[M !!x",
		"héllo ✓",
		"\x1bx\x1b\x7f",
		"\x1b[3~\x1b[15;2~",
		"\x1bOP\x1bOA",
		"\x1b[12\x1b[A",
		"\x1b[999zq",
		"\x03\x1b[Z",
		"\x1b\x1b",
		"a\xffb",
		"\x1bé",
		"\x1b[32;5;6M",
	}

	for _, in := range inputs {
		want := decodeAll(in)
		for i := 0; i <= len(in); i++ {
			d := NewDecoder()
			got := d.Decode([]byte(in[:i]))
			got = append(got, d.Decode([]byte(in[i:]))...)
			got = append(got, d.Flush()...)
			require.Equal(t, want, got, "input %q split at %d", in, i)
		}
	}
}

func TestMalformedKeepsRemainder(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []Event
	}{
		{
			"\x1b[12\x1b[Ax",
			[]Event{unknown("\x1b[12"), key(KeyUp), char('x')},
		},
		{
			"\x1b[1;\x07y",
			[]Event{unknown("\x1b[1;"), KeyEvent{Code: KeyRune, Rune: 'g', Mod: ModCtrl}, char('y')},
		},
		{
			"\x1b[99zq",
			[]Event{unknown("\x1b[99z"), char('q')},
		},
		{
			"\x1b[<1;a;3Mz",
			[]Event{unknown("\x1b[<1;a"), char(';'), char('3'), char('M'), char('z')},
		},
		{
			"a\xffb",
			[]Event{char('a'), unknown("\xff"), char('b')},
		},
	} {
		assert.Equal(t, tc.want, decodeAll(tc.in), "%q", tc.in)
	}
}

func TestOverlongSequence(t *testing.T) {
	in := "\x1b[" + strings.Repeat("1", 70) + "A"
	events := decodeAll(in)

	require.NotEmpty(t, events)
	first, ok := events[0].(UnknownEvent)
	require.True(t, ok)
	assert.Len(t, first.Bytes, MaxSequenceLen)

	var rest []Event
	for range 8 {
		rest = append(rest, char('1'))
	}
	rest = append(rest, char('A'))
	assert.Equal(t, rest, events[1:])
}

func TestKeys(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want KeyEvent
	}{
		{"\x01", KeyEvent{Code: KeyRune, Rune: 'a', Mod: ModCtrl}},
		{"\x00", KeyEvent{Code: KeyRune, Rune: ' ', Mod: ModCtrl}},
		{"\x1c", KeyEvent{Code: KeyRune, Rune: '\\', Mod: ModCtrl}},
		{"\t", key(KeyTab)},
		{"\r", key(KeyEnter)},
		{"\x7f", key(KeyBackspace)},
		{"é", char('é')},
		{"\x1bx", KeyEvent{Code: KeyRune, Rune: 'x', Mod: ModAlt}},
		{"\x1b\r", KeyEvent{Code: KeyEnter, Mod: ModAlt}},
		{"\x1b\x1b", KeyEvent{Code: KeyEscape, Mod: ModAlt}},
		{"\x1b[1;5A", KeyEvent{Code: KeyUp, Mod: ModCtrl}},
		{"\x1b[1;3D", KeyEvent{Code: KeyLeft, Mod: ModAlt}},
		{"\x1b[H", key(KeyHome)},
		{"\x1b[5~", key(KeyPageUp)},
		{"\x1b[3;2~", KeyEvent{Code: KeyDelete, Mod: ModShift}},
		{"\x1b[15;2~", KeyEvent{Code: KeyF5, Mod: ModShift}},
		{"\x1b[24~", key(KeyF12)},
		{"\x1bOP", key(KeyF1)},
		{"\x1bOM", key(KeyEnter)},
		{"\x1bOq", char('1')},
		{"\x1b[Z", KeyEvent{Code: KeyTab, Mod: ModShift}},
	} {
		assert.Equal(t, []Event{tc.want}, decodeAll(tc.in), "%q", tc.in)
	}
}

func TestMouse(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want MouseEvent
	}{
		{"\x1b[<0;10;5M", MouseEvent{Kind: MousePress, Button: ButtonLeft, X: 9, Y: 4}},
		{"\x1b[<2;1;1m", MouseEvent{Kind: MouseRelease, Button: ButtonRight}},
		{"\x1b[<32;3;4M", MouseEvent{Kind: MouseDrag, Button: ButtonLeft, X: 2, Y: 3}},
		{"\x1b[<35;3;4M", MouseEvent{Kind: MouseMove, Button: ButtonNone, X: 2, Y: 3}},
		{"\x1b[<64;1;1M", MouseEvent{Kind: MouseScroll, Button: ButtonWheelUp}},
		{"\x1b[<65;1;1M", MouseEvent{Kind: MouseScroll, Button: ButtonWheelDown}},
		{"\x1b[<17;2;2M", MouseEvent{Kind: MousePress, Button: ButtonMiddle, X: 1, Y: 1, Mod: ModCtrl}},
		{"\x1b[<128;5;5M", MouseEvent{Kind: MousePress, Button: ButtonBack, X: 4, Y: 4}},
		{"\x1b[M !!", MouseEvent{Kind: MousePress, Button: ButtonLeft}},
		{"\x1b[M#**", MouseEvent{Kind: MouseRelease, Button: ButtonNone, X: 9, Y: 9}},
		{"\x1b[32;5;6M", MouseEvent{Kind: MousePress, Button: ButtonLeft, X: 4, Y: 5}},
	} {
		assert.Equal(t, []Event{tc.want}, decodeAll(tc.in), "%q", tc.in)
	}
}

func TestFlushHeldPrefix(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []Event
	}{
		{"\x1b", []Event{key(KeyEscape)}},
		{"\x1b[", []Event{KeyEvent{Code: KeyRune, Rune: '[', Mod: ModAlt}}},
		{"\x1bO", []Event{KeyEvent{Code: KeyRune, Rune: 'O', Mod: ModAlt}}},
		{"\x1b[1;", []Event{unknown("\x1b[1;")}},
		{"\x1b[<0;1", []Event{unknown("\x1b[<0;1")}},
		{"\xe2\x82", []Event{unknown("\xe2\x82")}},
		{"\x1b\xe2", []Event{key(KeyEscape), unknown("\xe2")}},
	} {
		d := NewDecoder()
		assert.Empty(t, d.Decode([]byte(tc.in)), "%q", tc.in)
		assert.Equal(t, tc.want, d.Flush(), "%q", tc.in)
		assert.Zero(t, d.Buffered())
	}
}

func TestUnknownBytesAreCopied(t *testing.T) {
	d := NewDecoder()
	chunk := []byte("\x1b[99z")
	events := d.Decode(chunk)
	chunk[2] = 'X'
	assert.Equal(t, []Event{unknown("\x1b[99z")}, events)
}
