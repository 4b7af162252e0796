package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	for in, want := range map[string]KeyEvent{
		"q":               char('q'),
		"Q":               char('Q'),
		"ctrl+c":          {Code: KeyRune, Rune: 'c', Mod: ModCtrl},
		"Ctrl-C":          {Code: KeyRune, Rune: 'c', Mod: ModCtrl},
		"ctrl+alt+delete": {Code: KeyDelete, Mod: ModCtrl | ModAlt},
		"shift+PageUp":    {Code: KeyPageUp, Mod: ModShift},
		"page_down":       key(KeyPageDown),
		"Page Down":       key(KeyPageDown),
		"esc":             key(KeyEscape),
		"Escape":          key(KeyEscape),
		"F12":             key(KeyF12),
		"alt-enter":       {Code: KeyEnter, Mod: ModAlt},
		"ctrl+space":      {Code: KeyRune, Rune: ' ', Mod: ModCtrl},
		"ctrl++":          {Code: KeyRune, Rune: '+', Mod: ModCtrl},
		"-":               char('-'),
	} {
		got, err := ParseKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseKeyErrors(t *testing.T) {
	for _, in := range []string{"", "  ", "hyper+x", "ctrl+nosuchkey"} {
		_, err := ParseKey(in)
		assert.Error(t, err, in)
	}
}

func TestKeyStringRoundTrip(t *testing.T) {
	for _, ev := range []KeyEvent{
		key(KeyUp),
		key(KeyF5),
		{Code: KeyTab, Mod: ModShift},
		{Code: KeyRune, Rune: 'x', Mod: ModCtrl | ModAlt},
		{Code: KeyRune, Rune: ' ', Mod: ModCtrl},
		{Code: KeyPageDown, Mod: ModCtrl | ModAlt | ModShift},
		char('é'),
	} {
		parsed, err := ParseKey(ev.String())
		require.NoError(t, err, ev.String())
		assert.Equal(t, ev, parsed, ev.String())
	}
}

func TestEventStrings(t *testing.T) {
	assert.Equal(t, "ctrl+alt+x", KeyEvent{Code: KeyRune, Rune: 'x', Mod: ModCtrl | ModAlt}.String())
	assert.Equal(t, "shift+tab", KeyEvent{Code: KeyTab, Mod: ModShift}.String())
	assert.Equal(t, "mouse press left at 3,4", MouseEvent{Kind: MousePress, Button: ButtonLeft, X: 3, Y: 4}.String())
	assert.Equal(t, "ctrl+mouse scroll wheel-up at 0,0", MouseEvent{Kind: MouseScroll, Button: ButtonWheelUp, Mod: ModCtrl}.String())
	assert.Equal(t, "resize 80x24", ResizeEvent{Cols: 80, Rows: 24}.String())
	assert.Equal(t, `unknown "\x1b[99z"`, unknown("\x1b[99z").String())
}
