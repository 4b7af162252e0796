package input

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// Key identifies a key. Printable input uses KeyRune.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune

	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyBegin
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = [...]string{
	KeyNone:      "none",
	KeyRune:      "rune",
	KeyEscape:    "esc",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyBegin:     "begin",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", uint8(k))
}

// keyAliases maps normalised names (lowercase, no separators) to keys.
var keyAliases = map[string]Key{
	"escape":     KeyEscape,
	"return":     KeyEnter,
	"del":        KeyDelete,
	"ins":        KeyInsert,
	"pageup":     KeyPageUp,
	"pagedown":   KeyPageDown,
	"pgdn":       KeyPageDown,
	"arrowup":    KeyUp,
	"arrowdown":  KeyDown,
	"arrowleft":  KeyLeft,
	"arrowright": KeyRight,
}

var runeAliases = map[string]rune{
	"space": ' ',
	"plus":  '+',
	"minus": '-',
}

var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"meta":    ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
}

func init() {
	for k, name := range keyNames {
		if Key(k) > KeyRune {
			keyAliases[name] = Key(k)
		}
	}
}

func runeName(r rune) string {
	if r == ' ' {
		return "space"
	}
	return string(r)
}

// normalizeName folds the spellings "PageDown", "page_down", "Page Down" and
// "page-down" to "pagedown".
func normalizeName(s string) string {
	return strings.ReplaceAll(strcase.ToSnake(s), "_", "")
}

// ParseKey parses a chord such as "ctrl+c", "Alt-Enter" or "shift+PageUp"
// into the KeyEvent the decoder produces for it. Modifiers may be joined with
// '+' or '-'. A single character names itself and keeps its case.
func ParseKey(s string) (KeyEvent, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return KeyEvent{}, fmt.Errorf("empty key")
	}

	var ev KeyEvent
	rest := s
	for {
		i := strings.IndexAny(rest, "+-")
		if i <= 0 || i == len(rest)-1 {
			break
		}
		mod, ok := modifierNames[normalizeName(rest[:i])]
		if !ok {
			break
		}
		ev.Mod |= mod
		rest = rest[i+1:]
	}

	if utf8.RuneCountInString(rest) == 1 {
		r, _ := utf8.DecodeRuneInString(rest)
		if ev.Mod&ModCtrl != 0 && r >= 'A' && r <= 'Z' {
			// control bytes carry no case
			r += 'a' - 'A'
		}
		ev.Code = KeyRune
		ev.Rune = r
		return ev, nil
	}

	name := normalizeName(rest)
	if r, ok := runeAliases[name]; ok {
		ev.Code = KeyRune
		ev.Rune = r
		return ev, nil
	}
	if k, ok := keyAliases[name]; ok {
		ev.Code = k
		return ev, nil
	}
	return KeyEvent{}, fmt.Errorf("unknown key %q in %q", rest, s)
}

// letterKeys maps CSI and SS3 final bytes to keys.
var letterKeys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'E': KeyBegin,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

// tildeKeys maps the numeric parameter of CSI n ~ to keys.
var tildeKeys = map[int]Key{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	7:  KeyHome,
	8:  KeyEnd,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// keypadRunes covers SS3 application keypad keys that produce characters.
var keypadRunes = map[byte]rune{
	'j': '*', 'k': '+', 'l': ',', 'm': '-', 'n': '.', 'o': '/',
	'p': '0', 'q': '1', 'r': '2', 's': '3', 't': '4',
	'u': '5', 'v': '6', 'w': '7', 'x': '8', 'y': '9',
	'X': '=',
}

// controlKey decodes a C0 control byte or DEL.
func controlKey(c byte) KeyEvent {
	switch c {
	case 0x00:
		return KeyEvent{Code: KeyRune, Rune: ' ', Mod: ModCtrl}
	case 0x08, 0x7f:
		return KeyEvent{Code: KeyBackspace}
	case 0x09:
		return KeyEvent{Code: KeyTab}
	case 0x0a, 0x0d:
		return KeyEvent{Code: KeyEnter}
	case 0x1b:
		return KeyEvent{Code: KeyEscape}
	}
	if c <= 0x1a {
		return KeyEvent{Code: KeyRune, Rune: rune('a' + c - 1), Mod: ModCtrl}
	}
	// 0x1c..0x1f: ctrl+\ ] ^ _
	return KeyEvent{Code: KeyRune, Rune: rune(c + 0x40), Mod: ModCtrl}
}
