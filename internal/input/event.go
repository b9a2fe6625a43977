// Package input defines the terminal-independent events consumed by the
// navigation router and the screens.
package input

import (
	"context"
	"strings"
	"unicode"
)

// Kind distinguishes press, repeat and release notifications.
type Kind int

const (
	KindPress Kind = iota
	KindRepeat
	KindRelease
)

func (k Kind) String() string {
	switch k {
	case KindRepeat:
		return "repeat"
	case KindRelease:
		return "release"
	default:
		return "press"
	}
}

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Code identifies the key. Printable characters use CodeRune together with
// KeyEvent.Rune.
type Code int

const (
	CodeRune Code = iota
	CodeEnter
	CodeEsc
	CodeBackspace
	CodeTab
	CodeBackTab
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
	CodeHome
	CodeEnd
	CodePageUp
	CodePageDown
	CodeDelete
	CodeSpace
)

var codeNames = map[Code]string{
	CodeEnter:     "enter",
	CodeEsc:       "esc",
	CodeBackspace: "backspace",
	CodeTab:       "tab",
	CodeBackTab:   "shift+tab",
	CodeUp:        "up",
	CodeDown:      "down",
	CodeLeft:      "left",
	CodeRight:     "right",
	CodeHome:      "home",
	CodeEnd:       "end",
	CodePageUp:    "pgup",
	CodePageDown:  "pgdown",
	CodeDelete:    "delete",
	CodeSpace:     " ",
}

// Event is anything read from a Source. The router only acts on KeyEvent.
type Event interface{}

// KeyEvent is one keyboard notification.
type KeyEvent struct {
	Code Code
	Rune rune
	Mods Modifiers
	Kind Kind
}

// ResizeEvent reports new terminal dimensions.
type ResizeEvent struct {
	Width  int
	Height int
}

// Source is a blocking reader of input events.
type Source interface {
	ReadEvent(ctx context.Context) (Event, error)
}

// Key builds a plain key press.
func Key(code Code) KeyEvent {
	return KeyEvent{Code: code}
}

// Char builds a printable character press.
func Char(r rune) KeyEvent {
	ev := KeyEvent{Code: CodeRune, Rune: r}
	if unicode.IsUpper(r) {
		ev.Mods |= ModShift
	}
	return ev
}

// Ctrl builds a control-modified character press.
func Ctrl(r rune) KeyEvent {
	return KeyEvent{Code: CodeRune, Rune: unicode.ToLower(r), Mods: ModCtrl}
}

// Text expands a string into a sequence of character presses.
func Text(s string) []KeyEvent {
	out := make([]KeyEvent, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			out = append(out, KeyEvent{Code: CodeSpace, Rune: ' '})
			continue
		}
		out = append(out, Char(r))
	}
	return out
}

// Ctrl reports whether the control modifier is held.
func (e KeyEvent) Ctrl() bool { return e.Mods&ModCtrl != 0 }

// Alt reports whether the alt modifier is held.
func (e KeyEvent) Alt() bool { return e.Mods&ModAlt != 0 }

// Pressed reports whether the event is a press.
func (e KeyEvent) Pressed() bool { return e.Kind == KindPress }

// IsRune reports whether the event is the given printable character with no
// control modifier.
func (e KeyEvent) IsRune(r rune) bool {
	return e.Code == CodeRune && !e.Ctrl() && e.Rune == r
}

// String renders the event the way key help labels are written, e.g. "ctrl+a".
func (e KeyEvent) String() string {
	var b strings.Builder
	if e.Ctrl() {
		b.WriteString("ctrl+")
	}
	if e.Alt() {
		b.WriteString("alt+")
	}
	if e.Code == CodeRune {
		b.WriteRune(e.Rune)
		return b.String()
	}
	if name, ok := codeNames[e.Code]; ok {
		b.WriteString(name)
		return b.String()
	}
	b.WriteString("unknown")
	return b.String()
}
