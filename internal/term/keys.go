package term

import (
	"unicode"

	"github.com/atomicstack/transmission-tui/internal/input"
	tea "github.com/charmbracelet/bubbletea"
)

var specialKeys = map[tea.KeyType]input.Code{
	tea.KeyEnter:     input.CodeEnter,
	tea.KeyEsc:       input.CodeEsc,
	tea.KeyBackspace: input.CodeBackspace,
	tea.KeyTab:       input.CodeTab,
	tea.KeyShiftTab:  input.CodeBackTab,
	tea.KeyUp:        input.CodeUp,
	tea.KeyDown:      input.CodeDown,
	tea.KeyLeft:      input.CodeLeft,
	tea.KeyRight:     input.CodeRight,
	tea.KeyHome:      input.CodeHome,
	tea.KeyEnd:       input.CodeEnd,
	tea.KeyPgUp:      input.CodePageUp,
	tea.KeyPgDown:    input.CodePageDown,
	tea.KeyDelete:    input.CodeDelete,
	tea.KeySpace:     input.CodeSpace,
}

// FromTea converts a Bubble Tea key message. Legacy terminals fold ctrl+i,
// ctrl+m and ctrl+[ into tab, enter and escape, so those chords are reported
// as the plain keys. Bubble Tea only delivers presses.
func FromTea(msg tea.KeyMsg) (input.KeyEvent, bool) {
	ev := input.KeyEvent{Kind: input.KindPress}
	if msg.Alt {
		ev.Mods |= input.ModAlt
	}
	if code, ok := specialKeys[msg.Type]; ok {
		ev.Code = code
		if code == input.CodeSpace {
			ev.Rune = ' '
		}
		return ev, true
	}
	if msg.Type == tea.KeyRunes {
		if len(msg.Runes) != 1 {
			return ev, false
		}
		ev.Code = input.CodeRune
		ev.Rune = msg.Runes[0]
		if unicode.IsUpper(ev.Rune) {
			ev.Mods |= input.ModShift
		}
		return ev, true
	}
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		ev.Code = input.CodeRune
		ev.Rune = rune('a' + int(msg.Type-tea.KeyCtrlA))
		ev.Mods |= input.ModCtrl
		return ev, true
	}
	return ev, false
}

var reverseKeys = func() map[input.Code]tea.KeyType {
	out := make(map[input.Code]tea.KeyType, len(specialKeys))
	for k, v := range specialKeys {
		out[v] = k
	}
	return out
}()

// ToTea converts an event back into a Bubble Tea key message so it can be fed
// to bubbles components.
func ToTea(ev input.KeyEvent) tea.KeyMsg {
	if kt, ok := reverseKeys[ev.Code]; ok {
		msg := tea.KeyMsg{Type: kt, Alt: ev.Alt()}
		if kt == tea.KeySpace {
			msg.Runes = []rune{' '}
		}
		return msg
	}
	if ev.Ctrl() {
		r := unicode.ToLower(ev.Rune)
		if r >= 'a' && r <= 'z' {
			return tea.KeyMsg{Type: tea.KeyCtrlA + tea.KeyType(r-'a'), Alt: ev.Alt()}
		}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{ev.Rune}, Alt: ev.Alt()}
}
