// Package keymap holds the control-key bindings shared by the router and the
// screens. A Map is a value type and is never mutated after configuration has
// been loaded.
package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
)

// Action is a logical command bound to a Ctrl+letter chord.
type Action int

const (
	Home Action = iota
	Add
	Search
	Help
	Quit
	Remove
	Reannounce
	Info
	Open
	Download
	Copy
	actionCount
)

var actionNames = [actionCount]string{
	Home:       "home",
	Add:        "add",
	Search:     "search",
	Help:       "help",
	Quit:       "quit",
	Remove:     "remove",
	Reannounce: "reannounce",
	Info:       "info",
	Open:       "open",
	Download:   "download",
	Copy:       "copy",
}

var actionHelp = [actionCount]string{
	Home:       "home",
	Add:        "add torrent",
	Search:     "search",
	Help:       "help",
	Quit:       "quit",
	Remove:     "remove",
	Reannounce: "reannounce",
	Info:       "info",
	Open:       "open folder",
	Download:   "download",
	Copy:       "copy magnet",
}

// Globals are evaluated by the router before any screen sees the event.
var Globals = []Action{Home, Add, Search, Help, Quit}

// HomeScope lists the bindings only the Home screen reacts to.
var HomeScope = []Action{Remove, Reannounce, Info, Open, Copy}

// ResultsScope lists the bindings only the search results screen reacts to.
var ResultsScope = []Action{Info, Download, Copy}

// Actions returns every action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, actionCount)
	for a := Action(0); a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// Description is the short label used in key hints.
func (a Action) Description() string {
	if a < 0 || a >= actionCount {
		return a.String()
	}
	return actionHelp[a]
}

// ParseAction resolves an action name such as "reannounce".
func ParseAction(name string) (Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a := Action(0); a < actionCount; a++ {
		if actionNames[a] == name {
			return a, true
		}
	}
	return 0, false
}

// Map assigns a lower-case letter to every action.
type Map struct {
	keys [actionCount]rune
}

// Default returns the stock bindings.
func Default() Map {
	var m Map
	m.keys[Home] = 'b'
	m.keys[Add] = 'a'
	m.keys[Search] = 's'
	m.keys[Help] = 'h'
	m.keys[Quit] = 'q'
	m.keys[Remove] = 'd'
	m.keys[Reannounce] = 'r'
	m.keys[Info] = 'g'
	m.keys[Open] = 'o'
	m.keys[Download] = 'd'
	m.keys[Copy] = 'y'
	return m
}

// Rune returns the letter bound to a.
func (m Map) Rune(a Action) rune {
	if a < 0 || a >= actionCount {
		return 0
	}
	return m.keys[a]
}

// With returns a copy of m with a rebound to r.
func (m Map) With(a Action, r rune) Map {
	if a >= 0 && a < actionCount {
		m.keys[a] = unicode.ToLower(r)
	}
	return m
}

// Matches reports whether r triggers a.
func (m Map) Matches(a Action, r rune) bool {
	bound := m.Rune(a)
	return bound != 0 && bound == unicode.ToLower(r)
}

// Global resolves r against the global bindings.
func (m Map) Global(r rune) (Action, bool) {
	for _, a := range Globals {
		if m.Matches(a, r) {
			return a, true
		}
	}
	return 0, false
}

// Label renders the chord for a, e.g. "ctrl+a".
func (m Map) Label(a Action) string {
	return "ctrl+" + string(m.Rune(a))
}

// Binding converts a into a bubbles key binding for help rendering.
func (m Map) Binding(a Action) key.Binding {
	label := m.Label(a)
	return key.NewBinding(key.WithKeys(label), key.WithHelp(label, a.Description()))
}

// Bindings converts several actions at once.
func (m Map) Bindings(actions ...Action) []key.Binding {
	out := make([]key.Binding, 0, len(actions))
	for _, a := range actions {
		out = append(out, m.Binding(a))
	}
	return out
}

// ParseKey accepts "x" or "ctrl+x" and returns the lower-case letter.
func ParseKey(value string) (rune, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.TrimPrefix(v, "ctrl+")
	v = strings.TrimPrefix(v, "c-")
	runes := []rune(v)
	if len(runes) != 1 {
		return 0, fmt.Errorf("key %q must be a single letter", value)
	}
	if runes[0] < 'a' || runes[0] > 'z' {
		return 0, fmt.Errorf("key %q must be an ASCII letter", value)
	}
	return runes[0], nil
}

// foldedChords are ctrl letters the terminal reports as other keys.
var foldedChords = map[rune]string{
	'i': "tab",
	'm': "enter",
}

// Validate rejects unset bindings, chords the terminal cannot deliver and conflicts within a dispatch scope.
// Remove and Download may share a letter because they never share a screen.
func (m Map) Validate() error {
	var errs []error
	for a := Action(0); a < actionCount; a++ {
		r := m.keys[a]
		switch {
		case r < 'a' || r > 'z':
			errs = append(errs, fmt.Errorf("binding for %s must be a letter a-z", a))
		case foldedChords[r] != "":
			errs = append(errs, fmt.Errorf("binding for %s: ctrl+%c arrives as %s and cannot be bound", a, r, foldedChords[r]))
		}
	}
	scopes := []struct {
		name    string
		actions []Action
	}{
		{"home", append(append([]Action(nil), Globals...), HomeScope...)},
		{"search results", append(append([]Action(nil), Globals...), ResultsScope...)},
	}
	for _, scope := range scopes {
		seen := make(map[rune]Action, len(scope.actions))
		for _, a := range scope.actions {
			r := m.keys[a]
			if r == 0 {
				continue
			}
			if prev, ok := seen[r]; ok {
				errs = append(errs, fmt.Errorf("ctrl+%c is bound to both %s and %s on the %s screen", r, prev, a, scope.name))
				continue
			}
			seen[r] = a
		}
	}
	return errors.Join(errs...)
}
