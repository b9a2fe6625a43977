package nav

import (
	"fmt"
	"strings"
)

// Screen is one of the mutually exclusive UI modes.
type Screen int

const (
	Home Screen = iota
	Help
	Add
	Reannounce
	Remove
	Info
	Search
	SearchResults
	SearchInfo
	Popup
	screenCount
)

// NoParent marks screens a PopToParent result cannot leave.
const NoParent Screen = -1

var screenNames = [screenCount]string{
	Home:          "home",
	Help:          "help",
	Add:           "add",
	Reannounce:    "reannounce",
	Remove:        "remove",
	Info:          "info",
	Search:        "search",
	SearchResults: "search-results",
	SearchInfo:    "search-info",
	Popup:         "popup",
}

var parents = [screenCount]Screen{
	Home:          NoParent,
	Help:          Home,
	Add:           Home,
	Reannounce:    Home,
	Remove:        Home,
	Info:          Home,
	Search:        SearchResults,
	SearchResults: NoParent,
	SearchInfo:    SearchResults,
	Popup:         NoParent,
}

// Screens lists every mode in declaration order.
func Screens() []Screen {
	out := make([]Screen, 0, screenCount)
	for s := Screen(0); s < screenCount; s++ {
		out = append(out, s)
	}
	return out
}

func (s Screen) String() string {
	if !s.valid() {
		return fmt.Sprintf("screen(%d)", int(s))
	}
	return screenNames[s]
}

// Parent is the screen a finished interaction returns to.
func (s Screen) Parent() Screen {
	if !s.valid() {
		return NoParent
	}
	return parents[s]
}

// Refreshes reports whether the screen shows live data and is redrawn by a
// background worker while it is active.
func (s Screen) Refreshes() bool {
	return s == Home || s == Info
}

func (s Screen) valid() bool {
	return s >= 0 && s < screenCount
}

// ParseScreen resolves a screen name as accepted on the command line.
func ParseScreen(name string) (Screen, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	if n == "" {
		return Home, nil
	}
	for s := Screen(0); s < screenCount; s++ {
		if screenNames[s] == n || strings.ReplaceAll(screenNames[s], "-", "") == n {
			return s, nil
		}
	}
	return Home, fmt.Errorf("unknown screen %q", name)
}

// AppState is the router-owned navigation state.
type AppState struct {
	Screen       Screen
	PopupMessage string
}
