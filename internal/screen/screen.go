// Package screen holds the dashboard's screens. Each screen is a nav.View
// and a nav.KeyHandler. Screens that are redrawn by a refresh worker guard
// their state with a mutex because Render then runs off the router
// goroutine.
package screen

import (
	"context"

	"github.com/atomicstack/transmission-tui/internal/backend"
	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/logging"
	"github.com/atomicstack/transmission-tui/internal/logging/events"
	"github.com/atomicstack/transmission-tui/internal/search"
	"github.com/atomicstack/transmission-tui/internal/term"
	"github.com/atomicstack/transmission-tui/internal/theme"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Searcher is the search capability consumed by the search screens.
type Searcher interface {
	Search(ctx context.Context, term string) ([]search.Candidate, error)
	Detail(ctx context.Context, c search.Candidate) (search.Candidate, error)
}

// Env carries the collaborators shared by every screen.
type Env struct {
	// Ctx bounds every backend and search call issued by a screen.
	Ctx      context.Context
	Backend  backend.Backend
	Searcher Searcher
	Keys     keymap.Map
	Styles   *theme.Styles
	// Host is shown in the Home title.
	Host string

	Copy func(text string) error
	Open func(ctx context.Context, dir string) error
}

func (e Env) withDefaults() Env {
	if e.Ctx == nil {
		e.Ctx = context.Background()
	}
	if e.Styles == nil {
		e.Styles = theme.Default()
	}
	if e.Keys == (keymap.Map{}) {
		e.Keys = keymap.Default()
	}
	if e.Copy == nil {
		e.Copy = clipboard.WriteAll
	}
	if e.Open == nil {
		e.Open = func(ctx context.Context, dir string) error {
			return backend.OpenLocation(ctx, backend.ExecRunner, dir)
		}
	}
	return e
}

// report logs a failed side effect. The handler contract carries no errors,
// so this is the only trace a failed call leaves.
func report(err error) {
	if err == nil {
		return
	}
	events.Action.Error(err)
	logging.Error(err)
}

// teaKey converts an event for bubbles components.
func teaKey(ev input.KeyEvent) tea.KeyMsg {
	return term.ToTea(ev)
}

// typing reports whether ev should reach a text input. Repeats count as
// typing; releases never do.
func typing(ev input.KeyEvent) bool {
	return ev.Kind == input.KindPress || ev.Kind == input.KindRepeat
}

// isMove maps list navigation keys to a cursor delta.
func isMove(ev input.KeyEvent) (delta int, ok bool) {
	switch {
	case ev.Code == input.CodeDown, ev.IsRune('j'):
		return 1, true
	case ev.Code == input.CodeUp, ev.IsRune('k'):
		return -1, true
	}
	return 0, false
}
