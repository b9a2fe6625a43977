// Package nav implements the screen state machine: a single loop that draws
// the active screen, reads one key, applies hotkeys and dispatches the key to
// the active screen's handler.
package nav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/logging"
	"github.com/atomicstack/transmission-tui/internal/logging/events"
	"github.com/atomicstack/transmission-tui/internal/refresh"
	"github.com/atomicstack/transmission-tui/internal/term"
)

var globalTargets = map[keymap.Action]Screen{
	keymap.Home:   Home,
	keymap.Add:    Add,
	keymap.Search: Search,
	keymap.Help:   Help,
}

type spawnFunc func(ctx context.Context, d refresh.Drawer, name string, paint func(*term.Frame), interval time.Duration) *refresh.Session

// Router owns AppState. All of its methods run on the goroutine that called
// Run; only the refresh worker it spawns touches the terminal concurrently.
type Router struct {
	state    AppState
	routes   map[Screen]Route
	keys     keymap.Map
	terminal refresh.Drawer
	input    input.Source
	interval time.Duration

	session *refresh.Session
	spawn   spawnFunc
}

// Option customises a Router.
type Option func(*Router)

// WithInterval sets the refresh cadence for live screens.
func WithInterval(d time.Duration) Option {
	return func(r *Router) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithInitialScreen starts the loop somewhere other than Home.
func WithInitialScreen(s Screen) Option {
	return func(r *Router) {
		if s.valid() {
			r.state.Screen = s
		}
	}
}

// New builds a router. Screens missing from routes draw an empty frame and
// ignore keys.
func New(terminal refresh.Drawer, src input.Source, keys keymap.Map, routes map[Screen]Route, opts ...Option) *Router {
	r := &Router{
		state:    AppState{Screen: Home},
		routes:   routes,
		keys:     keys,
		terminal: terminal,
		input:    src,
		interval: refresh.DefaultInterval,
		spawn:    refresh.Start,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the navigation state. It is only meaningful on the router
// goroutine or after Run returned.
func (r *Router) State() AppState {
	return r.state
}

// Run loops until the quit hotkey, input exhaustion, or ctx cancellation.
// The live refresh worker, if any, is cancelled and joined before returning.
func (r *Router) Run(ctx context.Context) error {
	defer r.stopRefresh()
	for {
		r.draw(ctx)

		ev, err := r.input.ReadEvent(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		key, ok := ev.(input.KeyEvent)
		if !ok {
			continue
		}
		// Home keeps its worker through in-screen keys; any other live
		// screen stops redrawing before the key can change what is shown.
		if r.state.Screen != Home {
			r.cancelRefresh()
		}
		if r.dispatch(key) {
			return nil
		}
	}
}

// draw either hands the active screen to a fresh refresh worker or paints
// it once in the foreground. The previous worker is always told to stop
// first so two workers never target the same screen.
func (r *Router) draw(ctx context.Context) {
	screen := r.state.Screen
	route := r.routes[screen]
	r.cancelRefresh()
	if route.Prepare != nil {
		route.Prepare()
	}
	paint := painter(route)
	if screen.Refreshes() {
		r.session = r.spawn(ctx, r.terminal, screen.String(), paint, r.interval)
		return
	}
	if err := r.terminal.DrawContext(ctx, paint); err != nil && ctx.Err() == nil {
		logging.Error(fmt.Errorf("draw %s: %w", screen, err))
	}
}

func painter(route Route) func(*term.Frame) {
	if route.View == nil {
		return func(f *term.Frame) { f.SetView("") }
	}
	return route.View.Render
}

// dispatch applies one key and reports whether the loop should end.
func (r *Router) dispatch(ev input.KeyEvent) bool {
	from := r.state.Screen
	route := r.routes[from]
	events.Nav.Key(from.String(), ev.String(), ev.Kind.String())

	if ev.Pressed() && ev.Ctrl() {
		for _, sc := range route.Shortcuts {
			if !r.keys.Matches(sc.Action, ev.Rune) {
				continue
			}
			events.Nav.Hotkey(from.String(), sc.Action.String())
			if sc.Before != nil {
				sc.Before()
			}
			r.switchTo(sc.Target, "shortcut:"+sc.Action.String())
			return false
		}
		if action, ok := r.keys.Global(ev.Rune); ok {
			events.Nav.Hotkey(from.String(), action.String())
			if action == keymap.Quit {
				return true
			}
			r.switchTo(globalTargets[action], "hotkey:"+action.String())
			return false
		}
	}

	if route.Handler == nil {
		return false
	}
	if route.Handler.HandleKey(ev) == PopToParent {
		if parent := from.Parent(); parent != NoParent {
			r.switchTo(parent, "done")
		}
	}
	return false
}

func (r *Router) switchTo(to Screen, cause string) {
	if to == r.state.Screen {
		return
	}
	events.Nav.Transition(r.state.Screen.String(), to.String(), cause)
	r.state.Screen = to
}

func (r *Router) cancelRefresh() {
	r.session.Cancel()
}

func (r *Router) stopRefresh() {
	r.session.Cancel()
	r.session.Wait()
}
