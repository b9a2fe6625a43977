package nav

import (
	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/term"
)

// Result tells the router what a handler did with a key.
type Result int

const (
	// Consumed keeps the screen active.
	Consumed Result = iota
	// PopToParent finishes the screen's interaction.
	PopToParent
	// Unhandled keeps the screen active; the key meant nothing to it.
	Unhandled
)

func (r Result) String() string {
	switch r {
	case PopToParent:
		return "pop"
	case Unhandled:
		return "unhandled"
	default:
		return "consumed"
	}
}

// KeyHandler reacts to one key event.
type KeyHandler interface {
	HandleKey(ev input.KeyEvent) Result
}

// View paints a screen into a frame.
type View interface {
	Render(f *term.Frame)
}

// HandlerFunc adapts a function to KeyHandler.
type HandlerFunc func(ev input.KeyEvent) Result

func (f HandlerFunc) HandleKey(ev input.KeyEvent) Result { return f(ev) }

// ViewFunc adapts a function to View.
type ViewFunc func(f *term.Frame)

func (fn ViewFunc) Render(f *term.Frame) { fn(f) }

// Shortcut is a screen-local control chord that switches screens.
type Shortcut struct {
	Action keymap.Action
	Target Screen
	// Before runs on the router goroutine ahead of the switch.
	Before func()
}

// Route binds a screen to its view, handler and local shortcuts.
type Route struct {
	View    View
	Handler KeyHandler
	// Prepare runs on the router goroutine once per loop iteration, ahead
	// of the draw or the worker spawn. Screens use it to pick up data from
	// the screen the user came from.
	Prepare   func()
	Shortcuts []Shortcut
}
