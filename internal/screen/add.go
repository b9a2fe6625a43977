package screen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/atomicstack/transmission-tui/internal/backend"
	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/logging/events"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/term"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
)

// Add asks for a magnet link, URL or .torrent path. A path with glob
// metacharacters adds every matching file.
type Add struct {
	env Env

	mu    sync.Mutex
	input textinput.Model
}

// NewAdd builds the add screen.
func NewAdd(env Env) *Add {
	env = env.withDefaults()
	return &Add{env: env, input: newInput(env.Styles, "magnet:?xt=… / https://… / ~/Downloads/*.torrent")}
}

// Value returns the current input.
func (a *Add) Value() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.input.Value()
}

func (a *Add) Render(f *term.Frame) {
	a.mu.Lock()
	view := a.input.View()
	a.mu.Unlock()

	w, _ := innerSize(f)
	paint(f, a.env.Styles, page{
		title: "Add torrent",
		body: []string{
			a.env.Styles.Label.Render("Magnet link, URL or path to a .torrent file:"),
			"",
			view,
		},
		footer: footer(a.env.Keys, w, []key.Binding{enterKey, backKey}, keymap.Home, keymap.Help),
	})
}

func (a *Add) HandleKey(ev input.KeyEvent) nav.Result {
	switch {
	case ev.Pressed() && ev.Code == input.CodeEsc:
		a.reset()
		return nav.PopToParent
	case ev.Pressed() && ev.Code == input.CodeEnter:
		source := strings.TrimSpace(a.Value())
		a.reset()
		if source != "" {
			a.add(source)
		}
		return nav.PopToParent
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if feed(&a.input, ev) {
		return nav.Consumed
	}
	return nav.Unhandled
}

func (a *Add) add(source string) {
	sources, err := backend.ExpandSources(source)
	if err != nil {
		report(fmt.Errorf("add %q: %w", source, err))
		return
	}
	for _, s := range sources {
		if err := a.env.Backend.Add(a.env.Ctx, s); err != nil {
			report(err)
			continue
		}
		events.Action.Success("added " + s)
	}
}

func (a *Add) reset() {
	a.mu.Lock()
	a.input.Reset()
	a.mu.Unlock()
}
