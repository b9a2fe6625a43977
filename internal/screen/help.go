package screen

import (
	"strings"

	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/term"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// Help lists every binding grouped by where it applies.
type Help struct {
	env Env
}

// NewHelp builds the help screen.
func NewHelp(env Env) *Help {
	return &Help{env: env.withDefaults()}
}

func (h *Help) Render(f *term.Frame) {
	st := h.env.Styles
	keys := h.env.Keys
	w, _ := innerSize(f)
	model := help.New()
	model.Width = w

	groups := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Everywhere", keys.Bindings(keymap.Globals...)},
		{"Torrent list", append(keys.Bindings(keymap.HomeScope...), moveKeys, pageKeys, startKey, stopKey)},
		{"Search results", append(keys.Bindings(keymap.ResultsScope...), moveKeys)},
		{"Forms and details", []key.Binding{enterKey, backKey, toggleKey, scrollKeys}},
	}
	var body []string
	for _, g := range groups {
		body = append(body, st.Header.Render(g.title))
		for _, line := range strings.Split(model.FullHelpView([][]key.Binding{g.bindings}), "\n") {
			body = append(body, "  "+line)
		}
		body = append(body, "")
	}
	paint(f, st, page{
		title:  "Help",
		body:   body,
		footer: footer(keys, w, []key.Binding{backKey}, keymap.Home, keymap.Quit),
	})
}

func (h *Help) HandleKey(ev input.KeyEvent) nav.Result {
	if ev.Pressed() && ev.Code == input.CodeEsc {
		return nav.PopToParent
	}
	return nav.Consumed
}

// Popup is reserved for messages. It draws nothing and ignores input.
type Popup struct{}

func (Popup) Render(f *term.Frame) { f.SetView("") }

func (Popup) HandleKey(input.KeyEvent) nav.Result { return nav.Consumed }
