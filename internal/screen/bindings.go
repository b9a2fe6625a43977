package screen

import (
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var (
	moveKeys   = key.NewBinding(key.WithKeys("j", "k", "up", "down"), key.WithHelp("j/k", "move"))
	pageKeys   = key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "page"))
	scrollKeys = key.NewBinding(key.WithKeys("j", "k", "up", "down"), key.WithHelp("j/k", "scroll"))
	startKey   = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start"))
	stopKey    = key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "stop"))
	enterKey   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm"))
	backKey    = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	toggleKey  = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "toggle delete data"))
)

// footer renders one line of key hints: the screen's own keys followed by
// the given chord actions.
func footer(keys keymap.Map, width int, local []key.Binding, actions ...keymap.Action) string {
	h := help.New()
	h.Width = width
	bindings := append(append([]key.Binding(nil), local...), keys.Bindings(actions...)...)
	return h.ShortHelpView(bindings)
}
