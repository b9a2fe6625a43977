package screen

import (
	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/theme"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
)

// newInput builds a focused single-line input. The cursor does not blink
// because frames are only painted when the router or a worker draws.
func newInput(st *theme.Styles, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 4096
	ti.PromptStyle = *st.Prompt
	ti.PlaceholderStyle = *st.Placeholder
	ti.Cursor.Style = *st.Cursor
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	return ti
}

// feed forwards a key to the input and reports whether it changed anything.
func feed(ti *textinput.Model, ev input.KeyEvent) bool {
	if !typing(ev) {
		return false
	}
	before, pos := ti.Value(), ti.Position()
	next, _ := ti.Update(teaKey(ev))
	*ti = next
	return ti.Value() != before || ti.Position() != pos
}
