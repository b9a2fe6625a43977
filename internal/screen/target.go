package screen

import (
	"fmt"
	"strconv"

	"github.com/atomicstack/transmission-tui/internal/backend"
	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/logging/events"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/term"
	"github.com/charmbracelet/bubbles/key"
)

// Target is the Home row a confirmation screen acts on.
type Target struct {
	Row     int
	Torrent backend.Torrent
	Set     bool
}

// TargetOf snapshots Home's highlighted row.
func TargetOf(h *Home) Target {
	t, ok := h.Selected()
	if !ok {
		return Target{Row: -1}
	}
	return Target{Row: h.ActiveRow(), Torrent: t, Set: true}
}

func (t Target) describe() string {
	if !t.Set {
		return "No torrent selected."
	}
	return fmt.Sprintf("#%s %s (%s, %s)", strconv.FormatInt(t.Torrent.ID, 10), t.Torrent.Name, t.Torrent.Size(), t.Torrent.PercentDone())
}

// Remove confirms removal of one torrent. Tab toggles deleting its data.
type Remove struct {
	env        Env
	target     Target
	deleteData bool
}

// NewRemove builds the removal confirmation screen.
func NewRemove(env Env) *Remove {
	return &Remove{env: env.withDefaults(), target: Target{Row: -1}}
}

// SetTarget selects the torrent to remove and clears the delete toggle.
func (r *Remove) SetTarget(t Target) {
	r.target = t
	r.deleteData = false
}

// Target returns the torrent the screen acts on.
func (r *Remove) Target() Target { return r.target }

// DeleteData reports whether downloaded data will be deleted too.
func (r *Remove) DeleteData() bool { return r.deleteData }

func (r *Remove) Render(f *term.Frame) {
	st := r.env.Styles
	data := st.Muted.Render("[ ] also delete downloaded data")
	if r.deleteData {
		data = st.Warning.Render("[x] also delete downloaded data")
	}
	w, _ := innerSize(f)
	paint(f, st, page{
		title: "Remove torrent",
		body: []string{
			st.Label.Render("Remove this torrent?"),
			"",
			st.Value.Render(r.target.describe()),
			"",
			data,
		},
		footer: footer(r.env.Keys, w, []key.Binding{enterKey, toggleKey, backKey}, keymap.Home),
	})
}

func (r *Remove) HandleKey(ev input.KeyEvent) nav.Result {
	if !ev.Pressed() {
		return nav.Consumed
	}
	switch ev.Code {
	case input.CodeEsc:
		return nav.PopToParent
	case input.CodeTab:
		r.deleteData = !r.deleteData
		return nav.Consumed
	case input.CodeEnter:
		if r.target.Set {
			t := r.target.Torrent
			if err := r.env.Backend.Remove(r.env.Ctx, t.ID, r.deleteData); err != nil {
				report(err)
			} else {
				events.Action.Success("removed " + t.Name)
			}
		}
		return nav.PopToParent
	}
	return nav.Unhandled
}

// Reannounce confirms asking the trackers for more peers.
type Reannounce struct {
	env    Env
	target Target
}

// NewReannounce builds the reannounce confirmation screen.
func NewReannounce(env Env) *Reannounce {
	return &Reannounce{env: env.withDefaults(), target: Target{Row: -1}}
}

// SetTarget selects the torrent to reannounce.
func (r *Reannounce) SetTarget(t Target) { r.target = t }

// Target returns the torrent the screen acts on.
func (r *Reannounce) Target() Target { return r.target }

func (r *Reannounce) Render(f *term.Frame) {
	st := r.env.Styles
	w, _ := innerSize(f)
	paint(f, st, page{
		title: "Reannounce torrent",
		body: []string{
			st.Label.Render("Ask the trackers for more peers for:"),
			"",
			st.Value.Render(r.target.describe()),
		},
		footer: footer(r.env.Keys, w, []key.Binding{enterKey, backKey}, keymap.Home),
	})
}

func (r *Reannounce) HandleKey(ev input.KeyEvent) nav.Result {
	if !ev.Pressed() {
		return nav.Consumed
	}
	switch ev.Code {
	case input.CodeEsc:
		return nav.PopToParent
	case input.CodeEnter:
		if r.target.Set {
			t := r.target.Torrent
			if err := r.env.Backend.Reannounce(r.env.Ctx, t.ID); err != nil {
				report(err)
			} else {
				events.Action.Success("reannounced " + t.Name)
			}
		}
		return nav.PopToParent
	}
	return nav.Unhandled
}
