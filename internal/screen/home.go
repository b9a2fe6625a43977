package screen

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/atomicstack/transmission-tui/internal/backend"
	"github.com/atomicstack/transmission-tui/internal/format/table"
	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/logging/events"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/term"
	"github.com/charmbracelet/bubbles/key"
)

var homeHeader = []string{"Id", "Name", "ETA", "Done", "Download", "Upload", "Size", "Downloaded", "Added On"}

var homeAlign = []table.Alignment{
	table.AlignRight, table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignRight,
	table.AlignRight, table.AlignRight, table.AlignRight, table.AlignLeft,
}

// Home lists every torrent. Render fetches a fresh list on each draw and is
// called from the refresh worker, so state lives behind mu.
type Home struct {
	env Env

	mu       sync.Mutex
	torrents []backend.Torrent
	loaded   bool
	sel      Selection
	visible  int
	listErr  string
	status   string
	failed   bool
	selected rowCache[backend.Torrent]
}

// NewHome builds the torrent list screen.
func NewHome(env Env) *Home {
	return &Home{env: env.withDefaults(), visible: 10}
}

func (h *Home) Render(f *term.Frame) {
	torrents, err := h.env.Backend.List(h.env.Ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		// keep showing the last good list
		h.listErr = "could not refresh: " + err.Error()
	} else {
		h.listErr = ""
		h.torrents, h.loaded = torrents, true
		if t, ok := h.selected.get(h.selected.row); ok {
			row := h.selected.row
			if row < len(torrents) && torrents[row].ID == t.ID {
				h.selected.put(row, torrents[row])
			} else {
				h.selected.invalidate()
			}
		}
	}
	h.visible = bodyRows(f) - 1
	sel := h.sel
	sel.SetLen(len(h.torrents))

	w, _ := innerSize(f)
	var body []string
	switch {
	case !h.loaded:
		body = []string{h.env.Styles.Muted.Render("Loading torrents…")}
	case len(h.torrents) == 0:
		body = []string{h.env.Styles.Muted.Render("No torrents. Press " + h.env.Keys.Label(keymap.Add) + " to add one.")}
	default:
		rows := make([][]string, len(h.torrents))
		for i, t := range h.torrents {
			rows[i] = []string{
				strconv.FormatInt(t.ID, 10), t.Name, t.ETAString(), t.PercentDone(),
				t.DownloadRate(), t.UploadRate(), t.Size(), t.Downloaded(), t.AddedOn(),
			}
		}
		body = listBody(h.env.Styles, homeHeader, rows, homeAlign, sel, w, bodyRows(f), 1)
	}

	title := fmt.Sprintf("Torrents (%d)", len(h.torrents))
	if h.env.Host != "" {
		title += " on " + h.env.Host
	}
	status, failed := h.status, h.failed
	if h.listErr != "" {
		status, failed = h.listErr, true
	}
	paint(f, h.env.Styles, page{
		title:  title,
		body:   body,
		status: status,
		failed: failed,
		footer: footer(h.env.Keys, w, []key.Binding{moveKeys, startKey, stopKey},
			keymap.Info, keymap.Remove, keymap.Reannounce, keymap.Open, keymap.Copy, keymap.Add, keymap.Search, keymap.Help, keymap.Quit),
	})
}

func (h *Home) HandleKey(ev input.KeyEvent) nav.Result {
	if !ev.Pressed() {
		return nav.Consumed
	}
	keys := h.env.Keys
	switch {
	case ev.Ctrl() && keys.Matches(keymap.Open, ev.Rune):
		if t, ok := h.Selected(); ok {
			report(h.env.Open(h.env.Ctx, t.DownloadDir))
		}
		return nav.Consumed
	case ev.Ctrl() && keys.Matches(keymap.Copy, ev.Rune):
		if t, ok := h.Selected(); ok {
			h.copyMagnet(t)
		}
		return nav.Consumed
	case ev.Ctrl():
		return nav.Unhandled
	case ev.IsRune('s'):
		if t, ok := h.Selected(); ok {
			h.afterAction(h.env.Backend.Start(h.env.Ctx, t.ID), "started "+t.Name)
		}
		return nav.Consumed
	case ev.IsRune('S'):
		if t, ok := h.Selected(); ok {
			h.afterAction(h.env.Backend.Stop(h.env.Ctx, t.ID), "stopped "+t.Name)
		}
		return nav.Consumed
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.sel.SetLen(len(h.torrents))
	moved := false
	if delta, ok := isMove(ev); ok {
		moved = h.sel.Move(delta)
	} else {
		switch ev.Code {
		case input.CodePageDown:
			moved = h.sel.PageDown(h.visible)
		case input.CodePageUp:
			moved = h.sel.PageUp(h.visible)
		case input.CodeHome:
			moved = h.sel.Home()
		case input.CodeEnd:
			moved = h.sel.End()
		default:
			return nav.Unhandled
		}
	}
	h.sel.Follow(h.visible)
	if moved {
		h.selected.invalidate()
	}
	return nav.Consumed
}

func (h *Home) copyMagnet(t backend.Torrent) {
	link := t.Magnet()
	if link == "" {
		h.afterAction(fmt.Errorf("copy: %s has no magnet link", t.Name), "")
		return
	}
	h.afterAction(h.env.Copy(link), "copied magnet link")
}

func (h *Home) afterAction(err error, ok string) {
	report(err)
	if err == nil {
		events.Action.Success(ok)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.status, h.failed = err.Error(), true
		return
	}
	h.status, h.failed = ok, false
}

// ActiveRow returns the highlighted row index, -1 when the list is empty.
func (h *Home) ActiveRow() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	sel := h.sel
	sel.SetLen(len(h.torrents))
	return sel.Index()
}

// Selected returns the highlighted torrent as of the last list fetch. The
// value is cached per row until the highlight moves.
func (h *Home) Selected() (backend.Torrent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sel := h.sel
	sel.SetLen(len(h.torrents))
	row := sel.Index()
	if row < 0 {
		return backend.Torrent{}, false
	}
	if t, ok := h.selected.get(row); ok {
		return t, true
	}
	t := h.torrents[row]
	h.selected.put(row, t)
	return t, true
}

// SetTorrents seeds the list, used before the first fetch completes.
func (h *Home) SetTorrents(ts []backend.Torrent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.torrents, h.loaded = ts, true
	h.selected.invalidate()
}

// rowCache memoises a value for one row index.
type rowCache[T any] struct {
	row   int
	value T
	valid bool
}

func (c *rowCache[T]) get(row int) (T, bool) {
	if c.valid && c.row == row {
		return c.value, true
	}
	var zero T
	return zero, false
}

func (c *rowCache[T]) put(row int, v T) {
	c.row, c.value, c.valid = row, v, true
}

func (c *rowCache[T]) invalidate() {
	var zero T
	c.row, c.value, c.valid = 0, zero, false
}
