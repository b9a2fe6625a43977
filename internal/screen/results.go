package screen

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/atomicstack/transmission-tui/internal/format/table"
	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/logging/events"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/search"
	"github.com/atomicstack/transmission-tui/internal/term"
	"github.com/charmbracelet/bubbles/key"
	"github.com/dustin/go-humanize"
)

var resultsHeader = []string{"Name", "Seeders", "Leechers", "Size", "Added", "Source"}

var resultsAlign = []table.Alignment{
	table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignRight, table.AlignLeft, table.AlignLeft,
}

// Results lists the hits of the latest search.
type Results struct {
	env Env

	mu      sync.Mutex
	outcome Outcome
	sel     Selection
	visible int
	status  string
	failed  bool
	detail  rowCache[detailed]
}

type detailed struct {
	candidate search.Candidate
	err       error
}

// NewResults builds the search results screen.
func NewResults(env Env) *Results {
	return &Results{env: env.withDefaults(), visible: 10}
}

// SetOutcome installs a search result set. Outcomes from a generation
// already shown are ignored so the highlight survives redraws.
func (r *Results) SetOutcome(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.Gen == r.outcome.Gen {
		return
	}
	r.outcome = o
	r.sel = Selection{}
	r.sel.SetLen(len(o.Results))
	r.detail.invalidate()
	r.status, r.failed = "", false
	if o.Err != nil {
		r.status, r.failed = searchStatus(o), true
	}
}

func searchStatus(o Outcome) string {
	var perr *search.ProviderError
	if len(o.Results) > 0 && errors.As(o.Err, &perr) {
		return "some sources failed: " + o.Err.Error()
	}
	return o.Err.Error()
}

// Len returns the number of hits shown.
func (r *Results) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outcome.Results)
}

// Selected returns the highlighted hit.
func (r *Results) Selected() (search.Candidate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.sel.Index()
	if row < 0 {
		return search.Candidate{}, false
	}
	return r.outcome.Results[row], true
}

// SelectedDetail returns the highlighted hit with its description and file
// list. The lookup is cached until the highlight moves.
func (r *Results) SelectedDetail() (search.Candidate, error) {
	r.mu.Lock()
	row := r.sel.Index()
	if row < 0 {
		r.mu.Unlock()
		return search.Candidate{}, errors.New("no search result selected")
	}
	if d, ok := r.detail.get(row); ok {
		r.mu.Unlock()
		return d.candidate, d.err
	}
	c := r.outcome.Results[row]
	r.mu.Unlock()

	full, err := r.env.Searcher.Detail(r.env.Ctx, c)
	if err != nil && !errors.Is(err, search.ErrNoDetail) {
		report(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sel.Index() == row {
		r.detail.put(row, detailed{candidate: full, err: err})
	}
	return full, err
}

// Download hands the highlighted hit's magnet link to the daemon.
func (r *Results) Download() {
	c, ok := r.Selected()
	if !ok {
		return
	}
	if err := r.env.Backend.Add(r.env.Ctx, c.Magnet()); err != nil {
		report(err)
		return
	}
	events.Action.Success("downloading " + c.Name)
}

func (r *Results) Render(f *term.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = bodyRows(f) - 1
	w, _ := innerSize(f)
	st := r.env.Styles

	var body []string
	hits := r.outcome.Results
	switch {
	case r.outcome.Gen == 0:
		body = []string{st.Muted.Render("No search yet. Press " + r.env.Keys.Label(keymap.Search) + " to search.")}
	case len(hits) == 0:
		body = []string{st.Muted.Render(fmt.Sprintf("No results for %q.", r.outcome.Term))}
	default:
		rows := make([][]string, len(hits))
		for i, c := range hits {
			added := "-"
			if !c.Added.IsZero() && c.Added.Unix() > 0 {
				added = c.Added.Format("2006-01-02")
			}
			rows[i] = []string{
				c.Name, strconv.FormatInt(c.Seeders, 10), strconv.FormatInt(c.Leechers, 10),
				humanize.Bytes(uint64(max(c.Size, 0))), added, c.Source.String(),
			}
		}
		body = listBody(st, resultsHeader, rows, resultsAlign, r.sel, w, bodyRows(f), 0)
	}
	title := "Search results"
	if r.outcome.Term != "" {
		title = fmt.Sprintf("Search results for %q (%d)", r.outcome.Term, len(hits))
	}
	paint(f, st, page{
		title:  title,
		body:   body,
		status: r.status,
		failed: r.failed,
		footer: footer(r.env.Keys, w, []key.Binding{moveKeys},
			keymap.Download, keymap.Info, keymap.Copy, keymap.Search, keymap.Home, keymap.Help),
	})
}

func (r *Results) HandleKey(ev input.KeyEvent) nav.Result {
	if !ev.Pressed() {
		return nav.Consumed
	}
	if ev.Ctrl() {
		if r.env.Keys.Matches(keymap.Copy, ev.Rune) {
			r.copyMagnet()
			return nav.Consumed
		}
		return nav.Unhandled
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := false
	if delta, ok := isMove(ev); ok {
		moved = r.sel.Move(delta)
	} else {
		switch ev.Code {
		case input.CodePageDown:
			moved = r.sel.PageDown(r.visible)
		case input.CodePageUp:
			moved = r.sel.PageUp(r.visible)
		case input.CodeHome:
			moved = r.sel.Home()
		case input.CodeEnd:
			moved = r.sel.End()
		default:
			return nav.Unhandled
		}
	}
	r.sel.Follow(r.visible)
	if moved {
		r.detail.invalidate()
	}
	return nav.Consumed
}

func (r *Results) copyMagnet() {
	c, ok := r.Selected()
	if !ok {
		return
	}
	err := r.env.Copy(c.Magnet())
	report(err)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.status, r.failed = err.Error(), true
		return
	}
	r.status, r.failed = "copied magnet link for "+c.Name, false
}

