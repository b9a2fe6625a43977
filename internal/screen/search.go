package screen

import (
	"strings"
	"sync"

	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/search"
	"github.com/atomicstack/transmission-tui/internal/term"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
)

// Outcome is the result of the most recent search. Gen increases with
// every search that reached the providers.
type Outcome struct {
	Gen     int
	Term    string
	Results []search.Candidate
	Err     error
}

// Search asks for a term and queries the indexes on Enter. Terms that are
// empty or too short are rejected without leaving the screen.
type Search struct {
	env Env

	mu      sync.Mutex
	input   textinput.Model
	status  string
	outcome Outcome
}

// NewSearch builds the search prompt.
func NewSearch(env Env) *Search {
	env = env.withDefaults()
	return &Search{env: env, input: newInput(env.Styles, "at least 3 characters")}
}

// Outcome returns the latest search result set.
func (s *Search) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Value returns the current input.
func (s *Search) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.Value()
}

func (s *Search) Render(f *term.Frame) {
	s.mu.Lock()
	view, status := s.input.View(), s.status
	s.mu.Unlock()

	w, _ := innerSize(f)
	paint(f, s.env.Styles, page{
		title: "Search torrents",
		body: []string{
			s.env.Styles.Label.Render("Search PirateBay and torrents-csv for:"),
			"",
			view,
		},
		status: status,
		failed: status != "",
		footer: footer(s.env.Keys, w, []key.Binding{enterKey, backKey}, keymap.Home, keymap.Help),
	})
}

func (s *Search) HandleKey(ev input.KeyEvent) nav.Result {
	switch {
	case ev.Pressed() && ev.Code == input.CodeEsc:
		s.mu.Lock()
		s.input.Reset()
		s.status = ""
		s.mu.Unlock()
		return nav.PopToParent
	case ev.Pressed() && ev.Code == input.CodeEnter:
		return s.submit()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if feed(&s.input, ev) {
		return nav.Consumed
	}
	return nav.Unhandled
}

func (s *Search) submit() nav.Result {
	term := strings.TrimSpace(s.Value())
	if err := search.ValidateTerm(term); err != nil {
		s.mu.Lock()
		s.status = err.Error()
		s.mu.Unlock()
		return nav.Consumed
	}
	results, err := s.env.Searcher.Search(s.env.Ctx, term)
	if err != nil {
		report(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcome = Outcome{Gen: s.outcome.Gen + 1, Term: term, Results: results, Err: err}
	s.input.Reset()
	s.status = ""
	return nav.PopToParent
}
