package screen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/transmission-tui/internal/backend"
	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/search"
	"github.com/atomicstack/transmission-tui/internal/term"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

// DetailSource yields the search hit SearchInfo describes.
type DetailSource interface {
	SelectedDetail() (search.Candidate, error)
}

// SearchInfo describes the highlighted search hit.
type SearchInfo struct {
	env  Env
	src  DetailSource
	view viewport.Model
	key  string
}

// NewSearchInfo builds the search hit detail screen.
func NewSearchInfo(env Env, src DetailSource) *SearchInfo {
	return &SearchInfo{env: env.withDefaults(), src: src, view: viewport.New(80, 20)}
}

func (s *SearchInfo) Render(f *term.Frame) {
	st := s.env.Styles
	w, _ := innerSize(f)
	s.view.Width = w
	s.view.Height = bodyRows(f)

	c, err := s.src.SelectedDetail()
	var lines []string
	title := "Torrent info"
	switch {
	case errors.Is(err, search.ErrNoDetail):
		title = "Torrent info: " + c.Name
		lines = []string{st.Warning.Render(err.Error())}
	case err != nil:
		lines = []string{st.Error.Render(err.Error())}
	default:
		title = "Torrent info: " + c.Name
		lines = s.lines(c, w)
	}
	s.view.SetContent(strings.Join(lines, "\n"))
	if k := c.Source.String() + ":" + c.ID; k != s.key {
		s.key = k
		s.view.GotoTop()
	}
	paint(f, st, page{
		title:  title,
		body:   strings.Split(s.view.View(), "\n"),
		footer: footer(s.env.Keys, w, []key.Binding{scrollKeys, pageKeys, backKey}, keymap.Home),
	})
}

func (s *SearchInfo) lines(c search.Candidate, width int) []string {
	st := s.env.Styles
	out := []string{
		st.Label.Render("Seeders ") + st.Value.Render(fmt.Sprint(c.Seeders)) +
			st.Label.Render("  Leechers ") + st.Value.Render(fmt.Sprint(c.Leechers)) +
			st.Label.Render("  Size ") + st.Value.Render(backend.FormatBytes(c.Size)),
		st.Label.Render("Magnet ") + st.Value.Render(c.Magnet()),
		"",
	}
	for _, line := range strings.Split(strings.TrimSpace(c.Description), "\n") {
		out = append(out, clip(line, width))
	}
	if len(c.Files) > 0 {
		out = append(out, "", st.Header.Render(fmt.Sprintf("Files (%d)", len(c.Files))))
		for _, file := range c.Files {
			out = append(out, clip(fmt.Sprintf("  %9s  %s", backend.FormatBytes(file.Size), file.Name), width))
		}
	}
	return out
}

func (s *SearchInfo) HandleKey(ev input.KeyEvent) nav.Result {
	if !ev.Pressed() {
		return nav.Consumed
	}
	if ev.Code == input.CodeEsc {
		return nav.PopToParent
	}
	if ev.Ctrl() {
		return nav.Unhandled
	}
	s.view, _ = s.view.Update(teaKey(ev))
	return nav.Consumed
}
