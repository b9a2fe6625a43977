package screen

import (
	"strings"

	"github.com/atomicstack/transmission-tui/internal/format/table"
	"github.com/atomicstack/transmission-tui/internal/term"
	"github.com/atomicstack/transmission-tui/internal/theme"
	"github.com/muesli/reflow/truncate"
)

// chrome is the title, status and footer lines around a screen body.
const chrome = 3

type page struct {
	title  string
	body   []string
	status string
	failed bool
	footer string
}

// innerSize is the area inside the border.
func innerSize(f *term.Frame) (int, int) {
	w, h := f.Width-2, f.Height-2
	if w < 1 {
		w = 1
	}
	if h < chrome+1 {
		h = chrome + 1
	}
	return w, h
}

// bodyRows is how many body lines fit between title and status.
func bodyRows(f *term.Frame) int {
	_, h := innerSize(f)
	return h - chrome
}

func paint(f *term.Frame, st *theme.Styles, p page) {
	w, h := innerSize(f)
	rows := h - chrome
	lines := make([]string, 0, h)
	lines = append(lines, st.Title.Render(clip(p.title, w)))
	for i := 0; i < rows; i++ {
		if i < len(p.body) {
			lines = append(lines, clip(p.body[i], w))
			continue
		}
		lines = append(lines, "")
	}
	status := st.Status
	if p.failed {
		status = st.Error
	}
	lines = append(lines, status.Render(clip(p.status, w)))
	lines = append(lines, clip(p.footer, w))
	f.SetView(st.Border.Width(w).Render(strings.Join(lines, "\n")))
}

func clip(line string, width int) string {
	if width <= 0 {
		return ""
	}
	return truncate.StringWithTail(line, uint(width), "…")
}

// listBody renders a header and the visible window of rows, highlighting
// the selected one.
func listBody(st *theme.Styles, header []string, rows [][]string, align []table.Alignment, sel Selection, width, height, flex int) []string {
	all := append([][]string{header}, rows...)
	lines := table.Fit(all, align, width, flex)
	out := []string{st.Header.Render(lines[0])}
	start, end := sel.Window(height - 1)
	cursor := sel.Index()
	for i := start; i < end; i++ {
		line := lines[i+1]
		if i == cursor {
			out = append(out, st.SelectedRow.Render(line))
			continue
		}
		out = append(out, st.Row.Render(line))
	}
	return out
}
