package screen

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/atomicstack/transmission-tui/internal/backend"
	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/term"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
)

// Info shows the details of one torrent. It is redrawn by a refresh worker
// and fetches the torrent on every draw.
type Info struct {
	env Env

	mu      sync.Mutex
	target  Target
	torrent backend.Torrent
	status  string
	failed  bool
	view    viewport.Model
	gauge   progress.Model
}

// NewInfo builds the torrent detail screen.
func NewInfo(env Env) *Info {
	return &Info{
		env:    env.withDefaults(),
		target: Target{Row: -1},
		view:   viewport.New(80, 20),
		gauge:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// SetTarget selects the torrent and shows the row data until the first
// fetch returns.
func (i *Info) SetTarget(t Target) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if t.Torrent.ID != i.target.Torrent.ID {
		i.view.GotoTop()
	}
	i.target = t
	i.torrent = t.Torrent
	i.status, i.failed = "", false
}

// Torrent returns the most recently shown torrent.
func (i *Info) Torrent() backend.Torrent {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.torrent
}

func (i *Info) Render(f *term.Frame) {
	i.mu.Lock()
	target := i.target
	i.mu.Unlock()

	var (
		fresh backend.Torrent
		err   error
	)
	if target.Set {
		fresh, err = i.env.Backend.Info(i.env.Ctx, target.Torrent.ID)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if target.Set && i.target.Torrent.ID == target.Torrent.ID {
		if err != nil {
			i.status, i.failed = "could not refresh: "+err.Error(), true
		} else {
			i.torrent = fresh
			i.status, i.failed = "", false
		}
	}

	w, _ := innerSize(f)
	i.view.Width = w
	i.view.Height = bodyRows(f)
	i.gauge.Width = min(w/2, 60)
	title := "Torrent info"
	if i.target.Set {
		i.view.SetContent(strings.Join(i.lines(w), "\n"))
		title = "Torrent info: " + i.torrent.Name
	} else {
		i.view.SetContent(i.env.Styles.Muted.Render("No torrent selected."))
	}
	paint(f, i.env.Styles, page{
		title:  title,
		body:   strings.Split(i.view.View(), "\n"),
		status: i.status,
		failed: i.failed,
		footer: footer(i.env.Keys, w, []key.Binding{scrollKeys, pageKeys, backKey}, keymap.Home, keymap.Quit),
	})
}

func (i *Info) lines(width int) []string {
	st := i.env.Styles
	t := i.torrent
	field := func(label, value string) string {
		return st.Label.Render(fmt.Sprintf("%-12s", label)) + " " + st.Value.Render(value)
	}
	out := []string{
		field("Id", strconv.FormatInt(t.ID, 10)),
		field("Name", t.Name),
		field("Status", t.Status.String()),
		field("Progress", i.gauge.ViewAs(t.Progress())+" "+t.PercentDone()),
		field("ETA", t.ETAString()),
		field("Size", t.Size()),
		field("Downloaded", t.Downloaded()),
		field("Rates", t.DownloadRate()+"  "+t.UploadRate()),
		field("Ratio", t.Ratio()),
		field("Added", t.AddedOn()+" ("+t.AddedAgo()+")"),
		field("Location", t.DownloadDir),
		field("Peers", fmt.Sprintf("%d connected, %d downloading from us, %d uploading to us",
			t.PeersConnected, t.PeersGettingFromUs, t.PeersSendingToUs)),
	}
	if clients := t.PeerClients(); clients != "" {
		out = append(out, field("Clients", clients))
	}
	if t.ErrorString != "" {
		out = append(out, st.Error.Render("Error: "+t.ErrorString))
	}
	if len(t.TrackerStats) > 0 {
		out = append(out, "", st.Header.Render("Trackers"))
		for _, tr := range t.TrackerStats {
			host := tr.Host
			if host == "" {
				host = tr.Announce
			}
			out = append(out, fmt.Sprintf("  %s  seeders %d  leechers %d  %s", host, tr.SeederCount, tr.LeecherCount, tr.LastAnnounceResult))
		}
	}
	if len(t.Files) > 0 {
		out = append(out, "", st.Header.Render(fmt.Sprintf("Files (%d)", len(t.Files))))
		for _, file := range t.Files {
			done := "100%"
			if file.Length > 0 {
				done = fmt.Sprintf("%3.0f%%", float64(file.BytesCompleted)/float64(file.Length)*100)
			}
			out = append(out, fmt.Sprintf("  %s  %9s  %s", done, backend.FormatBytes(file.Length), file.Name))
		}
	}
	for j := range out {
		out[j] = clip(out[j], width)
	}
	return out
}

func (i *Info) HandleKey(ev input.KeyEvent) nav.Result {
	if !ev.Pressed() {
		return nav.Consumed
	}
	if ev.Code == input.CodeEsc {
		return nav.PopToParent
	}
	if ev.Ctrl() {
		return nav.Unhandled
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	switch ev.Code {
	case input.CodeHome:
		i.view.GotoTop()
	case input.CodeEnd:
		i.view.GotoBottom()
	default:
		i.view, _ = i.view.Update(teaKey(ev))
	}
	return nav.Consumed
}
