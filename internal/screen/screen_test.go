package screen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/transmission-tui/internal/backend"
	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/search"
	"github.com/atomicstack/transmission-tui/internal/term"
	"github.com/atomicstack/transmission-tui/internal/testutil"
)

func sampleTorrents() []backend.Torrent {
	return []backend.Torrent{
		{ID: 1, Name: "debian-12.iso", SizeWhenDone: 650_000_000, LeftUntilDone: 0, DownloadDir: "/srv/dl", HashString: "aaa"},
		{ID: 2, Name: "ubuntu-24.04.iso", SizeWhenDone: 5_000_000_000, LeftUntilDone: 2_500_000_000, ETA: 90061, RateDownload: 1_200_000},
		{ID: 7, Name: "big-buck-bunny.mkv", SizeWhenDone: 300_000_000, LeftUntilDone: 300_000_000, ETA: -1},
	}
}

type recorder struct {
	copied []string
	opened []string
	err    error
}

func newEnv(b backend.Backend, s Searcher) (Env, *recorder) {
	rec := &recorder{}
	env := Env{
		Ctx:      context.Background(),
		Backend:  b,
		Searcher: s,
		Copy: func(text string) error {
			rec.copied = append(rec.copied, text)
			return rec.err
		},
		Open: func(ctx context.Context, dir string) error {
			rec.opened = append(rec.opened, dir)
			return rec.err
		},
	}
	return env, rec
}

func render(v nav.View) string {
	f := &term.Frame{Width: 140, Height: 30}
	v.Render(f)
	return f.View()
}

func typeText(t *testing.T, h nav.KeyHandler, text string) {
	t.Helper()
	for _, ev := range input.Text(text) {
		if got := h.HandleKey(ev); got != nav.Consumed {
			t.Fatalf("expected %q to be consumed, got %s", ev, got)
		}
	}
}

func press(code input.Code) input.KeyEvent { return input.Key(code) }

func TestHomeListsTorrents(t *testing.T) {
	fake := testutil.NewBackend(sampleTorrents()...)
	env, _ := newEnv(fake, nil)
	home := NewHome(env)
	out := render(home)
	for _, want := range []string{"Torrents (3)", "debian-12.iso", "ubuntu-24.04.iso", "Done", "1 day 01:01:01", "Unknown", "50.00 %", "↓ 1.2 MB/s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in home view:\n%s", want, out)
		}
	}
	if calls := fake.CallsOf("list"); len(calls) != 1 {
		t.Fatalf("expected one list call per render, got %v", calls)
	}
}

func TestHomeKeepsLastListOnFailure(t *testing.T) {
	fake := testutil.NewBackend(sampleTorrents()...)
	env, _ := newEnv(fake, nil)
	home := NewHome(env)
	render(home)
	fake.Fail("list", errors.New("connection refused"))
	out := render(home)
	if !strings.Contains(out, "debian-12.iso") {
		t.Fatalf("expected previous list to stay visible:\n%s", out)
	}
	if !strings.Contains(out, "connection refused") {
		t.Fatalf("expected failure in status line:\n%s", out)
	}
}

func TestHomeSelectionIsClamped(t *testing.T) {
	env, _ := newEnv(testutil.NewBackend(sampleTorrents()...), nil)
	home := NewHome(env)
	render(home)
	for i := 0; i < 5; i++ {
		home.HandleKey(input.Char('j'))
	}
	if got := home.ActiveRow(); got != 2 {
		t.Fatalf("expected row clamped to 2, got %d", got)
	}
	home.HandleKey(press(input.CodeUp))
	if got := home.ActiveRow(); got != 1 {
		t.Fatalf("expected row 1, got %d", got)
	}
	home.HandleKey(press(input.CodeHome))
	if got := home.ActiveRow(); got != 0 {
		t.Fatalf("expected row 0, got %d", got)
	}
	if got := home.HandleKey(input.Char('z')); got != nav.Unhandled {
		t.Fatalf("expected unknown key unhandled, got %s", got)
	}
}

func TestHomeSelectedCacheFollowsHighlight(t *testing.T) {
	fake := testutil.NewBackend(sampleTorrents()...)
	env, _ := newEnv(fake, nil)
	home := NewHome(env)
	render(home)
	first, ok := home.Selected()
	if !ok || first.ID != 1 {
		t.Fatalf("expected torrent 1 selected, got %+v", first)
	}
	home.HandleKey(input.Char('j'))
	second, _ := home.Selected()
	if second.ID != 2 {
		t.Fatalf("expected torrent 2 after moving, got %d", second.ID)
	}
	if err := fake.Remove(context.Background(), 2, false); err != nil {
		t.Fatalf("remove: %v", err)
	}
	render(home)
	after, _ := home.Selected()
	if after.ID != 7 {
		t.Fatalf("expected cache dropped once row 1 changed, got %d", after.ID)
	}
}

func TestHomeSelectedPicksUpRefreshedRow(t *testing.T) {
	fake := testutil.NewBackend(sampleTorrents()...)
	env, _ := newEnv(fake, nil)
	home := NewHome(env)
	render(home)
	home.HandleKey(input.Char('j'))
	if got, _ := home.Selected(); got.LeftUntilDone != 2_500_000_000 {
		t.Fatalf("expected half-done ubuntu selected, got %+v", got)
	}

	updated := sampleTorrents()[1]
	updated.LeftUntilDone = 0
	fake.Update(updated)
	render(home)

	target := TargetOf(home)
	if target.Torrent.ID != 2 || target.Torrent.LeftUntilDone != 0 {
		t.Fatalf("expected refreshed row for torrent 2, got %+v", target.Torrent)
	}
	if !strings.Contains(target.describe(), "100.00 %") {
		t.Fatalf("expected refreshed percent in %q", target.describe())
	}
}

func TestHomeStartStopOpenCopy(t *testing.T) {
	fake := testutil.NewBackend(sampleTorrents()...)
	env, rec := newEnv(fake, nil)
	home := NewHome(env)
	render(home)
	home.HandleKey(input.Char('S'))
	home.HandleKey(input.Char('s'))
	if got := strings.Join(append(fake.CallsOf("stop"), fake.CallsOf("start")...), ","); got != "stop 1,start 1" {
		t.Fatalf("expected stop and start of torrent 1, got %q", got)
	}
	home.HandleKey(input.Ctrl('o'))
	if len(rec.opened) != 1 || rec.opened[0] != "/srv/dl" {
		t.Fatalf("expected download dir opened, got %v", rec.opened)
	}
	home.HandleKey(input.Ctrl('y'))
	if len(rec.copied) != 1 || rec.copied[0] != "magnet:?xt=urn:btih:aaa" {
		t.Fatalf("expected magnet copied, got %v", rec.copied)
	}
	if !strings.Contains(render(home), "copied magnet link") {
		t.Fatalf("expected copy confirmation in status line")
	}
}

func TestHomeStopOnVanishedTorrentDoesNotPanic(t *testing.T) {
	fake := testutil.NewBackend(sampleTorrents()...)
	env, _ := newEnv(fake, nil)
	home := NewHome(env)
	render(home)
	_ = fake.Remove(context.Background(), 1, false)
	if got := home.HandleKey(input.Char('S')); got != nav.Consumed {
		t.Fatalf("expected consumed, got %s", got)
	}
	if got := home.HandleKey(input.Char('S')); got != nav.Consumed {
		t.Fatalf("expected repeated stop consumed, got %s", got)
	}
	if !strings.Contains(render(home), "not found") {
		t.Fatalf("expected not-found error in the status line")
	}
}

func TestHomeIgnoresRepeats(t *testing.T) {
	env, _ := newEnv(testutil.NewBackend(sampleTorrents()...), nil)
	home := NewHome(env)
	render(home)
	ev := input.Char('j')
	ev.Kind = input.KindRepeat
	if got := home.HandleKey(ev); got != nav.Consumed {
		t.Fatalf("expected repeat consumed, got %s", got)
	}
	if home.ActiveRow() != 0 {
		t.Fatalf("expected repeat not to move the highlight")
	}
}

func TestAddSubmitsLiteralMagnet(t *testing.T) {
	fake := testutil.NewBackend()
	env, _ := newEnv(fake, nil)
	add := NewAdd(env)
	magnet := "magnet:?xt=urn:btih:abcdef&dn=x"
	typeText(t, add, magnet)
	if add.Value() != magnet {
		t.Fatalf("expected input %q, got %q", magnet, add.Value())
	}
	if got := add.HandleKey(press(input.CodeEnter)); got != nav.PopToParent {
		t.Fatalf("expected pop after enter, got %s", got)
	}
	if calls := fake.CallsOf("add"); len(calls) != 1 || calls[0] != "add "+magnet {
		t.Fatalf("expected add of literal magnet, got %v", calls)
	}
	if add.Value() != "" {
		t.Fatalf("expected input reset, got %q", add.Value())
	}
}

func TestAddEscapeResetsWithoutAdding(t *testing.T) {
	fake := testutil.NewBackend()
	env, _ := newEnv(fake, nil)
	add := NewAdd(env)
	typeText(t, add, "half typed")
	if got := add.HandleKey(press(input.CodeEsc)); got != nav.PopToParent {
		t.Fatalf("expected pop after esc, got %s", got)
	}
	if len(fake.CallsOf("add")) != 0 || add.Value() != "" {
		t.Fatalf("expected no add and empty input, got %v %q", fake.CallsOf("add"), add.Value())
	}
}

func TestAddForwardsRepeatsAndExpandsGlobs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.torrent", "b.torrent", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fake := testutil.NewBackend()
	env, _ := newEnv(fake, nil)
	add := NewAdd(env)
	for _, ev := range input.Text(filepath.Join(dir, "*.torrent")) {
		ev.Kind = input.KindRepeat
		add.HandleKey(ev)
	}
	add.HandleKey(press(input.CodeEnter))
	calls := fake.CallsOf("add")
	want := []string{"add " + filepath.Join(dir, "a.torrent"), "add " + filepath.Join(dir, "b.torrent")}
	if strings.Join(calls, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, calls)
	}
}

func TestRemoveEscapeAndEnter(t *testing.T) {
	fake := testutil.NewBackend(sampleTorrents()...)
	env, _ := newEnv(fake, nil)
	home := NewHome(env)
	render(home)
	home.HandleKey(input.Char('j'))
	home.HandleKey(input.Char('j'))

	remove := NewRemove(env)
	remove.SetTarget(TargetOf(home))
	if remove.Target().Row != 2 || remove.Target().Torrent.ID != 7 {
		t.Fatalf("expected row 2 targeted, got %+v", remove.Target())
	}
	if !strings.Contains(render(remove), "big-buck-bunny.mkv") {
		t.Fatalf("expected target name on screen")
	}
	if got := remove.HandleKey(press(input.CodeEsc)); got != nav.PopToParent {
		t.Fatalf("expected pop on esc, got %s", got)
	}
	if len(fake.CallsOf("remove")) != 0 {
		t.Fatalf("expected esc not to remove")
	}
	remove.HandleKey(press(input.CodeTab))
	if !remove.DeleteData() {
		t.Fatalf("expected tab to toggle delete data")
	}
	if got := remove.HandleKey(press(input.CodeEnter)); got != nav.PopToParent {
		t.Fatalf("expected pop on enter, got %s", got)
	}
	if calls := fake.CallsOf("remove"); len(calls) != 1 || calls[0] != "remove 7 delete" {
		t.Fatalf("expected remove 7 with data, got %v", calls)
	}
	if got := remove.HandleKey(press(input.CodeEnter)); got != nav.PopToParent {
		t.Fatalf("expected second remove to pop without panicking, got %s", got)
	}
}

func TestRemoveWithoutTargetDoesNothing(t *testing.T) {
	fake := testutil.NewBackend()
	env, _ := newEnv(fake, nil)
	remove := NewRemove(env)
	if !strings.Contains(render(remove), "No torrent selected") {
		t.Fatalf("expected empty target message")
	}
	remove.HandleKey(press(input.CodeEnter))
	if len(fake.Calls()) != 0 {
		t.Fatalf("expected no backend calls, got %v", fake.Calls())
	}
}

func TestReannounce(t *testing.T) {
	fake := testutil.NewBackend(sampleTorrents()...)
	env, _ := newEnv(fake, nil)
	home := NewHome(env)
	render(home)
	r := NewReannounce(env)
	r.SetTarget(TargetOf(home))
	if got := r.HandleKey(input.Char('x')); got != nav.Unhandled {
		t.Fatalf("expected unhandled, got %s", got)
	}
	if got := r.HandleKey(press(input.CodeEnter)); got != nav.PopToParent {
		t.Fatalf("expected pop, got %s", got)
	}
	if calls := fake.CallsOf("reannounce"); len(calls) != 1 || calls[0] != "reannounce 1" {
		t.Fatalf("expected reannounce 1, got %v", calls)
	}
}

func TestInfoFetchesLiveDetail(t *testing.T) {
	ts := sampleTorrents()
	ts[1].Peers = []backend.Peer{{ClientName: "qBittorrent"}, {ClientName: "Transmission"}}
	ts[1].TrackerStats = []backend.TrackerStat{{Host: "tracker.example.org", SeederCount: 12}}
	ts[1].Files = []backend.File{{Name: "ubuntu.iso", Length: 100, BytesCompleted: 50}}
	fake := testutil.NewBackend(ts...)
	env, _ := newEnv(fake, nil)
	info := NewInfo(env)
	info.SetTarget(Target{Row: 1, Torrent: backend.Torrent{ID: 2, Name: "stale name"}, Set: true})
	out := render(info)
	for _, want := range []string{"ubuntu-24.04.iso", "qBittorrent, Transmission", "tracker.example.org", "Files (1)", "50.00 %"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in info view:\n%s", want, out)
		}
	}
	if calls := fake.CallsOf("info"); len(calls) != 1 || calls[0] != "info 2" {
		t.Fatalf("expected info 2, got %v", calls)
	}

	fake.Fail("info", errors.New("timeout"))
	out = render(info)
	if !strings.Contains(out, "ubuntu-24.04.iso") || !strings.Contains(out, "timeout") {
		t.Fatalf("expected last detail kept with an error status:\n%s", out)
	}
	if got := info.HandleKey(input.Char('j')); got != nav.Consumed {
		t.Fatalf("expected scroll consumed, got %s", got)
	}
	if got := info.HandleKey(press(input.CodeEsc)); got != nav.PopToParent {
		t.Fatalf("expected pop, got %s", got)
	}
}

func newSearchEnv() (Env, *testutil.Backend, *testutil.Provider) {
	provider := &testutil.Provider{
		Src: search.SourcePirateBay,
		Hits: []search.Candidate{
			{ID: "1", Name: "abc linux", InfoHash: "H1", Seeders: 5},
			{ID: "2", Name: "abc bsd", InfoHash: "H2", Seeders: 9},
		},
		Details: map[string]search.Candidate{
			"2": {ID: "2", Name: "abc bsd", InfoHash: "H2", Seeders: 9, Source: search.SourcePirateBay, Description: "The BSD image.", Files: []search.File{{Name: "bsd.img", Size: 2048}}},
		},
	}
	fake := testutil.NewBackend()
	env, _ := newEnv(fake, search.New(0, provider))
	return env, fake, provider
}

func TestSearchRejectsShortTermsThenSearches(t *testing.T) {
	env, _, provider := newSearchEnv()
	s := NewSearch(env)
	typeText(t, s, "ab")
	if got := s.HandleKey(press(input.CodeEnter)); got != nav.Consumed {
		t.Fatalf("expected to stay on search, got %s", got)
	}
	if !strings.Contains(render(s), search.ErrTermTooShort.Error()) {
		t.Fatalf("expected too-short message on screen")
	}
	if len(provider.Terms()) != 0 || len(s.Outcome().Results) != 0 {
		t.Fatalf("expected no search issued, got %v", provider.Terms())
	}
	typeText(t, s, "c")
	if got := s.HandleKey(press(input.CodeEnter)); got != nav.PopToParent {
		t.Fatalf("expected pop to results, got %s", got)
	}
	if terms := provider.Terms(); len(terms) != 1 || terms[0] != "abc" {
		t.Fatalf("expected search for abc, got %v", terms)
	}
	o := s.Outcome()
	if o.Gen != 1 || len(o.Results) != 2 || o.Results[0].Name != "abc bsd" {
		t.Fatalf("unexpected outcome %+v", o)
	}
	if s.Value() != "" {
		t.Fatalf("expected input reset after search, got %q", s.Value())
	}
}

func TestSearchEmptyTerm(t *testing.T) {
	env, _, _ := newSearchEnv()
	s := NewSearch(env)
	s.HandleKey(press(input.CodeEnter))
	if !strings.Contains(render(s), search.ErrEmptyTerm.Error()) {
		t.Fatalf("expected empty-term message")
	}
}

func TestResultsDownloadAndDetail(t *testing.T) {
	env, fake, _ := newSearchEnv()
	s := NewSearch(env)
	typeText(t, s, "abc")
	s.HandleKey(press(input.CodeEnter))

	results := NewResults(env)
	results.SetOutcome(s.Outcome())
	out := render(results)
	if !strings.Contains(out, "abc bsd") || !strings.Contains(out, "PirateBay") {
		t.Fatalf("expected results table:\n%s", out)
	}

	c, err := results.SelectedDetail()
	if err != nil || c.Description != "The BSD image." {
		t.Fatalf("expected detail for first hit, got %+v %v", c, err)
	}
	info := NewSearchInfo(env, results)
	out = render(info)
	if !strings.Contains(out, "The BSD image.") || !strings.Contains(out, "bsd.img") {
		t.Fatalf("expected description and files:\n%s", out)
	}

	results.HandleKey(input.Char('j'))
	results.SetOutcome(s.Outcome())
	results.Download()
	if calls := fake.CallsOf("add"); len(calls) != 1 || calls[0] != "add magnet:?xt=urn:btih:H1&dn=abc+linux" {
		t.Fatalf("expected magnet of second hit added, got %v", calls)
	}
}

func TestResultsDetailOnlyForPirateBay(t *testing.T) {
	env, _, _ := newSearchEnv()
	results := NewResults(env)
	results.SetOutcome(Outcome{Gen: 1, Term: "xyz", Results: []search.Candidate{{ID: "9", Name: "csv hit", Source: search.SourceTorrentsCSV}}})
	info := NewSearchInfo(env, results)
	if out := render(info); !strings.Contains(out, "only provided from the PirateBay source") {
		t.Fatalf("expected no-detail message:\n%s", out)
	}
}

func TestResultsShowPartialFailure(t *testing.T) {
	env, _, _ := newSearchEnv()
	results := NewResults(env)
	err := &search.ProviderError{Source: search.SourceTorrentsCSV, Err: errors.New("503")}
	results.SetOutcome(Outcome{Gen: 1, Term: "abc", Results: []search.Candidate{{Name: "abc one"}}, Err: err})
	out := render(results)
	if !strings.Contains(out, "some sources failed") || !strings.Contains(out, "abc one") {
		t.Fatalf("expected partial results with a warning:\n%s", out)
	}
}

func TestResultsCopy(t *testing.T) {
	env, _, _ := newSearchEnv()
	rec := &recorder{}
	env.Copy = func(s string) error { rec.copied = append(rec.copied, s); return nil }
	results := NewResults(env)
	results.SetOutcome(Outcome{Gen: 1, Results: []search.Candidate{{Name: "n", InfoHash: "H"}}})
	if got := results.HandleKey(input.Ctrl('y')); got != nav.Consumed {
		t.Fatalf("expected consumed, got %s", got)
	}
	if len(rec.copied) != 1 || rec.copied[0] != "magnet:?xt=urn:btih:H&dn=n" {
		t.Fatalf("unexpected copies %v", rec.copied)
	}
}

func TestHelpListsBindings(t *testing.T) {
	env, _ := newEnv(testutil.NewBackend(), nil)
	h := NewHelp(env)
	out := render(h)
	for _, want := range []string{"ctrl+a", "add torrent", "ctrl+g", "ctrl+d", "download", "Search results"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in help:\n%s", want, out)
		}
	}
	if got := h.HandleKey(input.Char('x')); got != nav.Consumed {
		t.Fatalf("expected consumed, got %s", got)
	}
	if got := h.HandleKey(press(input.CodeEsc)); got != nav.PopToParent {
		t.Fatalf("expected pop, got %s", got)
	}
}

func TestPopupRendersNothing(t *testing.T) {
	if got := render(Popup{}); got != "" {
		t.Fatalf("expected empty popup, got %q", got)
	}
	if got := (Popup{}).HandleKey(press(input.CodeEsc)); got != nav.Consumed {
		t.Fatalf("expected popup to swallow keys, got %s", got)
	}
}
