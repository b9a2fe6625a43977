package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/atomicstack/transmission-tui/internal/backend"
)

// Call records one backend invocation.
type Call struct {
	Op     string
	ID     int64
	Source string
	Delete bool
}

func (c Call) String() string {
	switch c.Op {
	case "list":
		return "list"
	case "add":
		return "add " + c.Source
	case "remove":
		if c.Delete {
			return fmt.Sprintf("remove %d delete", c.ID)
		}
		return fmt.Sprintf("remove %d", c.ID)
	default:
		return fmt.Sprintf("%s %d", c.Op, c.ID)
	}
}

// Backend is an in-memory backend.Backend. Operations on unknown ids fail
// with backend.ErrNotFound, like the daemon does.
type Backend struct {
	mu       sync.Mutex
	torrents map[int64]backend.Torrent
	nextID   int64
	calls    []Call
	errs     map[string]error
}

// NewBackend seeds the fake with torrents. Ids are kept when set.
func NewBackend(torrents ...backend.Torrent) *Backend {
	b := &Backend{torrents: make(map[int64]backend.Torrent), errs: make(map[string]error)}
	for _, t := range torrents {
		if t.ID == 0 {
			b.nextID++
			t.ID = b.nextID
		}
		if t.ID > b.nextID {
			b.nextID = t.ID
		}
		b.torrents[t.ID] = t
	}
	return b
}

// Fail makes every later call of op return err. A nil err clears it.
func (b *Backend) Fail(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.errs, op)
		return
	}
	b.errs[op] = err
}

// Calls returns the recorded invocations.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallsOf returns the recorded invocations of op, rendered as strings.
func (b *Backend) CallsOf(op string) []string {
	var out []string
	for _, c := range b.Calls() {
		if c.Op == op {
			out = append(out, c.String())
		}
	}
	return out
}

// Torrent returns the stored torrent with id.
func (b *Backend) Torrent(id int64) (backend.Torrent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.torrents[id]
	return t, ok
}

// Update replaces a stored torrent, as a daemon reporting progress would.
func (b *Backend) Update(t backend.Torrent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.torrents[t.ID] = t
}

func (b *Backend) record(c Call) error {
	b.calls = append(b.calls, c)
	return b.errs[c.Op]
}

func (b *Backend) List(ctx context.Context) ([]backend.Torrent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(Call{Op: "list"}); err != nil {
		return nil, err
	}
	out := make([]backend.Torrent, 0, len(b.torrents))
	for _, t := range b.torrents {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (b *Backend) Info(ctx context.Context, id int64) (backend.Torrent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(Call{Op: "info", ID: id}); err != nil {
		return backend.Torrent{}, err
	}
	t, ok := b.torrents[id]
	if !ok {
		return backend.Torrent{}, fmt.Errorf("info %d: %w", id, backend.ErrNotFound)
	}
	return t, nil
}

func (b *Backend) Add(ctx context.Context, source string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(Call{Op: "add", Source: source}); err != nil {
		return err
	}
	if strings.TrimSpace(source) == "" {
		return backend.ErrEmptySource
	}
	b.nextID++
	b.torrents[b.nextID] = backend.Torrent{ID: b.nextID, Name: source, Status: backend.StatusDownloading}
	return nil
}

func (b *Backend) Remove(ctx context.Context, id int64, deleteData bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(Call{Op: "remove", ID: id, Delete: deleteData}); err != nil {
		return err
	}
	if _, ok := b.torrents[id]; !ok {
		return fmt.Errorf("remove %d: %w", id, backend.ErrNotFound)
	}
	delete(b.torrents, id)
	return nil
}

func (b *Backend) Start(ctx context.Context, id int64) error {
	return b.setStatus("start", id, backend.StatusDownloading)
}

func (b *Backend) Stop(ctx context.Context, id int64) error {
	return b.setStatus("stop", id, backend.StatusStopped)
}

func (b *Backend) Reannounce(ctx context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(Call{Op: "reannounce", ID: id}); err != nil {
		return err
	}
	if _, ok := b.torrents[id]; !ok {
		return fmt.Errorf("reannounce %d: %w", id, backend.ErrNotFound)
	}
	return nil
}

func (b *Backend) setStatus(op string, id int64, status backend.Status) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(Call{Op: op, ID: id}); err != nil {
		return err
	}
	t, ok := b.torrents[id]
	if !ok {
		return fmt.Errorf("%s %d: %w", op, id, backend.ErrNotFound)
	}
	t.Status = status
	b.torrents[id] = t
	return nil
}
