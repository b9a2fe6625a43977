package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/atomicstack/transmission-tui/internal/logging"
	"github.com/atomicstack/transmission-tui/internal/logging/events"
)

// Traced wraps b so that every call emits a trace event and failures are
// written to the log. Screens rely on this and do not log backend errors
// themselves.
func Traced(b Backend) Backend {
	if b == nil {
		return nil
	}
	if _, ok := b.(traced); ok {
		return b
	}
	return traced{next: b}
}

type traced struct {
	next Backend
}

func (t traced) record(op string, id int64, start time.Time, err error) {
	events.Backend.Call(op, id, time.Since(start), err)
	if err != nil {
		logging.Error(fmt.Errorf("backend %s: %w", op, err))
	}
}

func (t traced) List(ctx context.Context) ([]Torrent, error) {
	start := time.Now()
	out, err := t.next.List(ctx)
	t.record("list", 0, start, err)
	return out, err
}

func (t traced) Info(ctx context.Context, id int64) (Torrent, error) {
	start := time.Now()
	out, err := t.next.Info(ctx, id)
	t.record("info", id, start, err)
	return out, err
}

func (t traced) Add(ctx context.Context, source string) error {
	start := time.Now()
	err := t.next.Add(ctx, source)
	t.record("add", 0, start, err)
	return err
}

func (t traced) Remove(ctx context.Context, id int64, deleteData bool) error {
	start := time.Now()
	err := t.next.Remove(ctx, id, deleteData)
	t.record("remove", id, start, err)
	return err
}

func (t traced) Start(ctx context.Context, id int64) error {
	start := time.Now()
	err := t.next.Start(ctx, id)
	t.record("start", id, start, err)
	return err
}

func (t traced) Stop(ctx context.Context, id int64) error {
	start := time.Now()
	err := t.next.Stop(ctx, id)
	t.record("stop", id, start, err)
	return err
}

func (t traced) Reannounce(ctx context.Context, id int64) error {
	start := time.Now()
	err := t.next.Reannounce(ctx, id)
	t.record("reannounce", id, start, err)
	return err
}
