// Package refresh redraws a screen on a fixed cadence until cancelled.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/transmission-tui/internal/logging"
	"github.com/atomicstack/transmission-tui/internal/logging/events"
	"github.com/atomicstack/transmission-tui/internal/term"
)

// DefaultInterval is the redraw cadence used when none is configured.
const DefaultInterval = 3 * time.Second

// Drawer is the shared render target.
type Drawer interface {
	DrawContext(ctx context.Context, paint func(*term.Frame)) error
}

// Session is one running worker. The zero value and a nil *Session are both
// safe to Cancel and Wait on.
type Session struct {
	name     string
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}

	draws    atomic.Int64
	failures atomic.Int64
}

// Start spawns a worker that draws immediately and then once per interval.
// Cancelling parent also stops the worker.
func Start(parent context.Context, d Drawer, name string, paint func(*term.Frame), interval time.Duration) *Session {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		name:     name,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	events.Refresh.Start(name, interval)
	go s.run(d, paint)
	return s
}

// Name identifies the screen this session redraws.
func (s *Session) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Cancel requests the worker to stop. Only the first call has any effect.
func (s *Session) Cancel() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(func() {
		events.Refresh.Cancel(s.name)
		s.cancel()
	})
}

// Cancelled reports whether Cancel was called or the parent context ended.
func (s *Session) Cancelled() bool {
	if s == nil || s.ctx == nil {
		return true
	}
	return s.ctx.Err() != nil
}

// Done is closed once the worker goroutine has returned.
func (s *Session) Done() <-chan struct{} {
	if s == nil || s.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return s.done
}

// Wait blocks until the worker has exited.
func (s *Session) Wait() {
	<-s.Done()
}

// Draws returns the number of frames the worker completed.
func (s *Session) Draws() int64 {
	if s == nil {
		return 0
	}
	return s.draws.Load()
}

// Failures returns the number of draws that returned an error.
func (s *Session) Failures() int64 {
	if s == nil {
		return 0
	}
	return s.failures.Load()
}

func (s *Session) run(d Drawer, paint func(*term.Frame)) {
	defer func() {
		events.Refresh.Stop(s.name, s.draws.Load())
		close(s.done)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if !s.tick(d, paint) {
			return
		}
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick performs one draw. It returns false once the session is cancelled; a
// failed draw is logged and the worker keeps going.
func (s *Session) tick(d Drawer, paint func(*term.Frame)) bool {
	err := d.DrawContext(s.ctx, paint)
	if s.ctx.Err() != nil {
		return false
	}
	if err != nil {
		s.failures.Add(1)
		logging.Error(fmt.Errorf("refresh %s: %w", s.name, err))
		return true
	}
	s.draws.Add(1)
	return true
}
