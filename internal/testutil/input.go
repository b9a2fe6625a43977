// Package testutil holds fakes shared by package tests: a scripted input
// source, a recording display, an in-memory torrent backend and a canned
// search provider.
package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/atomicstack/transmission-tui/internal/input"
)

// Script replays a fixed list of events and then reports io.EOF.
type Script struct {
	mu     sync.Mutex
	events []input.Event
	next   int
	before func(i int, ev input.Event)
}

// NewScript builds a script from events. KeyEvent slices may be expanded
// with input.Text.
func NewScript(evs ...input.Event) *Script {
	return &Script{events: evs}
}

// Keys is a convenience constructor for scripts made only of key events.
func Keys(keys ...input.KeyEvent) *Script {
	evs := make([]input.Event, 0, len(keys))
	for _, k := range keys {
		evs = append(evs, k)
	}
	return NewScript(evs...)
}

// Before registers a hook that runs on the reading goroutine just before
// event i is returned. Hooks observe state between a draw and the next key.
func (s *Script) Before(fn func(i int, ev input.Event)) *Script {
	s.mu.Lock()
	s.before = fn
	s.mu.Unlock()
	return s
}

// ReadEvent implements input.Source.
func (s *Script) ReadEvent(ctx context.Context) (input.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.next >= len(s.events) {
		s.mu.Unlock()
		return nil, io.EOF
	}
	i := s.next
	ev := s.events[i]
	s.next++
	hook := s.before
	s.mu.Unlock()
	if hook != nil {
		hook(i, ev)
	}
	return ev, nil
}

// Consumed returns how many events have been read.
func (s *Script) Consumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
