package testutil

import (
	"strings"
	"sync"
)

// Display records every frame shown on it.
type Display struct {
	mu     sync.Mutex
	frames []string
}

// Show implements term.Display.
func (d *Display) Show(frame string) {
	d.mu.Lock()
	d.frames = append(d.frames, frame)
	d.mu.Unlock()
}

// Frames returns a copy of all frames so far.
func (d *Display) Frames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.frames...)
}

// Last returns the most recent frame.
func (d *Display) Last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) == 0 {
		return ""
	}
	return d.frames[len(d.frames)-1]
}

// Count returns the number of frames shown.
func (d *Display) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

// Contains reports whether any frame contains substr.
func (d *Display) Contains(substr string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, f := range d.frames {
		if strings.Contains(f, substr) {
			return true
		}
	}
	return false
}
