// Package term owns the single render target shared by the router and the
// refresh workers, and bridges it to a Bubble Tea program.
package term

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by draws issued after the terminal was closed.
var ErrClosed = errors.New("terminal closed")

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Display receives completed frames.
type Display interface {
	Show(frame string)
}

// Frame is the canvas handed to a paint callback. Width and Height are the
// terminal dimensions at the time the draw started.
type Frame struct {
	Width  int
	Height int

	view string
}

// SetView replaces the frame content.
func (f *Frame) SetView(view string) {
	f.view = view
}

// View returns the painted content.
func (f *Frame) View() string {
	return f.view
}

// Terminal serialises draws onto a Display. Acquire, paint and flush happen
// under one lock so frames are never interleaved.
type Terminal struct {
	mu      sync.Mutex
	display Display
	closed  bool

	// dimensions are read outside the draw lock so the display can report a
	// resize while a draw is blocked on it
	width  atomic.Int32
	height atomic.Int32
}

// New wraps display in a Terminal.
func New(display Display) *Terminal {
	t := &Terminal{display: display}
	t.width.Store(defaultWidth)
	t.height.Store(defaultHeight)
	return t
}

// Resize records new dimensions for subsequent frames.
func (t *Terminal) Resize(width, height int) {
	if width > 0 {
		t.width.Store(int32(width))
	}
	if height > 0 {
		t.height.Store(int32(height))
	}
}

// Size returns the current dimensions.
func (t *Terminal) Size() (int, int) {
	return int(t.width.Load()), int(t.height.Load())
}

// Draw paints one frame.
func (t *Terminal) Draw(paint func(*Frame)) error {
	return t.DrawContext(context.Background(), paint)
}

// DrawContext paints one frame unless ctx is already done once the lock is
// held. A panic inside paint is converted into an error and no frame is shown.
func (t *Terminal) DrawContext(ctx context.Context, paint func(*Frame)) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.closed || t.display == nil {
		return ErrClosed
	}
	w, h := t.Size()
	frame := &Frame{Width: w, Height: h}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("paint panicked: %v", r)
		}
	}()
	if paint != nil {
		paint(frame)
	}
	t.display.Show(frame.View())
	return nil
}

// Close rejects all further draws. It waits for an in-flight draw to finish.
func (t *Terminal) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}
