package term

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/atomicstack/transmission-tui/internal/input"
	"github.com/atomicstack/transmission-tui/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

const eventBuffer = 64

type frameMsg string

// Program runs Bubble Tea purely as a screen and keyboard driver. Frames are
// pushed in through Show and key presses are pulled out through ReadEvent, so
// the navigation loop keeps control of when things are drawn.
type Program struct {
	program  *tea.Program
	terminal *Terminal
	events   chan input.Event
	done     chan struct{}
	once     sync.Once
}

// NewProgram builds the driver. Extra options are passed to Bubble Tea.
func NewProgram(opts ...tea.ProgramOption) *Program {
	p := &Program{
		events: make(chan input.Event, eventBuffer),
		done:   make(chan struct{}),
	}
	p.terminal = New(p)
	p.program = tea.NewProgram(&model{events: p.events, terminal: p.terminal}, opts...)
	return p
}

// Terminal returns the shared render target backed by this program.
func (p *Program) Terminal() *Terminal {
	return p.terminal
}

// Show implements Display.
func (p *Program) Show(frame string) {
	p.program.Send(frameMsg(frame))
}

// ReadEvent blocks until the next event, ctx cancellation, or program exit.
func (p *Program) ReadEvent(ctx context.Context) (input.Event, error) {
	select {
	case ev := <-p.events:
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		return nil, io.EOF
	}
}

// Run blocks until the program exits.
func (p *Program) Run() error {
	defer p.finish()
	_, err := p.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Quit asks the program to exit.
func (p *Program) Quit() {
	p.program.Quit()
}

func (p *Program) finish() {
	p.once.Do(func() {
		p.terminal.Close()
		close(p.done)
	})
}

type model struct {
	events   chan<- input.Event
	terminal *Terminal
	frame    string
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = string(msg)
	case tea.WindowSizeMsg:
		m.terminal.Resize(msg.Width, msg.Height)
		m.push(input.ResizeEvent{Width: msg.Width, Height: msg.Height})
	case tea.KeyMsg:
		if ev, ok := FromTea(msg); ok {
			m.push(ev)
		}
	}
	return m, nil
}

func (m *model) View() string {
	return m.frame
}

// push never blocks the Bubble Tea event loop; a full buffer means the
// navigation loop is stuck in a backend call and the key is dropped.
func (m *model) push(ev input.Event) {
	select {
	case m.events <- ev:
	default:
		logging.Warn("input buffer full, dropping event", map[string]interface{}{"event": ev})
	}
}
