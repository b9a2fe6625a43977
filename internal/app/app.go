package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/atomicstack/transmission-tui/internal/backend"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/logging/events"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/screen"
	"github.com/atomicstack/transmission-tui/internal/search"
	"github.com/atomicstack/transmission-tui/internal/term"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Config describes user-provided application options.
type Config struct {
	Remote          string
	Auth            string
	RemoteBin       string
	RefreshInterval time.Duration
	CommandTimeout  time.Duration
	MinInterval     time.Duration
	SearchTimeout   time.Duration
	Screen          nav.Screen
	NoColor         bool
	SkipDaemonCheck bool
	DaemonUnit      string
	ApibayURL       string
	TorrentsCSVURL  string
	Keys            keymap.Map
}

// NewBackend builds the transmission-remote client described by cfg.
func NewBackend(cfg Config) *backend.CLI {
	return newBackend(cfg, nil)
}

// newBackend spaces calls by cfg.MinInterval: the refresh worker and the
// router both invoke transmission-remote, each from its own goroutine.
func newBackend(cfg Config, run backend.Runner) *backend.CLI {
	return backend.NewCLI(backend.Options{
		Binary:      cfg.RemoteBin,
		Host:        cfg.Remote,
		Auth:        cfg.Auth,
		Timeout:     cfg.CommandTimeout,
		MinInterval: cfg.MinInterval,
	}, run)
}

// NewSearcher builds the searcher over both public indexes.
func NewSearcher(cfg Config) *search.Searcher {
	client := &http.Client{Timeout: cfg.SearchTimeout}
	return search.New(cfg.SearchTimeout,
		search.NewApibay(cfg.ApibayURL, client),
		search.NewTorrentsCSV(cfg.TorrentsCSVURL, client),
	)
}

// CheckDaemon fails when the daemon does not look reachable, unless the
// check is disabled.
func CheckDaemon(ctx context.Context, cfg Config, cli *backend.CLI) error {
	if cfg.SkipDaemonCheck {
		return nil
	}
	return backend.CheckDaemon(ctx, cli, nil, cfg.DaemonUnit)
}

// Run bootstraps the terminal, starts the navigation loop and blocks until
// the user quits.
func Run(cfg Config) (err error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { events.App.Exit(err) }()

	cli := NewBackend(cfg)
	if err := CheckDaemon(ctx, cfg, cli); err != nil {
		return err
	}
	if cfg.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	program := term.NewProgram(tea.WithAltScreen())
	screens := NewScreens(screen.Env{
		Ctx:      ctx,
		Backend:  backend.Traced(cli),
		Searcher: NewSearcher(cfg),
		Keys:     cfg.Keys,
		Host:     cfg.Remote,
	})
	router := nav.New(program.Terminal(), program, cfg.Keys, screens.Routes(),
		nav.WithInterval(cfg.RefreshInterval),
		nav.WithInitialScreen(cfg.Screen),
	)

	routed := make(chan error, 1)
	go func() {
		err := router.Run(ctx)
		program.Quit()
		routed <- err
	}()
	runErr := program.Run()
	cancel()
	if routerErr := <-routed; routerErr != nil {
		runErr = errors.Join(runErr, fmt.Errorf("navigation: %w", routerErr))
	}
	return runErr
}
