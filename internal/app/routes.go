package app

import (
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/screen"
)

// Screens holds one instance of every screen.
type Screens struct {
	Home       *screen.Home
	Add        *screen.Add
	Remove     *screen.Remove
	Reannounce *screen.Reannounce
	Info       *screen.Info
	Search     *screen.Search
	Results    *screen.Results
	SearchInfo *screen.SearchInfo
	Help       *screen.Help
}

// NewScreens builds every screen over env.
func NewScreens(env screen.Env) *Screens {
	s := &Screens{
		Home:       screen.NewHome(env),
		Add:        screen.NewAdd(env),
		Remove:     screen.NewRemove(env),
		Reannounce: screen.NewReannounce(env),
		Info:       screen.NewInfo(env),
		Search:     screen.NewSearch(env),
		Results:    screen.NewResults(env),
		Help:       screen.NewHelp(env),
	}
	s.SearchInfo = screen.NewSearchInfo(env, s.Results)
	return s
}

// Routes is the screen table handed to the router. Home's sub-screens
// snapshot the highlighted row when they are entered; the results screen
// picks up a new result set whenever it is drawn.
func (s *Screens) Routes() map[nav.Screen]nav.Route {
	return map[nav.Screen]nav.Route{
		nav.Home: {
			View:    s.Home,
			Handler: s.Home,
			Shortcuts: []nav.Shortcut{
				{Action: keymap.Remove, Target: nav.Remove, Before: func() { s.Remove.SetTarget(screen.TargetOf(s.Home)) }},
				{Action: keymap.Reannounce, Target: nav.Reannounce, Before: func() { s.Reannounce.SetTarget(screen.TargetOf(s.Home)) }},
				{Action: keymap.Info, Target: nav.Info, Before: func() { s.Info.SetTarget(screen.TargetOf(s.Home)) }},
			},
		},
		nav.Add:        {View: s.Add, Handler: s.Add},
		nav.Remove:     {View: s.Remove, Handler: s.Remove},
		nav.Reannounce: {View: s.Reannounce, Handler: s.Reannounce},
		nav.Info:       {View: s.Info, Handler: s.Info},
		nav.Search:     {View: s.Search, Handler: s.Search},
		nav.SearchResults: {
			View:    s.Results,
			Handler: s.Results,
			Prepare: func() { s.Results.SetOutcome(s.Search.Outcome()) },
			Shortcuts: []nav.Shortcut{
				{Action: keymap.Info, Target: nav.SearchInfo},
				{Action: keymap.Download, Target: nav.Home, Before: s.Results.Download},
			},
		},
		nav.SearchInfo: {View: s.SearchInfo, Handler: s.SearchInfo},
		nav.Help:       {View: s.Help, Handler: s.Help},
		nav.Popup:      {View: screen.Popup{}, Handler: screen.Popup{}},
	}
}
