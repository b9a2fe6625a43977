// Package config resolves runtime settings from flags, environment
// variables and an optional TOML or YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/transmission-tui/internal/app"
	"github.com/atomicstack/transmission-tui/internal/backend"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/refresh"
	"github.com/atomicstack/transmission-tui/internal/search"
	"github.com/spf13/pflag"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the config file that was read, empty when none was.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envPrefix    = "TRANSMISSION_TUI_"
	keyPrefix    = "kb-"
	configFlag   = "config"
	appDirName   = "transmission-tui"
	defaultFile  = "config.toml"
	flagSetName  = "transmission-tui"
	defaultLogTo = "transmission-tui.log"
)

type kind int

const (
	kindString kind = iota
	kindBool
	kindDuration
	kindKey
)

type setting struct {
	name  string
	kind  kind
	def   string
	usage string
}

func settings() []setting {
	out := []setting{
		{"remote", kindString, "", "transmission daemon host:port passed to transmission-remote"},
		{"auth", kindString, "", "daemon credentials as user:password"},
		{"remote-bin", kindString, backend.DefaultBinary, "transmission-remote executable"},
		{"refresh-interval", kindDuration, refresh.DefaultInterval.String(), "redraw interval for live screens"},
		{"command-timeout", kindDuration, "10s", "timeout for each transmission-remote call"},
		{"search-timeout", kindDuration, "15s", "timeout for a search across all sources"},
		{"min-interval", kindDuration, "250ms", "minimum spacing between transmission-remote calls"},
		{"screen", kindString, nav.Home.String(), "initial screen"},
		{"no-color", kindBool, "false", "disable colours"},
		{"skip-daemon-check", kindBool, "false", "do not probe the daemon at startup"},
		{"daemon-unit", kindString, backend.DefaultUnit, "systemd unit probed at startup"},
		{"apibay-url", kindString, search.DefaultApibayURL, "PirateBay API base URL"},
		{"torrents-csv-url", kindString, search.DefaultTorrentsCSVURL, "torrents-csv base URL"},
		{"trace", kindBool, "false", "enable verbose JSON trace logging"},
		{"log-file", kindString, defaultLogTo, "path to the log file"},
	}
	defaults := keymap.Default()
	for _, a := range keymap.Actions() {
		out = append(out, setting{
			name:  keyPrefix + a.String(),
			kind:  kindKey,
			def:   string(defaults.Rune(a)),
			usage: fmt.Sprintf("letter used with ctrl for %s", a.Description()),
		})
	}
	return out
}

// EnvName returns the environment variable consulted for a setting.
func EnvName(name string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Bind registers every setting on fs.
func Bind(fs *pflag.FlagSet) {
	fs.String(configFlag, "", "config file (default $XDG_CONFIG_HOME/"+appDirName+"/"+defaultFile+")")
	for _, s := range settings() {
		switch s.kind {
		case kindBool:
			fs.Bool(s.name, s.def == "true", s.usage)
		case kindDuration:
			d, _ := time.ParseDuration(s.def)
			fs.Duration(s.name, d, s.usage)
		default:
			fs.String(s.name, s.def, s.usage)
		}
	}
}

// LoadArgs parses args into a fresh flag set and resolves against environ.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet(flagSetName, pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	Bind(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return Resolve(fs, args, environ)
}

// Resolve combines parsed flags with environ and the config file.
func Resolve(fs *pflag.FlagSet, args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path, explicit := configPath(fs, env)
	file := map[string]string{}
	if path != "" {
		values, err := LoadFile(path)
		switch {
		case err == nil:
			file = values
		case !explicit && errors.Is(err, os.ErrNotExist):
			path = ""
		default:
			return Config{}, err
		}
	}

	values := make(map[string]string)
	for _, s := range settings() {
		v := s.def
		if fv, ok := file[s.name]; ok {
			v = fv
		}
		if ev, ok := env[EnvName(s.name)]; ok && strings.TrimSpace(ev) != "" {
			v = ev
		}
		if f := fs.Lookup(s.name); f != nil && f.Changed {
			v = f.Value.String()
		}
		values[s.name] = v
	}
	for name := range file {
		if _, ok := values[name]; !ok {
			return Config{}, fmt.Errorf("%s: unknown setting %q", path, name)
		}
	}

	cfg, err := build(values)
	if err != nil {
		return Config{}, err
	}
	cfg.File = path
	cfg.Flags = values
	cfg.Args = append([]string(nil), args...)
	return cfg, nil
}

func build(v map[string]string) (Config, error) {
	var errs []error
	duration := func(name string) time.Duration {
		d, err := time.ParseDuration(strings.TrimSpace(v[name]))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return d
	}
	boolean := func(name string) bool {
		b, err := strconv.ParseBool(strings.TrimSpace(v[name]))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return b
	}

	screen, err := nav.ParseScreen(v["screen"])
	if err != nil {
		errs = append(errs, fmt.Errorf("screen: %w", err))
	}
	keys := keymap.Default()
	for _, a := range keymap.Actions() {
		name := keyPrefix + a.String()
		r, err := keymap.ParseKey(v[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		keys = keys.With(a, r)
	}

	cfg := Config{
		App: app.Config{
			Remote:          strings.TrimSpace(v["remote"]),
			Auth:            v["auth"],
			RemoteBin:       strings.TrimSpace(v["remote-bin"]),
			RefreshInterval: duration("refresh-interval"),
			CommandTimeout:  duration("command-timeout"),
			SearchTimeout:   duration("search-timeout"),
			MinInterval:     duration("min-interval"),
			Screen:          screen,
			NoColor:         boolean("no-color"),
			SkipDaemonCheck: boolean("skip-daemon-check"),
			DaemonUnit:      strings.TrimSpace(v["daemon-unit"]),
			ApibayURL:       strings.TrimSpace(v["apibay-url"]),
			TorrentsCSVURL:  strings.TrimSpace(v["torrents-csv-url"]),
			Keys:            keys,
		},
		Logging: Logging{
			FilePath: strings.TrimSpace(v["log-file"]),
			Trace:    boolean("trace"),
		},
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

func configPath(fs *pflag.FlagSet, env map[string]string) (string, bool) {
	if f := fs.Lookup(configFlag); f != nil && f.Changed {
		return f.Value.String(), true
	}
	if v := strings.TrimSpace(env[EnvName(configFlag)]); v != "" {
		return v, true
	}
	base := strings.TrimSpace(env["XDG_CONFIG_HOME"])
	if base == "" {
		home := strings.TrimSpace(env["HOME"])
		if home == "" {
			return "", false
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDirName, defaultFile), false
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

// Validate ensures the resolved configuration is usable.
func Validate(cfg Config) error {
	var errs []error
	positive := []struct {
		name string
		d    time.Duration
	}{
		{"refresh-interval", cfg.App.RefreshInterval},
		{"command-timeout", cfg.App.CommandTimeout},
		{"search-timeout", cfg.App.SearchTimeout},
	}
	for _, p := range positive {
		if p.d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive (got %s)", p.name, p.d))
		}
	}
	if cfg.App.MinInterval < 0 || cfg.App.MinInterval >= cfg.App.RefreshInterval {
		errs = append(errs, fmt.Errorf("min-interval must be at least 0 and below refresh-interval (got %s)", cfg.App.MinInterval))
	}
	if cfg.App.RemoteBin == "" {
		errs = append(errs, errors.New("remote-bin must not be empty"))
	}
	if err := cfg.App.Keys.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
