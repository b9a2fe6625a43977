package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/transmission-tui/internal/app"
	"github.com/atomicstack/transmission-tui/internal/config"
	"github.com/atomicstack/transmission-tui/internal/keymap"
	"github.com/atomicstack/transmission-tui/internal/nav"
	"github.com/atomicstack/transmission-tui/internal/search"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Remote:          "nas:9091",
			Auth:            "user:secret",
			RemoteBin:       "transmission-remote",
			RefreshInterval: 3 * time.Second,
			Screen:          nav.Home,
			Keys:            keymap.Default(),
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"remote":           "nas:9091",
			"auth":             "user:secret",
			"refresh-interval": "3s",
		},
		Args: []string{"--remote", "nas:9091"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["remote"] != "nas:9091" {
		t.Fatalf("expected remote flag %q, got %v", "nas:9091", flagsValue["remote"])
	}
	if flagsValue["refresh-interval"] != "3s" {
		t.Fatalf("expected refresh interval 3s, got %v", flagsValue["refresh-interval"])
	}
	if flagsValue["auth"] != "***" {
		t.Fatalf("expected auth redacted, got %v", flagsValue["auth"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	cfgValue, ok := payload["config"].(config.Config)
	if !ok {
		t.Fatalf("expected config in payload")
	}
	if cfgValue.App.Auth != "***" {
		t.Fatalf("expected redacted credentials, got %q", cfgValue.App.Auth)
	}
	if cfgValue.App.Remote != cfg.App.Remote || cfgValue.App.Keys != cfg.App.Keys {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
	if cfg.App.Auth != "user:secret" {
		t.Fatalf("expected caller's config untouched, got %q", cfg.App.Auth)
	}
}

func TestKeyLinesListEveryAction(t *testing.T) {
	lines := keyLines(keymap.Default().With(keymap.Add, 'x'))
	if len(lines) != len(keymap.Actions())+1 {
		t.Fatalf("expected header plus one line per action, got %d", len(lines))
	}
	found := false
	for _, line := range lines {
		if strings.HasPrefix(line, "add") && strings.Contains(line, "ctrl+x") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected rebound add key in %q", lines)
	}
}

func TestResultLines(t *testing.T) {
	if got := resultLines(nil, false); len(got) != 1 || got[0] != "no results" {
		t.Fatalf("expected placeholder, got %q", got)
	}
	hits := []search.Candidate{
		{Name: "Sintel", InfoHash: "cafe", Seeders: 40, Leechers: 2, Size: 1000, Source: search.SourceTorrentsCSV},
	}
	lines := resultLines(hits, true)
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", lines)
	}
	if !strings.HasPrefix(lines[0], "Name") {
		t.Fatalf("expected header first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "magnet:?xt=urn:btih:cafe") {
		t.Fatalf("expected magnet column, got %q", lines[1])
	}
	if !strings.Contains(lines[1], "1.0 kB") {
		t.Fatalf("expected humanized size, got %q", lines[1])
	}
}

func TestKeysCommandHonoursFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"keys", "--kb-search", "f", "--log-file", filepath.Join(dir, "tui.log")})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "ctrl+f") {
		t.Fatalf("expected rebound search key, got %q", out.String())
	}
}

func TestConfigErrorsAreMarked(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"keys", "--kb-add", "s", "--log-file", filepath.Join(dir, "tui.log")})
	err := root.Execute()
	if err == nil {
		t.Fatalf("expected conflict error")
	}
	if _, ok := err.(configError); !ok {
		t.Fatalf("expected configError, got %T: %v", err, err)
	}
}
