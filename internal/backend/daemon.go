package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultUnit is the systemd unit probed at startup.
const DefaultUnit = "transmission-daemon.service"

// UnitActive asks systemd whether unit is running. A missing systemctl is
// reported as exec.ErrNotFound.
func UnitActive(ctx context.Context, run Runner, unit string) (bool, error) {
	if run == nil {
		run = ExecRunner
	}
	if unit == "" {
		unit = DefaultUnit
	}
	out, err := run(ctx, "systemctl", "is-active", unit)
	state := strings.TrimSpace(string(out))
	if state == "active" {
		return true, nil
	}
	if err != nil && state == "" {
		return false, err
	}
	return false, nil
}

// CheckDaemon verifies a daemon is reachable before the dashboard starts.
// Local daemons are checked through systemd when it is available; remote
// hosts and systems without systemctl fall back to a list call.
func CheckDaemon(ctx context.Context, c *CLI, run Runner, unit string) error {
	if isLocalHost(c.Host()) {
		active, err := UnitActive(ctx, run, unit)
		switch {
		case err == nil && active:
			return nil
		case err == nil:
			return ErrDaemonInactive
		case !errors.Is(err, exec.ErrNotFound):
			return fmt.Errorf("%w: %v", ErrDaemonInactive, err)
		}
	}
	if _, err := c.List(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonInactive, err)
	}
	return nil
}

func isLocalHost(hostport string) bool {
	if hostport == "" {
		return true
	}
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	} else if _, perr := strconv.Atoi(hostport); perr == nil {
		// a bare port number
		return true
	}
	switch strings.ToLower(host) {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
