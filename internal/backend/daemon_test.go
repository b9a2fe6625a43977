package backend

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func systemctl(state string, err error) Runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(state + "\n"), err
	}
}

func TestUnitActive(t *testing.T) {
	ok, err := UnitActive(context.Background(), systemctl("active", nil), "")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = UnitActive(context.Background(), systemctl("inactive", errors.New("exit status 3")), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckDaemonInactive(t *testing.T) {
	c := NewCLI(Options{}, (&fakeRunner{}).run)
	err := CheckDaemon(context.Background(), c, systemctl("inactive", errors.New("exit status 3")), DefaultUnit)
	assert.ErrorIs(t, err, ErrDaemonInactive)
}

func TestCheckDaemonFallsBackWithoutSystemctl(t *testing.T) {
	missing := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, &CommandError{Command: name, Err: &exec.Error{Name: name, Err: exec.ErrNotFound}}
	}
	r := &fakeRunner{output: map[string]string{"-j -l": listReply}}
	require.NoError(t, CheckDaemon(context.Background(), NewCLI(Options{}, r.run), missing, DefaultUnit))
	assert.Len(t, r.calls, 1)

	failing := &fakeRunner{err: errors.New("connection refused")}
	err := CheckDaemon(context.Background(), NewCLI(Options{}, failing.run), missing, DefaultUnit)
	assert.ErrorIs(t, err, ErrDaemonInactive)
}

func TestCheckDaemonRemoteSkipsSystemd(t *testing.T) {
	called := false
	sys := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		called = true
		return nil, nil
	}
	r := &fakeRunner{output: map[string]string{"nas:9091 -j -l": listReply}}
	require.NoError(t, CheckDaemon(context.Background(), NewCLI(Options{Host: "nas:9091"}, r.run), sys, DefaultUnit))
	assert.False(t, called)
}

func TestIsLocalHost(t *testing.T) {
	for _, h := range []string{"", "9091", "localhost:9091", "127.0.0.1:9091", "[::1]:9091"} {
		assert.True(t, isLocalHost(h), h)
	}
	for _, h := range []string{"nas", "nas:9091", "10.0.0.2:9091"} {
		assert.False(t, isLocalHost(h), h)
	}
}
