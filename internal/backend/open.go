package backend

import (
	"context"
	"errors"
	"runtime"
)

// OpenLocation opens dir in the desktop file manager.
func OpenLocation(ctx context.Context, run Runner, dir string) error {
	if dir == "" {
		return errors.New("open location: torrent has no download directory")
	}
	if run == nil {
		run = ExecRunner
	}
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	_, err := run(ctx, opener, dir)
	return err
}
