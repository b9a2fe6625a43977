package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultBinary is the client executable looked up on PATH.
const DefaultBinary = "transmission-remote"

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec. Failures are reported as
// *CommandError carrying the trimmed standard error.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, &CommandError{
			Command: name,
			Args:    args,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return out, nil
}

// Options configures the CLI client.
type Options struct {
	// Binary defaults to transmission-remote.
	Binary string
	// Host is the optional host:port positional argument.
	Host string
	// Auth is "user:password", passed with -n.
	Auth string
	// Timeout bounds every invocation; zero means no limit.
	Timeout time.Duration
	// MinInterval spaces invocations apart.
	MinInterval time.Duration
}

// CLI implements Backend by shelling out to transmission-remote with JSON
// output enabled.
type CLI struct {
	opts     Options
	run      Runner
	throttle *throttle
}

// NewCLI builds a client. A nil runner uses ExecRunner.
func NewCLI(opts Options, run Runner) *CLI {
	if strings.TrimSpace(opts.Binary) == "" {
		opts.Binary = DefaultBinary
	}
	if run == nil {
		run = ExecRunner
	}
	return &CLI{opts: opts, run: run, throttle: newThrottle(opts.MinInterval)}
}

// Host returns the configured daemon address, empty for the local default.
func (c *CLI) Host() string {
	return c.opts.Host
}

type reply struct {
	Arguments struct {
		Torrents []json.RawMessage `json:"torrents"`
	} `json:"arguments"`
	Result string `json:"result"`
	Tag    int    `json:"tag"`
}

// List returns every torrent with the fields shown on the home table.
func (c *CLI) List(ctx context.Context) ([]Torrent, error) {
	replies, err := c.invoke(ctx, "list", "-l")
	if err != nil {
		return nil, err
	}
	var out []Torrent
	for _, r := range replies {
		for _, raw := range r.Arguments.Torrents {
			var t Torrent
			if err := json.Unmarshal(raw, &t); err != nil {
				return nil, fmt.Errorf("list: decode torrent: %w", err)
			}
			out = append(out, t)
		}
	}
	return out, nil
}

// Info returns details, peers, files and trackers for one torrent. Each
// section arrives as its own JSON reply and is decoded into the same value.
func (c *CLI) Info(ctx context.Context, id int64) (Torrent, error) {
	replies, err := c.invoke(ctx, "info", "-t", idArg(id), "-i", "-ip", "-if", "-it")
	if err != nil {
		return Torrent{}, err
	}
	var (
		t     Torrent
		found bool
	)
	for _, r := range replies {
		for _, raw := range r.Arguments.Torrents {
			if err := json.Unmarshal(raw, &t); err != nil {
				return Torrent{}, fmt.Errorf("info: decode torrent: %w", err)
			}
			found = true
		}
	}
	if !found {
		return Torrent{}, fmt.Errorf("info %d: %w", id, ErrNotFound)
	}
	if t.ID == 0 {
		t.ID = id
	}
	return t, nil
}

// Add hands a magnet link, URL or local .torrent path to the daemon.
func (c *CLI) Add(ctx context.Context, source string) error {
	if strings.TrimSpace(source) == "" {
		return ErrEmptySource
	}
	_, err := c.invoke(ctx, "add", "-a", source)
	return err
}

// Remove drops a torrent, optionally deleting downloaded data.
func (c *CLI) Remove(ctx context.Context, id int64, deleteData bool) error {
	flag := "-r"
	if deleteData {
		flag = "--remove-and-delete"
	}
	_, err := c.invoke(ctx, "remove", "-t", idArg(id), flag)
	return err
}

// Start resumes a torrent.
func (c *CLI) Start(ctx context.Context, id int64) error {
	_, err := c.invoke(ctx, "start", "-t", idArg(id), "-s")
	return err
}

// Stop pauses a torrent.
func (c *CLI) Stop(ctx context.Context, id int64) error {
	_, err := c.invoke(ctx, "stop", "-t", idArg(id), "-S")
	return err
}

// Reannounce asks the trackers for more peers.
func (c *CLI) Reannounce(ctx context.Context, id int64) error {
	_, err := c.invoke(ctx, "reannounce", "-t", idArg(id), "--reannounce")
	return err
}

func idArg(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (c *CLI) args(extra ...string) []string {
	args := make([]string, 0, len(extra)+4)
	if c.opts.Host != "" {
		args = append(args, c.opts.Host)
	}
	if c.opts.Auth != "" {
		args = append(args, "-n", c.opts.Auth)
	}
	args = append(args, "-j")
	return append(args, extra...)
}

func (c *CLI) invoke(ctx context.Context, op string, extra ...string) ([]reply, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	if err := c.throttle.wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := c.run(ctx, c.opts.Binary, c.args(extra...)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return decodeReplies(op, out)
}

// decodeReplies reads the stream of JSON documents printed by one
// invocation. Older clients print plain text for actions; a zero exit with
// no JSON is treated as success.
func decodeReplies(op string, out []byte) ([]reply, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var replies []reply
	for {
		var r reply
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: decode reply: %w", op, err)
		}
		if r.Result != "" && r.Result != "success" {
			return nil, &ResultError{Op: op, Result: r.Result}
		}
		replies = append(replies, r)
	}
	return replies, nil
}
