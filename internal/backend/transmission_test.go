package backend

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls  []call
	output map[string]string
	err    error
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: append([]string(nil), args...)})
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.output[strings.Join(args, " ")]), nil
}

const listReply = `{"arguments":{"torrents":[
 {"id":1,"name":"debian.iso","eta":-1,"leftUntilDone":0,"sizeWhenDone":1000,"rateDownload":0,"rateUpload":2048,"status":6},
 {"id":7,"name":"arch.iso","eta":3725,"leftUntilDone":500,"sizeWhenDone":2000,"rateDownload":1500000,"rateUpload":0,"status":4}
]},"result":"success","tag":0}`

func TestListDecodesTorrents(t *testing.T) {
	r := &fakeRunner{output: map[string]string{"-j -l": listReply}}
	c := NewCLI(Options{}, r.run)

	torrents, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, torrents, 2)
	assert.Equal(t, "debian.iso", torrents[0].Name)
	assert.Equal(t, int64(7), torrents[1].ID)
	assert.Equal(t, StatusDownloading, torrents[1].Status)
	require.Len(t, r.calls, 1)
	assert.Equal(t, DefaultBinary, r.calls[0].name)
}

func TestArgsIncludeHostAndAuth(t *testing.T) {
	r := &fakeRunner{output: map[string]string{}}
	c := NewCLI(Options{Binary: "tr", Host: "nas:9091", Auth: "me:secret"}, r.run)

	require.NoError(t, c.Stop(context.Background(), 3))
	require.Len(t, r.calls, 1)
	assert.Equal(t, "tr", r.calls[0].name)
	assert.Equal(t, []string{"nas:9091", "-n", "me:secret", "-j", "-t", "3", "-S"}, r.calls[0].args)
}

func TestActionArguments(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		do   func(*CLI) error
		want string
	}{
		{"add", func(c *CLI) error { return c.Add(ctx, "magnet:?xt=urn:btih:abc") }, "-j -a magnet:?xt=urn:btih:abc"},
		{"remove", func(c *CLI) error { return c.Remove(ctx, 2, false) }, "-j -t 2 -r"},
		{"remove-and-delete", func(c *CLI) error { return c.Remove(ctx, 2, true) }, "-j -t 2 --remove-and-delete"},
		{"start", func(c *CLI) error { return c.Start(ctx, 4) }, "-j -t 4 -s"},
		{"stop", func(c *CLI) error { return c.Stop(ctx, 4) }, "-j -t 4 -S"},
		{"reannounce", func(c *CLI) error { return c.Reannounce(ctx, 5) }, "-j -t 5 --reannounce"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &fakeRunner{output: map[string]string{}}
			require.NoError(t, tc.do(NewCLI(Options{}, r.run)))
			require.Len(t, r.calls, 1)
			assert.Equal(t, tc.want, strings.Join(r.calls[0].args, " "))
		})
	}
}

func TestAddRejectsBlankSource(t *testing.T) {
	r := &fakeRunner{}
	err := NewCLI(Options{}, r.run).Add(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptySource)
	assert.Empty(t, r.calls)
}

func TestInfoMergesSections(t *testing.T) {
	out := `{"arguments":{"torrents":[{"id":7,"name":"arch.iso","downloadDir":"/srv/dl","peersConnected":3}]},"result":"success"}
{"arguments":{"torrents":[{"id":7,"peers":[{"clientName":"qBittorrent"},{"clientName":"qBittorrent"},{"clientName":"Transmission"}]}]},"result":"success"}
{"arguments":{"torrents":[{"id":7,"files":[{"name":"arch.iso","length":2000,"bytesCompleted":1500}]}]},"result":"success"}
{"arguments":{"torrents":[{"id":7,"trackerStats":[{"host":"tracker.example:443"}]}]},"result":"success"}`
	r := &fakeRunner{output: map[string]string{"-j -t 7 -i -ip -if -it": out}}

	tor, err := NewCLI(Options{}, r.run).Info(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "arch.iso", tor.Name)
	assert.Equal(t, "/srv/dl", tor.DownloadDir)
	assert.Equal(t, 3, tor.PeersConnected)
	assert.Equal(t, "qBittorrent, Transmission", tor.PeerClients())
	require.Len(t, tor.Files, 1)
	require.Len(t, tor.TrackerStats, 1)
}

func TestInfoNotFound(t *testing.T) {
	out := `{"arguments":{"torrents":[]},"result":"success"}`
	r := &fakeRunner{output: map[string]string{"-j -t 9 -i -ip -if -it": out}}
	_, err := NewCLI(Options{}, r.run).Info(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFailureResultBecomesError(t *testing.T) {
	r := &fakeRunner{output: map[string]string{"-j -t 1 -r": `{"arguments":{},"result":"invalid or corrupt torrent file"}`}}
	err := NewCLI(Options{}, r.run).Remove(context.Background(), 1, false)
	var resErr *ResultError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "remove", resErr.Op)
}

func TestPlainTextOutputIsSuccess(t *testing.T) {
	r := &fakeRunner{output: map[string]string{"-j -t 1 -s": `localhost:9091/transmission/rpc/ responded: "success"`}}
	assert.NoError(t, NewCLI(Options{}, r.run).Start(context.Background(), 1))
}

func TestMalformedJSON(t *testing.T) {
	r := &fakeRunner{output: map[string]string{"-j -l": `{"arguments":`}}
	_, err := NewCLI(Options{}, r.run).List(context.Background())
	assert.Error(t, err)
}

func TestRunnerErrorsAreWrapped(t *testing.T) {
	boom := errors.New("exit status 1")
	r := &fakeRunner{err: &CommandError{Command: "transmission-remote", Args: []string{"-n", "me:secret", "-l"}, Stderr: "Couldn't connect", Err: boom}}
	_, err := NewCLI(Options{}, r.run).List(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Couldn't connect")
	assert.NotContains(t, err.Error(), "secret")
}

func TestTimeoutIsApplied(t *testing.T) {
	var deadline time.Time
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		deadline, _ = ctx.Deadline()
		return nil, nil
	}
	require.NoError(t, NewCLI(Options{Timeout: time.Minute}, run).Start(context.Background(), 1))
	assert.False(t, deadline.IsZero())
}

func TestExecRunnerReportsMissingBinary(t *testing.T) {
	_, err := ExecRunner(context.Background(), "transmission-tui-definitely-missing-binary")
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}
