package backend

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/atomicstack/transmission-tui/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracedLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(logging.Close)

	r := &fakeRunner{err: errors.New("daemon gone")}
	b := Traced(NewCLI(Options{}, r.run))
	err := b.Stop(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "backend stop")
	assert.Contains(t, buf.String(), "daemon gone")
}

func TestTracedDoesNotDoubleWrap(t *testing.T) {
	b := Traced(NewCLI(Options{}, (&fakeRunner{}).run))
	assert.Equal(t, b, Traced(b))
	assert.Nil(t, Traced(nil))
}
