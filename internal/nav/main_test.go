package nav

import (
	"io"
	"os"
	"testing"

	"github.com/atomicstack/transmission-tui/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}
