package events

import (
	"time"

	"github.com/atomicstack/transmission-tui/internal/logging"
)

type BackendTracer struct{}

type SearchTracer struct{}

var (
	Backend = BackendTracer{}
	Search  = SearchTracer{}
)

func (BackendTracer) Call(op string, id int64, elapsed time.Duration, err error) {
	payload := map[string]interface{}{"op": op, "elapsed": elapsed.String()}
	if id != 0 {
		payload["id"] = id
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("backend.call", payload)
}

func (SearchTracer) Query(term string, results int, err error) {
	payload := map[string]interface{}{"term": term, "results": results}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("search.query", payload)
}

func (SearchTracer) Provider(name string, results int, elapsed time.Duration, err error) {
	payload := map[string]interface{}{"provider": name, "results": results, "elapsed": elapsed.String()}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("search.provider", payload)
}
