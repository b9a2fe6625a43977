package events

import (
	"time"

	"github.com/atomicstack/transmission-tui/internal/logging"
)

type NavTracer struct{}

type RefreshTracer struct{}

type ActionTracer struct{}

var (
	Nav     = NavTracer{}
	Refresh = RefreshTracer{}
	Action  = ActionTracer{}
)

func (NavTracer) Transition(from, to, cause string) {
	logging.Trace("nav.transition", map[string]interface{}{"from": from, "to": to, "cause": cause})
}

func (NavTracer) Key(screen, key, kind string) {
	logging.Trace("nav.key", map[string]interface{}{"screen": screen, "key": key, "kind": kind})
}

func (NavTracer) Hotkey(screen, action string) {
	logging.Trace("nav.hotkey", map[string]interface{}{"screen": screen, "action": action})
}

func (RefreshTracer) Start(screen string, interval time.Duration) {
	logging.Trace("refresh.start", map[string]interface{}{"screen": screen, "interval": interval.String()})
}

func (RefreshTracer) Cancel(screen string) {
	logging.Trace("refresh.cancel", map[string]interface{}{"screen": screen})
}

func (RefreshTracer) Stop(screen string, draws int64) {
	logging.Trace("refresh.stop", map[string]interface{}{"screen": screen, "draws": draws})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}
