package events

import "github.com/idilsaglam/gqltodo/internal/logging"

type StoreTracer struct{}

var Store = StoreTracer{}

func (StoreTracer) Dispatch(action, from, to string) {
	logging.Trace("store.dispatch", map[string]interface{}{"action": action, "from": from, "to": to})
}
