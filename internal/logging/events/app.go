package events

import "github.com/idilsaglam/gqltodo/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Exit(code int) {
	logging.Trace("app.exit", map[string]interface{}{"code": code})
}

func (AppTracer) Metrics(snapshot map[string]float64) {
	logging.Trace("app.metrics", snapshot)
}
