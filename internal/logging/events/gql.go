package events

import (
	"time"

	"github.com/idilsaglam/gqltodo/internal/logging"
)

type GQLTracer struct{}

var GQL = GQLTracer{}

func (GQLTracer) Execute(operation, transport string) {
	logging.Trace("gql.execute", map[string]interface{}{"operation": operation, "transport": transport})
}

func (GQLTracer) Result(operation, outcome string, took time.Duration) {
	logging.Trace("gql.result", map[string]interface{}{
		"operation": operation,
		"outcome":   outcome,
		"ms":        took.Milliseconds(),
	})
}

func (GQLTracer) Refetch(trigger, operation string) {
	logging.Trace("gql.refetch", map[string]interface{}{"trigger": trigger, "operation": operation})
}

func (GQLTracer) TransportError(operation string, err error) {
	if err == nil {
		return
	}
	logging.Trace("gql.error", map[string]interface{}{"operation": operation, "error": err.Error()})
}
