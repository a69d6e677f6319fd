package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/gqltodo/internal/gql"
)

func TestRecorderCountsOutcomes(t *testing.T) {
	r := New()
	r.Observe(gql.Todos, gql.OutcomeOK, 10*time.Millisecond)
	r.Observe(gql.Todos, gql.OutcomeOK, 20*time.Millisecond)
	r.Observe(gql.CreateTodo, gql.OutcomePayloadError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.operations.WithLabelValues("Todos", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("CreateTodo", "payload_error")))
}

func TestSnapshotFlattensFamilies(t *testing.T) {
	r := New()
	r.Observe(gql.DeleteTodo, gql.OutcomeTransportError, time.Millisecond)

	snap := r.Snapshot()
	assert.Equal(t, 1.0, snap["gqltodo_operations_total{operation=DeleteTodo,outcome=transport_error}"])
	assert.Equal(t, 1.0, snap["gqltodo_operation_duration_seconds{operation=DeleteTodo}_count"])
}

func TestRecorderIsAnObserver(t *testing.T) {
	var _ gql.Observer = New()
}
