// Package metrics records GraphQL client activity in a private Prometheus
// registry. The CLI dumps a snapshot into the trace log on exit.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/idilsaglam/gqltodo/internal/gql"
)

// Recorder implements gql.Observer.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gqltodo_operations_total",
				Help: "GraphQL operations executed, by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gqltodo_operation_duration_seconds",
				Help:    "GraphQL round trip latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// Observe satisfies gql.Observer.
func (r *Recorder) Observe(op gql.Operation, outcome gql.Outcome, took time.Duration) {
	r.operations.WithLabelValues(op.String(), string(outcome)).Inc()
	r.duration.WithLabelValues(op.String()).Observe(took.Seconds())
}

// Snapshot flattens counters into "name{label=value,...}" -> value.
// Histograms contribute their sample count.
func (r *Recorder) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	families, err := r.registry.Gather()
	if err != nil {
		return out
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			labels := ""
			for _, lp := range m.GetLabel() {
				if labels != "" {
					labels += ","
				}
				labels += lp.GetName() + "=" + lp.GetValue()
			}
			if labels != "" {
				key += "{" + labels + "}"
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				out[key+"_count"] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}
