package facet

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects dispatch-level Prometheus metrics. Because it hooks the
// dispatcher rather than the HTTP stack, calls are labeled by resource and
// operation and the numbers agree across every adapter the registry is
// mounted on.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates dispatch metrics and registers them on reg.
// Pass prometheus.DefaultRegisterer to use the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facet_calls_total",
			Help: "Dispatched operation calls by resource, operation, and outcome.",
		}, []string{"resource", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "facet_call_duration_seconds",
			Help:    "Operation dispatch latency by resource and operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "operation"}),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

func (m *Metrics) observe(op *operation, outcome string, d time.Duration) {
	resource := op.resource.name
	label := op.kind.String()
	if op.kind == opAction {
		label = op.action
	}
	m.calls.WithLabelValues(resource, label, outcome).Inc()
	m.duration.WithLabelValues(resource, label).Observe(d.Seconds())
}
