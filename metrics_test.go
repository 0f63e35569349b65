package facet_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facet-go/facet"
	"github.com/facet-go/facet/facettest"
)

func TestMetrics_countsByOutcome(t *testing.T) {
	t.Parallel()

	promReg := prometheus.NewRegistry()
	metrics := facet.NewMetrics(promReg)

	reg, _ := newNotesRegistry(facet.WithMetrics(metrics))
	c := facettest.NewClient(t, facet.NewREST(reg))

	facettest.Get[Note](t, c, "/notes/1")
	facettest.Get[Note](t, c, "/notes/1")
	facettest.Get[facet.Problem](t, c, "/notes/99")

	families, err := promReg.Gather()
	require.NoError(t, err)

	var sawCalls, sawDuration bool
	for _, f := range families {
		switch f.GetName() {
		case "facet_calls_total":
			sawCalls = true
		case "facet_call_duration_seconds":
			sawDuration = true
		}
	}
	assert.True(t, sawCalls)
	assert.True(t, sawDuration)

	ok := testutil.ToFloat64(metricWithLabels(t, promReg, "facet_calls_total", "notes", "get", "ok"))
	failed := testutil.ToFloat64(metricWithLabels(t, promReg, "facet_calls_total", "notes", "get", "error"))
	assert.Equal(t, 2.0, ok)
	assert.Equal(t, 1.0, failed)
}

// metricWithLabels rebuilds a single-child collector for ToFloat64.
func metricWithLabels(t *testing.T, reg *prometheus.Registry, name, resource, operation, outcome string) prometheus.Collector {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["resource"] == resource && labels["operation"] == operation && labels["outcome"] == outcome {
				g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "probe"})
				g.Set(m.GetCounter().GetValue())
				return g
			}
		}
	}
	t.Fatalf("metric %s{resource=%q,operation=%q,outcome=%q} not found", name, resource, operation, outcome)
	return nil
}

func TestMetrics_sharedAcrossAdapters(t *testing.T) {
	t.Parallel()

	promReg := prometheus.NewRegistry()
	metrics := facet.NewMetrics(promReg)

	reg, _ := newNotesRegistry(facet.WithMetrics(metrics))
	rest := facet.NewREST(reg)
	rest.Handle("POST /rpc", facet.NewRPC(reg))
	c := facettest.NewClient(t, rest)

	facettest.Get[Note](t, c, "/notes/1")
	facettest.Call[Note](t, c, "/rpc", "notes.get", map[string]string{"id": "1"}, nil)

	total := testutil.ToFloat64(metricWithLabels(t, promReg, "facet_calls_total", "notes", "get", "ok"))
	assert.Equal(t, 2.0, total)
}
