package prometheus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/owlgo"
	"github.com/hupe1980/owlgo/model"
	"github.com/hupe1980/owlgo/perf"
)

func newConfig() (Config, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	cfg := DefaultConfig()
	cfg.Registry = reg
	return cfg, reg
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCollector_Record(t *testing.T) {
	cfg, reg := newConfig()
	c, err := New(cfg)
	require.NoError(t, err)

	c.RecordMutation(model.SubClassOf, nil)
	c.RecordMutation(model.SubClassOf, nil)
	c.RecordMutation(model.DisjointWith, errors.New("x"))
	c.RecordMaterialize(model.MaterializeResult{Passes: 3, RowsChanged: 7, EquivalencesDerived: 2, Duration: time.Millisecond}, nil)
	c.RecordMaterialize(model.MaterializeResult{Passes: 64}, errors.New("cap"))
	c.RecordIntegrity(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.mutations.WithLabelValues("SubClassOf", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.mutations.WithLabelValues("DisjointWith", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.materializes.WithLabelValues("converged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.materializes.WithLabelValues("partial")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.rowsChanged))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.derived.WithLabelValues("equivalence")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.integrity.WithLabelValues("ok")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"owlgo_mutations_total",
		"owlgo_materializations_total",
		"owlgo_materialization_duration_seconds",
		"owlgo_materialization_passes",
		"owlgo_closure_rows_changed_total",
		"owlgo_derived_pairs_total",
		"owlgo_integrity_checks_total",
	} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	cfg, _ := newConfig()
	_, err := New(cfg)
	require.NoError(t, err)
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestCollector_WithEngine(t *testing.T) {
	cfg, _ := newConfig()
	c, err := New(cfg)
	require.NoError(t, err)

	e, err := owlgo.New(8, owlgo.WithMetricsCollector(c))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.AddSubClass(2, 1))
	require.NoError(t, e.AddSubClass(1, 0))
	require.Error(t, e.AddSubClass(8, 0))
	require.NoError(t, e.Materialize(context.Background()))
	require.NoError(t, e.ValidateIntegrity())

	assert.Equal(t, 2.0, testutil.ToFloat64(c.mutations.WithLabelValues("SubClassOf", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.mutations.WithLabelValues("SubClassOf", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.materializes.WithLabelValues("converged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rowsChanged))
}

func TestMonitorCollector(t *testing.T) {
	cfg, reg := newConfig()
	mon := perf.NewMonitor(perf.DefaultConfig())
	_, err := NewMonitorCollector(cfg, mon, prometheus.Labels{"engine": "test"})
	require.NoError(t, err)

	for _, c := range []uint64{2, 3, 5, 100} {
		mon.Record(c)
	}

	mfs, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, mf := range mfs {
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			byName[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			byName[mf.GetName()] = m.GetGauge().GetValue()
		case m.GetHistogram() != nil:
			byName[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
		}
		require.NotEmpty(t, m.GetLabel())
		assert.Equal(t, "engine", m.GetLabel()[0].GetName())
	}

	assert.Equal(t, 4.0, byName["owlgo_query_calls_total"])
	assert.Equal(t, 1.0, byName["owlgo_query_budget_violations_total"])
	assert.Equal(t, 0.25, byName["owlgo_query_budget_violation_ratio"])
	assert.Equal(t, 27.5, byName["owlgo_query_mean_cycles"])
	assert.Equal(t, 7.0, byName["owlgo_query_budget_cycles"])
	assert.Equal(t, 4.0, byName["owlgo_query_cycles"])
}
