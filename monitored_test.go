package owlgo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/owlgo"
	"github.com/hupe1980/owlgo/model"
	"github.com/hupe1980/owlgo/perf"
	"github.com/hupe1980/owlgo/testutil"
)

func TestMonitored_SameAnswers(t *testing.T) {
	e := newEngine(t, 100)
	for _, a := range testutil.NewRNG(5).Ontology(testutil.DefaultOntologyConfig(100)) {
		require.NoError(t, e.Apply(a))
	}
	require.NoError(t, e.Materialize(context.Background()))

	m := e.Monitored(perf.DefaultConfig())
	assert.Same(t, e, m.Engine())

	calls := 0
	for a := model.EntityID(0); a < 100; a++ {
		for b := model.EntityID(0); b < 100; b++ {
			assert.Equal(t, e.IsSubClassOf(a, b), m.IsSubClassOf(a, b))
			assert.Equal(t, e.IsEquivalent(a, b), m.IsEquivalent(a, b))
			assert.Equal(t, e.IsDisjoint(a, b), m.IsDisjoint(a, b))
			calls += 3
		}
		assert.Equal(t, e.HasPropertyCharacteristic(a, model.Transitive), m.HasPropertyCharacteristic(a, model.Transitive))
		d1, ok1 := e.Domain(a)
		d2, ok2 := m.Domain(a)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, d1, d2)
		r1, ok1 := e.Range(a)
		r2, ok2 := m.Range(a)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, r1, r2)
		calls += 3
	}

	stats := m.GetStats()
	assert.Equal(t, uint64(calls), stats.Calls)
	assert.Equal(t, uint64(perf.DefaultBudgetCycles), stats.Budget)
	assert.LessOrEqual(t, stats.MinCycles, stats.MaxCycles)

	m.ResetStats()
	assert.Zero(t, m.GetStats().Calls)
	assert.NoError(t, m.Validate7Tick(), "no calls is no violation")
}

func TestMonitored_Validate7Tick(t *testing.T) {
	e := newEngine(t, 8)

	// A one-cycle budget with zero tolerance fails on any hardware.
	mon := perf.NewMonitor(perf.Config{BudgetCycles: 1})
	m := owlgo.NewMonitored(e, mon)
	mon.Record(2)

	err := m.Validate7Tick()
	require.ErrorIs(t, err, perf.ErrBudgetExceeded)

	var bv *perf.BudgetViolationError
	require.ErrorAs(t, err, &bv)
	assert.Equal(t, 1.0, bv.Rate)
	assert.Same(t, mon, m.Monitor())
}

func TestMonitored_Performance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping cycle measurement in short mode")
	}

	e := newEngine(t, 1000)
	for _, a := range testutil.NewRNG(9).Ontology(testutil.DefaultOntologyConfig(1000)) {
		require.NoError(t, e.Apply(a))
	}
	require.NoError(t, e.Materialize(context.Background()))

	m := e.Monitored(perf.DefaultConfig())
	pairs := testutil.NewRNG(10).QueryPairs(100_000, 1000, 0)
	for _, p := range pairs {
		m.IsSubClassOf(p.A, p.B)
	}

	// CI hardware and race instrumentation vary; bound the mean generously.
	stats := m.GetStats()
	assert.Equal(t, uint64(100_000), stats.Calls)
	assert.Less(t, stats.MeanCycles, float64(perf.DefaultBudgetCycles*200))
}
