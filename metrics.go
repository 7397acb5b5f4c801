package owlgo

import (
	"sync/atomic"

	"github.com/hupe1980/owlgo/model"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see the metrics/prometheus package for a ready-made collector.
//
// Queries are never reported: they run on the cycle-budgeted path. Use
// Monitored to measure them.
type MetricsCollector interface {
	// RecordMutation is called after each mutation attempt.
	// err is nil if the axiom was accepted.
	RecordMutation(kind model.AxiomKind, err error)

	// RecordMaterialize is called after each materialization run.
	RecordMaterialize(result model.MaterializeResult, err error)

	// RecordIntegrity is called after each integrity check.
	RecordIntegrity(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMutation(model.AxiomKind, error)            {}
func (NoopMetricsCollector) RecordMaterialize(model.MaterializeResult, error) {}
func (NoopMetricsCollector) RecordIntegrity(error)                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	MutationCount       atomic.Int64
	MutationErrors      atomic.Int64
	MaterializeCount    atomic.Int64
	MaterializePartial  atomic.Int64
	MaterializePasses   atomic.Int64
	MaterializeCycles   atomic.Uint64
	MaterializeNanos    atomic.Int64
	IntegrityChecks     atomic.Int64
	IntegrityViolations atomic.Int64
}

// RecordMutation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMutation(_ model.AxiomKind, err error) {
	b.MutationCount.Add(1)
	if err != nil {
		b.MutationErrors.Add(1)
	}
}

// RecordMaterialize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMaterialize(result model.MaterializeResult, err error) {
	b.MaterializeCount.Add(1)
	b.MaterializePasses.Add(int64(result.Passes))
	b.MaterializeCycles.Add(result.Cycles)
	b.MaterializeNanos.Add(result.Duration.Nanoseconds())
	if err != nil {
		b.MaterializePartial.Add(1)
	}
}

// RecordIntegrity implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIntegrity(err error) {
	b.IntegrityChecks.Add(1)
	if err != nil {
		b.IntegrityViolations.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		MutationCount:       b.MutationCount.Load(),
		MutationErrors:      b.MutationErrors.Load(),
		MaterializeCount:    b.MaterializeCount.Load(),
		MaterializePartial:  b.MaterializePartial.Load(),
		MaterializePasses:   b.MaterializePasses.Load(),
		MaterializeCycles:   b.MaterializeCycles.Load(),
		MaterializeAvgNanos: b.getAvgMaterializeNanos(),
		IntegrityChecks:     b.IntegrityChecks.Load(),
		IntegrityViolations: b.IntegrityViolations.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgMaterializeNanos() int64 {
	count := b.MaterializeCount.Load()
	if count == 0 {
		return 0
	}
	return b.MaterializeNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	MutationCount       int64
	MutationErrors      int64
	MaterializeCount    int64
	MaterializePartial  int64
	MaterializePasses   int64
	MaterializeCycles   uint64
	MaterializeAvgNanos int64
	IntegrityChecks     int64
	IntegrityViolations int64
}
