package owlgo

import (
	"github.com/hupe1980/owlgo/internal/cycles"
	"github.com/hupe1980/owlgo/model"
	"github.com/hupe1980/owlgo/perf"
)

// Monitored wraps an Engine and records the cycle cost of every query in a
// perf.Monitor. Answers are identical to the wrapped engine's.
//
// Safe for concurrent readers under the same contract as Engine.
type Monitored struct {
	engine  *Engine
	monitor *perf.Monitor
}

// Monitored returns a wrapper recording into a new monitor built from cfg.
// A nil cfg.Logger inherits the engine's logger.
func (e *Engine) Monitored(cfg perf.Config) *Monitored {
	if cfg.Logger == nil {
		cfg.Logger = e.logger.Logger
	}
	return &Monitored{engine: e, monitor: perf.NewMonitor(cfg)}
}

// NewMonitored wraps e with an existing monitor, so several engines (for
// example successive Handle generations) can share statistics.
func NewMonitored(e *Engine, m *perf.Monitor) *Monitored {
	return &Monitored{engine: e, monitor: m}
}

// Engine returns the wrapped engine.
func (m *Monitored) Engine() *Engine {
	return m.engine
}

// Monitor returns the underlying monitor.
func (m *Monitored) Monitor() *perf.Monitor {
	return m.monitor
}

// IsSubClassOf is Engine.IsSubClassOf, timed.
func (m *Monitored) IsSubClassOf(child, parent model.EntityID) bool {
	start := cycles.Now()
	ok := m.engine.IsSubClassOf(child, parent)
	m.monitor.Record(cycles.Since(start))
	return ok
}

// IsEquivalent is Engine.IsEquivalent, timed.
func (m *Monitored) IsEquivalent(a, b model.EntityID) bool {
	start := cycles.Now()
	ok := m.engine.IsEquivalent(a, b)
	m.monitor.Record(cycles.Since(start))
	return ok
}

// IsDisjoint is Engine.IsDisjoint, timed.
func (m *Monitored) IsDisjoint(a, b model.EntityID) bool {
	start := cycles.Now()
	ok := m.engine.IsDisjoint(a, b)
	m.monitor.Record(cycles.Since(start))
	return ok
}

// HasPropertyCharacteristic is Engine.HasPropertyCharacteristic, timed.
func (m *Monitored) HasPropertyCharacteristic(p model.EntityID, c model.Characteristic) bool {
	start := cycles.Now()
	ok := m.engine.HasPropertyCharacteristic(p, c)
	m.monitor.Record(cycles.Since(start))
	return ok
}

// Domain is Engine.Domain, timed.
func (m *Monitored) Domain(p model.EntityID) (model.EntityID, bool) {
	start := cycles.Now()
	d, ok := m.engine.Domain(p)
	m.monitor.Record(cycles.Since(start))
	return d, ok
}

// Range is Engine.Range, timed.
func (m *Monitored) Range(p model.EntityID) (model.EntityID, bool) {
	start := cycles.Now()
	r, ok := m.engine.Range(p)
	m.monitor.Record(cycles.Since(start))
	return r, ok
}

// GetStats returns the accumulated query statistics.
func (m *Monitored) GetStats() perf.Stats {
	return m.monitor.Stats()
}

// Validate7Tick returns a *perf.BudgetViolationError when the share of
// queries over the cycle budget exceeds the configured threshold.
func (m *Monitored) Validate7Tick() error {
	return m.monitor.Validate()
}

// ResetStats clears the accumulated statistics.
func (m *Monitored) ResetStats() {
	m.monitor.Reset()
}
