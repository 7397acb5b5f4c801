package owlgo

import (
	"log/slog"

	"github.com/hupe1980/owlgo/telemetry"
)

// Ontology creates an engine builder for the given capacity.
//
// The builder is immutable - each method returns a new builder with the updated
// configuration. This ensures thread-safety and prevents accidental state sharing.
//
// Example:
//
//	e, err := owlgo.Ontology(4096).
//	    ReflexiveSubClass().
//	    MaxIterations(128).
//	    Logger(owlgo.NewTextLogger(slog.LevelInfo)).
//	    Build()
func Ontology(capacity uint32) OntologyBuilder {
	return OntologyBuilder{
		capacity:            capacity,
		disjointInheritance: true,
	}
}

// OntologyBuilder is an immutable fluent builder for Engines.
type OntologyBuilder struct {
	capacity            uint32
	reflexive           bool
	maxIterations       int
	disjointInheritance bool
	axiomHint           int
	logger              *Logger
	metrics             MetricsCollector
	tracer              *telemetry.Tracer
}

// ReflexiveSubClass makes every class a subclass of itself.
func (b OntologyBuilder) ReflexiveSubClass() OntologyBuilder {
	b.reflexive = true
	return b
}

// MaxIterations bounds the passes of one materialization run.
func (b OntologyBuilder) MaxIterations(n int) OntologyBuilder {
	b.maxIterations = n
	return b
}

// NoDisjointInheritance keeps disjointness to the asserted pairs.
func (b OntologyBuilder) NoDisjointInheritance() OntologyBuilder {
	b.disjointInheritance = false
	return b
}

// AxiomHint preallocates the axiom log.
func (b OntologyBuilder) AxiomHint(n int) OntologyBuilder {
	b.axiomHint = n
	return b
}

// Logger sets the logger.
func (b OntologyBuilder) Logger(l *Logger) OntologyBuilder {
	b.logger = l
	return b
}

// LogLevel sets a text logger at level.
func (b OntologyBuilder) LogLevel(level slog.Level) OntologyBuilder {
	b.logger = NewTextLogger(level)
	return b
}

// Metrics sets the metrics collector.
func (b OntologyBuilder) Metrics(mc MetricsCollector) OntologyBuilder {
	b.metrics = mc
	return b
}

// Tracer sets the span tracer.
func (b OntologyBuilder) Tracer(t *telemetry.Tracer) OntologyBuilder {
	b.tracer = t
	return b
}

// Options returns the builder configuration as Options.
func (b OntologyBuilder) Options() []Option {
	return []Option{
		WithReflexiveSubClass(b.reflexive),
		WithMaxIterations(b.maxIterations),
		WithDisjointInheritance(b.disjointInheritance),
		WithAxiomHint(b.axiomHint),
		WithLogger(b.logger),
		WithMetricsCollector(b.metrics),
		WithTracer(b.tracer),
	}
}

// Build creates the engine.
func (b OntologyBuilder) Build() (*Engine, error) {
	return New(b.capacity, b.Options()...)
}
