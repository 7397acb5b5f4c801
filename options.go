package owlgo

import (
	"log/slog"

	"github.com/hupe1980/owlgo/internal/materialize"
	"github.com/hupe1980/owlgo/telemetry"
)

type options struct {
	metricsCollector    MetricsCollector
	logger              *Logger
	tracer              *telemetry.Tracer
	reflexiveSubClass   bool
	maxIterations       int
	disjointInheritance bool
	axiomHint           int
}

// Option configures an Engine.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring mutations
// and materialization. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &owlgo.BasicMetricsCollector{}
//	e, _ := owlgo.New(1024, owlgo.WithMetricsCollector(metrics))
//	// ... use e ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg: %dns\n", stats.MaterializeCount, stats.MaterializeAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := owlgo.NewJSONLogger(slog.LevelInfo)
//	e, _ := owlgo.New(1024, owlgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithTracer configures span emission for materialization and rebuilds.
// Pass nil to disable tracing.
func WithTracer(t *telemetry.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithReflexiveSubClass makes IsSubClassOf(e, e) and IsEquivalent(e, e) true
// for every in-range e. The default is false: only asserted or derived
// relations are reported.
func WithReflexiveSubClass(enabled bool) Option {
	return func(o *options) {
		o.reflexiveSubClass = enabled
	}
}

// WithMaxIterations bounds the closure passes of one materialization run.
// Values <= 0 select the default of 64. Chains longer than the bound in the
// worst pass order are left partially closed and reported as
// ErrPartialMaterialization.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithDisjointInheritance controls whether materialization propagates
// disjointness to subclasses, so IsDisjoint answers inherited pairs too.
// Enabled by default.
func WithDisjointInheritance(enabled bool) Option {
	return func(o *options) {
		o.disjointInheritance = enabled
	}
}

// WithAxiomHint preallocates the axiom log for n entries.
func WithAxiomHint(n int) Option {
	return func(o *options) {
		o.axiomHint = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector:    NoopMetricsCollector{},
		logger:              NoopLogger(),
		tracer:              telemetry.Disabled(),
		maxIterations:       materialize.DefaultMaxIterations,
		disjointInheritance: true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.tracer == nil {
		o.tracer = telemetry.Disabled()
	}
	if o.maxIterations <= 0 {
		o.maxIterations = materialize.DefaultMaxIterations
	}
	return o
}
