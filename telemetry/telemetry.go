// Package telemetry emits OpenTelemetry spans for the heavy engine
// operations: materialization, rebuild and ontology loading. Queries are
// never traced.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hupe1980/owlgo/model"
)

// TracerName is the instrumentation scope used when no provider is given.
const TracerName = "github.com/hupe1980/owlgo"

// Config configures a Tracer.
type Config struct {
	// Enabled turns span creation on. A disabled tracer returns noop spans.
	Enabled bool

	// Provider supplies the tracer. Nil selects the global provider.
	Provider trace.TracerProvider
}

// DefaultConfig returns a disabled configuration.
func DefaultConfig() Config {
	return Config{}
}

// Tracer wraps an OpenTelemetry tracer.
//
// Safe for concurrent use.
type Tracer struct {
	tracer  trace.Tracer
	enabled bool
}

// New creates a Tracer from cfg.
func New(cfg Config) *Tracer {
	provider := cfg.Provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Tracer{
		tracer:  provider.Tracer(TracerName),
		enabled: cfg.Enabled,
	}
}

// Disabled returns a Tracer that never records.
func Disabled() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer(TracerName)}
}

// Enabled reports whether spans are recorded.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

func (t *Tracer) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !t.Enabled() {
		return ctx, noop.Span{}
	}
	return t.tracer.Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartMaterialize starts the span of one materialization run.
func (t *Tracer) StartMaterialize(ctx context.Context, engineID string, capacity uint32, pending int) (context.Context, trace.Span) {
	return t.start(ctx, "owlgo.materialize",
		attribute.String("owlgo.engine_id", engineID),
		attribute.Int64("owlgo.capacity", int64(capacity)),
		attribute.Int("owlgo.pending_axioms", pending),
	)
}

// EndMaterialize records the run result and ends span.
func (t *Tracer) EndMaterialize(span trace.Span, res model.MaterializeResult, err error) {
	if span == nil {
		return
	}
	span.SetAttributes(
		attribute.Int("owlgo.result.passes", res.Passes),
		attribute.Int("owlgo.result.rows_changed", res.RowsChanged),
		attribute.Int("owlgo.result.rows_visited", res.RowsVisited),
		attribute.Int("owlgo.result.equivalences_derived", res.EquivalencesDerived),
		attribute.Int("owlgo.result.disjoints_derived", res.DisjointsDerived),
		attribute.Int("owlgo.result.axioms", res.Axioms),
		attribute.Int64("owlgo.result.cycles", int64(res.Cycles)),
		attribute.Bool("owlgo.result.converged", res.Converged),
	)
	end(span, err)
}

// StartRebuild starts the span of a capacity migration.
func (t *Tracer) StartRebuild(ctx context.Context, engineID string, from, to uint32) (context.Context, trace.Span) {
	return t.start(ctx, "owlgo.rebuild",
		attribute.String("owlgo.engine_id", engineID),
		attribute.Int64("owlgo.capacity.from", int64(from)),
		attribute.Int64("owlgo.capacity.to", int64(to)),
	)
}

// EndRebuild ends a rebuild span.
func (t *Tracer) EndRebuild(span trace.Span, axioms int, err error) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.Int("owlgo.result.axioms", axioms))
	end(span, err)
}

// StartLoad starts the span of applying a loaded ontology.
func (t *Tracer) StartLoad(ctx context.Context, source string, axioms int) (context.Context, trace.Span) {
	return t.start(ctx, "owlgo.load",
		attribute.String("owlgo.source", source),
		attribute.Int("owlgo.axioms", axioms),
	)
}

// EndLoad ends a load span.
func (t *Tracer) EndLoad(span trace.Span, applied int, err error) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.Int("owlgo.result.applied", applied))
	end(span, err)
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
