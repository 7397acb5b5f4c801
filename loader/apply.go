package loader

import (
	"context"

	"github.com/hupe1980/owlgo"
	"github.com/hupe1980/owlgo/telemetry"
)

// checkEvery is how many axioms Apply adds between context checks.
const checkEvery = 1024

type applyOptions struct {
	tracer *telemetry.Tracer
	source string
}

// Option configures Apply.
type Option func(*applyOptions)

// WithTracer emits an owlgo.load span around Apply.
func WithTracer(t *telemetry.Tracer) Option {
	return func(o *applyOptions) {
		o.tracer = t
	}
}

// WithSource labels the span with the document's origin.
func WithSource(source string) Option {
	return func(o *applyOptions) {
		o.source = source
	}
}

// Apply adds every axiom of o to e in document order and returns how many
// were applied. It stops at the first rejected axiom, returning an
// *AxiomError wrapping the engine error. Apply does not materialize.
func Apply(ctx context.Context, e *owlgo.Engine, o *Ontology, optFns ...Option) (int, error) {
	opts := applyOptions{tracer: telemetry.Disabled(), source: o.Name}
	for _, fn := range optFns {
		fn(&opts)
	}

	_, span := opts.tracer.StartLoad(ctx, opts.source, len(o.Axioms))
	applied, err := apply(ctx, e, o)
	opts.tracer.EndLoad(span, applied, err)
	return applied, err
}

func apply(ctx context.Context, e *owlgo.Engine, o *Ontology) (int, error) {
	axioms, err := o.Resolve()
	if err != nil {
		return 0, err
	}
	for i, a := range axioms {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return i, err
			}
		}
		if err := e.Apply(a); err != nil {
			return i, &AxiomError{Index: i, Kind: a.Kind.String(), Err: err}
		}
	}
	return len(axioms), nil
}

// NewEngine creates an engine sized for o and applies it.
func NewEngine(ctx context.Context, o *Ontology, engineOpts []owlgo.Option, optFns ...Option) (*owlgo.Engine, error) {
	e, err := owlgo.New(o.Capacity, engineOpts...)
	if err != nil {
		return nil, err
	}
	if _, err := Apply(ctx, e, o, optFns...); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}
