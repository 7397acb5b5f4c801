package owlgo

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/owlgo/internal/axiom"
	"github.com/hupe1980/owlgo/internal/cycles"
	"github.com/hupe1980/owlgo/internal/materialize"
	"github.com/hupe1980/owlgo/internal/relation"
	"github.com/hupe1980/owlgo/model"
)

// MaxCapacity is the largest entity universe New accepts. At this size the
// four relation matrices take 2 GiB.
const MaxCapacity = 1 << 16

// MemoryFootprint returns the bytes an engine of the given capacity
// allocates for its matrices and property table, about capacity²/2.
func MemoryFootprint(capacity uint32) uint64 {
	return relation.MemoryBytes(capacity)
}

// Engine is a fixed-capacity ontology reasoner.
//
// Mutations and Materialize must be called from a single goroutine. Queries
// take no locks and may run concurrently with each other, but not with a
// writer; use Handle to publish engines to concurrent readers.
type Engine struct {
	id        string
	capacity  uint32
	reflexive bool
	state     model.State

	tables *relation.Tables
	store  *axiom.Store
	mat    *materialize.Materializer

	opts    options
	logger  *Logger
	metrics MetricsCollector
}

// New creates an engine for entity ids in [0, capacity). All matrices are
// allocated up front; see MemoryFootprint.
func New(capacity uint32, optFns ...Option) (*Engine, error) {
	if capacity == 0 || capacity > MaxCapacity {
		return nil, ErrInvalidCapacity
	}
	o := applyOptions(optFns)
	return newEngine(relation.New(capacity), axiom.NewStore(o.axiomHint), o), nil
}

func newEngine(t *relation.Tables, s *axiom.Store, o options) *Engine {
	id := uuid.NewString()
	e := &Engine{
		id:        id,
		capacity:  t.Capacity(),
		reflexive: o.reflexiveSubClass,
		state:     model.StatePopulating,
		tables:    t,
		store:     s,
		mat: materialize.New(materialize.Config{
			MaxIterations:       o.maxIterations,
			DisjointInheritance: o.disjointInheritance,
		}),
		opts:    o,
		logger:  o.logger.WithEngineID(id).WithCapacity(t.Capacity()),
		metrics: o.metricsCollector,
	}
	if s.Len() == 0 {
		e.state = model.StateMaterialized
	}
	return e
}

// ID returns the engine's unique id, as attached to its logs and spans.
func (e *Engine) ID() string {
	return e.id
}

// Capacity returns the size of the entity universe.
func (e *Engine) Capacity() uint32 {
	return e.capacity
}

// State returns the lifecycle state.
func (e *Engine) State() model.State {
	return e.state
}

// IsMaterialized reports whether the closure is at a fixed point.
func (e *Engine) IsMaterialized() bool {
	return e.state == model.StateMaterialized
}

// IsDirty reports whether multi-hop answers may be incomplete, because
// axioms were added since the last complete run or the last run was partial.
func (e *Engine) IsDirty() bool {
	return e.state == model.StatePopulating || e.state == model.StatePartial
}

// MaxIterations returns the effective materialization pass cap.
func (e *Engine) MaxIterations() int {
	return e.mat.MaxIterations()
}

func (e *Engine) checkIDs(op string, ids ...model.EntityID) error {
	if e.state == model.StateClosed {
		return ErrClosed
	}
	for _, id := range ids {
		if uint32(id) >= e.capacity {
			return &CapacityExceededError{Op: op, ID: id, Capacity: e.capacity}
		}
	}
	return nil
}

// commit appends a to the axiom log once its matrix writes are done.
func (e *Engine) commit(a model.Axiom) error {
	_, err := e.store.Append(a)
	err = translateError(err, 0)
	e.finish(a, err)
	if err != nil {
		return err
	}
	e.state = model.StatePopulating
	return nil
}

func (e *Engine) finish(a model.Axiom, err error) {
	e.metrics.RecordMutation(a.Kind, err)
	e.logger.LogMutation(context.Background(), a, err)
}

func (e *Engine) reject(a model.Axiom, err error) error {
	e.finish(a, err)
	return err
}

// AddSubClass asserts child ⊑ parent. The direct edge is queryable
// immediately; transitive consequences appear after Materialize.
func (e *Engine) AddSubClass(child, parent model.EntityID) error {
	a := model.Axiom{Kind: model.SubClassOf, Subject: child, Object: parent}
	if err := e.checkIDs("AddSubClass", child, parent); err != nil {
		return e.reject(a, err)
	}
	e.tables.AddSubClass(child, parent)
	return e.commit(a)
}

// AddEquivalentClass asserts a ≡ b in both directions. Shared ancestry is
// propagated by Materialize. Asserting a ≡ a is recorded but changes nothing.
func (e *Engine) AddEquivalentClass(a, b model.EntityID) error {
	ax := model.Axiom{Kind: model.EquivalentClass, Subject: a, Object: b}
	if err := e.checkIDs("AddEquivalentClass", a, b); err != nil {
		return e.reject(ax, err)
	}
	if a != b {
		e.tables.AddEquivalent(a, b)
	}
	return e.commit(ax)
}

// AddDisjoint asserts that a and b share no instances.
func (e *Engine) AddDisjoint(a, b model.EntityID) error {
	ax := model.Axiom{Kind: model.DisjointWith, Subject: a, Object: b}
	if err := e.checkIDs("AddDisjoint", a, b); err != nil {
		return e.reject(ax, err)
	}
	e.tables.AddDisjoint(a, b)
	return e.commit(ax)
}

// SetPropertyCharacteristic adds c to property p's characteristics.
// c may combine several flags; undefined bits yield ErrInvalidProperty.
func (e *Engine) SetPropertyCharacteristic(p model.EntityID, c model.Characteristic) error {
	a := model.Axiom{Kind: model.PropertyCharacteristic, Characteristic: c, Subject: p}
	if err := e.checkIDs("SetPropertyCharacteristic", p); err != nil {
		return e.reject(a, err)
	}
	if !c.Valid() {
		return e.reject(a, ErrInvalidProperty)
	}
	e.tables.SetCharacteristic(p, c)
	return e.commit(a)
}

// SetDomain records class as the domain of property p.
func (e *Engine) SetDomain(p, class model.EntityID) error {
	a := model.Axiom{Kind: model.Domain, Subject: p, Object: class}
	if err := e.checkIDs("SetDomain", p, class); err != nil {
		return e.reject(a, err)
	}
	e.tables.SetDomain(p, class)
	return e.commit(a)
}

// SetRange records class as the range of property p.
func (e *Engine) SetRange(p, class model.EntityID) error {
	a := model.Axiom{Kind: model.Range, Subject: p, Object: class}
	if err := e.checkIDs("SetRange", p, class); err != nil {
		return e.reject(a, err)
	}
	e.tables.SetRange(p, class)
	return e.commit(a)
}

// Apply adds a recorded axiom through the matching mutation.
func (e *Engine) Apply(a model.Axiom) error {
	switch a.Kind {
	case model.SubClassOf:
		return e.AddSubClass(a.Subject, a.Object)
	case model.EquivalentClass:
		return e.AddEquivalentClass(a.Subject, a.Object)
	case model.DisjointWith:
		return e.AddDisjoint(a.Subject, a.Object)
	case model.PropertyCharacteristic:
		return e.SetPropertyCharacteristic(a.Subject, a.Characteristic)
	case model.Domain:
		return e.SetDomain(a.Subject, a.Object)
	case model.Range:
		return e.SetRange(a.Subject, a.Object)
	default:
		return e.reject(a, ErrInvalidAxiom)
	}
}

// Materialize computes the transitive closure, propagates equivalence and
// inherits disjointness until a fixed point. It returns nil on convergence
// and a *PartialMaterializationError when the iteration cap or ctx stopped
// it; the closure is then sound but may lack multi-hop entries.
func (e *Engine) Materialize(ctx context.Context) error {
	_, err := e.MaterializeWithResult(ctx)
	return err
}

// MaterializeWithResult is Materialize returning the work done.
func (e *Engine) MaterializeWithResult(ctx context.Context) (model.MaterializeResult, error) {
	if e.state == model.StateClosed {
		return model.MaterializeResult{}, ErrClosed
	}

	ctx, span := e.opts.tracer.StartMaterialize(ctx, e.id, e.capacity, e.store.PendingCount())

	start := time.Now()
	c0 := cycles.Now()
	r, err := e.mat.Run(ctx, e.tables)
	ticks := cycles.Since(c0)

	res := model.MaterializeResult{
		Passes:              r.Passes,
		RowsChanged:         r.RowsChanged,
		RowsVisited:         r.RowsVisited,
		EquivalencesDerived: r.EquivalencesDerived,
		DisjointsDerived:    r.DisjointsDerived,
		Cycles:              ticks,
		Duration:            time.Since(start),
		Converged:           r.Converged,
	}

	err = translateError(err, r.Passes)
	if err != nil {
		e.state = model.StatePartial
	} else {
		res.Axioms = e.store.MarkPendingMaterialized(ticks)
		e.state = model.StateMaterialized
	}

	e.opts.tracer.EndMaterialize(span, res, err)
	e.metrics.RecordMaterialize(res, err)
	e.logger.LogMaterialize(ctx, res, err)
	return res, err
}

// ValidateIntegrity checks the structural invariants: equivalence and
// disjointness symmetry, closure ⊇ hierarchy, no derived reflexive bits,
// property domain and range in range, and axiom log consistency.
func (e *Engine) ValidateIntegrity() error {
	if e.state == model.StateClosed {
		return ErrClosed
	}

	var err error
	if verr := e.tables.Validate(); verr != nil {
		err = &CorruptStateError{Description: verr.Error(), cause: verr}
	} else if e.state == model.StateMaterialized && e.store.PendingCount() > 0 {
		err = &CorruptStateError{Description: "materialized engine has pending axioms"}
	}

	e.metrics.RecordIntegrity(err)
	e.logger.LogIntegrity(context.Background(), err)
	return err
}

// AxiomCount returns the number of recorded axioms.
func (e *Engine) AxiomCount() int {
	return e.store.Len()
}

// PendingCount returns the number of axioms not yet materialized.
func (e *Engine) PendingCount() int {
	return e.store.PendingCount()
}

// Axioms iterates the axiom log in insertion order.
func (e *Engine) Axioms() iter.Seq[model.Axiom] {
	return func(yield func(model.Axiom) bool) {
		for _, a := range e.store.All() {
			if !yield(a) {
				return
			}
		}
	}
}

// Clone returns an independent deep copy with a new id and the same options.
func (e *Engine) Clone() (*Engine, error) {
	if e.state == model.StateClosed {
		return nil, ErrClosed
	}
	c := newEngine(e.tables.Clone(), e.store.Clone(), e.opts)
	c.state = e.state
	return c, nil
}

// Rebuild migrates the engine into a larger universe. The result carries
// the full axiom log and every derived relation, so it is in the same state
// as e. The receiver is left untouched.
func (e *Engine) Rebuild(ctx context.Context, newCapacity uint32) (*Engine, error) {
	if e.state == model.StateClosed {
		return nil, ErrClosed
	}

	_, span := e.opts.tracer.StartRebuild(ctx, e.id, e.capacity, newCapacity)
	next, err := e.rebuild(newCapacity)
	axioms := 0
	if next != nil {
		axioms = next.AxiomCount()
	}
	e.opts.tracer.EndRebuild(span, axioms, err)
	e.logger.LogRebuild(ctx, e.capacity, newCapacity, axioms, err)
	return next, err
}

func (e *Engine) rebuild(newCapacity uint32) (*Engine, error) {
	if newCapacity < e.capacity || newCapacity > MaxCapacity {
		return nil, ErrInvalidCapacity
	}
	t := relation.New(newCapacity)
	if err := e.tables.CopyInto(t); err != nil {
		return nil, err
	}
	next := newEngine(t, e.store.Clone(), e.opts)
	next.state = e.state
	return next, nil
}

// Info is a summary of an engine.
type Info struct {
	ID       string
	Capacity uint32
	State    model.State
	Axioms   int
	Pending  int
	// ClosureEdges counts (child, ancestor) pairs, asserted or derived.
	ClosureEdges int
	// Equivalences counts unordered equivalent pairs.
	Equivalences int
	// Disjoints counts ordered disjoint pairs, including self-disjoint classes.
	Disjoints   int
	MemoryBytes uint64
}

// Info summarizes the engine. It scans the matrices and is not meant for
// hot paths.
func (e *Engine) Info() Info {
	return Info{
		ID:           e.id,
		Capacity:     e.capacity,
		State:        e.state,
		Axioms:       e.store.Len(),
		Pending:      e.store.PendingCount(),
		ClosureEdges: e.tables.Closure.Count(),
		Equivalences: e.tables.Equivalence.Count() / 2,
		Disjoints:    e.tables.Disjoint.Count(),
		MemoryBytes:  MemoryFootprint(e.capacity),
	}
}
