package materialize

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/owlgo/internal/bitmatrix"
	"github.com/hupe1980/owlgo/internal/relation"
)

// DefaultMaxIterations bounds the passes of one run.
const DefaultMaxIterations = 64

// ErrIterationCap is returned when a run stops before its fixed point.
var ErrIterationCap = errors.New("materialize: iteration cap reached")

// Config controls a Materializer.
type Config struct {
	// MaxIterations bounds the passes of each phase. Values <= 0 select
	// DefaultMaxIterations.
	MaxIterations int

	// DisjointInheritance propagates disjointness to subclasses.
	DisjointInheritance bool
}

// DefaultConfig returns the configuration used by owlgo engines.
func DefaultConfig() Config {
	return Config{
		MaxIterations:       DefaultMaxIterations,
		DisjointInheritance: true,
	}
}

// Result reports the work done by Run.
type Result struct {
	Passes              int
	DisjointPasses      int
	RowsChanged         int
	RowsVisited         int
	EquivalencesDerived int
	DisjointsDerived    int
	Converged           bool
}

// Materializer runs closure computations over relation tables.
type Materializer struct {
	cfg Config
}

// New creates a Materializer.
func New(cfg Config) *Materializer {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return &Materializer{cfg: cfg}
}

// MaxIterations returns the effective pass cap.
func (m *Materializer) MaxIterations() int {
	return m.cfg.MaxIterations
}

// Run closes t in place. A second run without new writes performs a single
// zero-change pass.
//
// The first pass visits every row. Later passes visit only rows that changed,
// or whose ancestors changed, since the previous pass began; every other row
// is already closed.
//
// On ErrIterationCap or a context error the tables hold a sound but
// possibly incomplete closure.
func (m *Materializer) Run(ctx context.Context, t *relation.Tables) (Result, error) {
	var res Result
	cs := newChangeSet(t.Closure.Stride())

	converged := false
	for pass := 1; pass <= m.cfg.MaxIterations; pass++ {
		if err := ctx.Err(); err != nil {
			res.RowsChanged = cs.total()
			return res, fmt.Errorf("materialize: pass %d: %w", pass, err)
		}
		res.Passes = pass
		if pass > 1 {
			cs.advance()
		}

		eqChanged, derived := propagateEquivalence(t, cs)
		res.EquivalencesDerived += derived
		closureChanged, visited := closurePass(t.Closure, cs, pass == 1)
		res.RowsVisited += visited

		if !eqChanged && !closureChanged {
			converged = true
			break
		}
	}
	res.RowsChanged = cs.total()
	if !converged {
		return res, fmt.Errorf("%w after %d passes", ErrIterationCap, res.Passes)
	}

	if m.cfg.DisjointInheritance {
		converged = false
		for pass := 1; pass <= m.cfg.MaxIterations; pass++ {
			if err := ctx.Err(); err != nil {
				return res, fmt.Errorf("materialize: disjoint pass %d: %w", pass, err)
			}
			res.DisjointPasses = pass
			derived := inheritDisjointness(t)
			res.DisjointsDerived += derived
			if derived == 0 {
				converged = true
				break
			}
		}
		if !converged {
			return res, fmt.Errorf("%w after %d disjoint passes", ErrIterationCap, res.DisjointPasses)
		}
	}

	res.Converged = true
	return res, nil
}

// changeSet tracks closure rows that gained bits. prev holds the previous
// pass, cur the current one, and mask mirrors prev ∪ cur as a row vector so
// a closure row can be tested against it word by word.
type changeSet struct {
	prev *roaring.Bitmap
	cur  *roaring.Bitmap
	all  *roaring.Bitmap
	mask []uint64
}

func newChangeSet(stride int) *changeSet {
	return &changeSet{
		prev: roaring.New(),
		cur:  roaring.New(),
		all:  roaring.New(),
		mask: make([]uint64, stride),
	}
}

func (c *changeSet) mark(i uint32) {
	c.cur.Add(i)
	c.mask[i>>6] |= 1 << (i & 63)
}

// advance starts a new pass. The mask is rebuilt from the pass just ended.
func (c *changeSet) advance() {
	c.all.Or(c.cur)
	c.prev, c.cur = c.cur, c.prev
	c.cur.Clear()
	clear(c.mask)
	it := c.prev.Iterator()
	for it.HasNext() {
		i := it.Next()
		c.mask[i>>6] |= 1 << (i & 63)
	}
}

// stale reports whether row i or one of its ancestors changed since the
// previous pass began.
func (c *changeSet) stale(closure *bitmatrix.Matrix, i uint32) bool {
	return c.mask[i>>6]&(1<<(i&63)) != 0 || closure.RowIntersectsWords(i, c.mask)
}

// total returns the number of distinct rows that changed during the run.
func (c *changeSet) total() int {
	return int(roaring.Or(c.all, c.cur).GetCardinality())
}

// propagateEquivalence closes the equivalence relation and shares ancestry
// between equivalent classes. It reports whether anything changed and how
// many equivalence pairs were derived.
func propagateEquivalence(t *relation.Tables, cs *changeSet) (bool, int) {
	eq, closure := t.Equivalence, t.Closure
	n := eq.Size()
	changed := false
	derived := 0

	for a := uint32(0); a < n; a++ {
		eq.ForEachInRow(a, func(b uint32) bool {
			// a ≡ b ∧ b ≡ c ⇒ a ≡ c, mirrored so the matrix stays symmetric.
			eq.ForEachInRow(b, func(c uint32) bool {
				if c != a && eq.SetSymmetric(a, c) {
					derived++
					changed = true
				}
				return true
			})
			if closure.Set(a, b) {
				cs.mark(a)
				changed = true
			}
			if closure.OrRowExcept(a, b, a) {
				cs.mark(a)
				changed = true
			}
			return true
		})
	}
	return changed, derived
}

// closurePass ORs every ancestor's row into each row once. Unless full is
// set, rows that are not stale are skipped. It returns whether anything
// changed and how many rows it visited.
func closurePass(closure *bitmatrix.Matrix, cs *changeSet, full bool) (bool, int) {
	n := closure.Size()
	changed := false
	visited := 0
	for i := uint32(0); i < n; i++ {
		if !full && !cs.stale(closure, i) {
			continue
		}
		visited++
		closure.ForEachInRow(i, func(k uint32) bool {
			if k != i && closure.OrRowExcept(i, k, i) {
				cs.mark(i)
				changed = true
			}
			return true
		})
	}
	return changed, visited
}

// inheritDisjointness makes every class disjoint with whatever its ancestors
// are disjoint with, in both directions. It returns the number of new pairs.
func inheritDisjointness(t *relation.Tables) int {
	closure, disjoint := t.Closure, t.Disjoint
	n := closure.Size()
	derived := 0
	for x := uint32(0); x < n; x++ {
		closure.ForEachInRow(x, func(p uint32) bool {
			if p == x {
				return true
			}
			disjoint.ForEachInRow(p, func(d uint32) bool {
				if disjoint.SetSymmetric(x, d) {
					derived++
				}
				return true
			})
			return true
		})
	}
	return derived
}
