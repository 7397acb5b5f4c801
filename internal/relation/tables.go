package relation

import (
	"fmt"

	"github.com/hupe1980/owlgo/internal/bitmatrix"
	"github.com/hupe1980/owlgo/model"
)

// Tables groups the relation matrices and the property table.
type Tables struct {
	// Hierarchy holds direct subclass edges: bit[child][parent].
	Hierarchy *bitmatrix.Matrix
	// Closure holds is-a, direct or derived. Always a superset of Hierarchy.
	Closure *bitmatrix.Matrix
	// Equivalence is symmetric on every write.
	Equivalence *bitmatrix.Matrix
	// Disjoint is symmetric on every write.
	Disjoint *bitmatrix.Matrix

	props    []Property
	capacity uint32
}

// MatrixCount is the number of bit matrices a Tables allocates.
const MatrixCount = 4

// MemoryBytes returns the bytes New(capacity) allocates for matrices and the
// property table.
func MemoryBytes(capacity uint32) uint64 {
	return MatrixCount*bitmatrix.MemoryBytes(capacity) + uint64(capacity)*PropertySize
}

// New allocates all tables for capacity entities.
func New(capacity uint32) *Tables {
	return &Tables{
		Hierarchy:   bitmatrix.New(capacity),
		Closure:     bitmatrix.New(capacity),
		Equivalence: bitmatrix.New(capacity),
		Disjoint:    bitmatrix.New(capacity),
		props:       make([]Property, capacity),
		capacity:    capacity,
	}
}

// Capacity returns the number of entity ids the tables hold.
func (t *Tables) Capacity() uint32 {
	return t.capacity
}

// InRange reports whether id is a valid index.
func (t *Tables) InRange(id model.EntityID) bool {
	return uint32(id) < t.capacity
}

// AddSubClass records a direct edge and mirrors it into the closure, so the
// single-hop case is answerable without materialization. It reports whether
// the closure changed.
func (t *Tables) AddSubClass(child, parent model.EntityID) bool {
	t.Hierarchy.Set(uint32(child), uint32(parent))
	return t.Closure.Set(uint32(child), uint32(parent))
}

// AddEquivalent records a ≡ b in both directions.
func (t *Tables) AddEquivalent(a, b model.EntityID) bool {
	return t.Equivalence.SetSymmetric(uint32(a), uint32(b))
}

// AddDisjoint records a and b as disjoint in both directions.
func (t *Tables) AddDisjoint(a, b model.EntityID) bool {
	return t.Disjoint.SetSymmetric(uint32(a), uint32(b))
}

// IsSubClassOf tests the closure.
func (t *Tables) IsSubClassOf(child, parent model.EntityID) bool {
	return t.Closure.Test(uint32(child), uint32(parent))
}

// IsEquivalent tests the equivalence matrix.
func (t *Tables) IsEquivalent(a, b model.EntityID) bool {
	return t.Equivalence.Test(uint32(a), uint32(b))
}

// IsDisjoint tests the disjointness matrix.
func (t *Tables) IsDisjoint(a, b model.EntityID) bool {
	return t.Disjoint.Test(uint32(a), uint32(b))
}

// IsUnsatisfiable reports whether class e can have no instances: it is
// disjoint with itself or with one of its ancestors, or two of its
// ancestors are disjoint. The last check scans e's ancestors, so it costs
// O(ancestors · capacity/64).
func (t *Tables) IsUnsatisfiable(e model.EntityID) bool {
	i := uint32(e)
	if i >= t.capacity {
		return false
	}
	if t.Disjoint.Test(i, i) || t.Closure.RowIntersects(i, t.Disjoint, i) {
		return true
	}
	found := false
	t.Closure.ForEachInRow(i, func(a uint32) bool {
		found = t.Disjoint.RowIntersects(a, t.Closure, i)
		return !found
	})
	return found
}

// Clone returns a deep copy of every table.
func (t *Tables) Clone() *Tables {
	props := make([]Property, len(t.props))
	copy(props, t.props)
	return &Tables{
		Hierarchy:   t.Hierarchy.Clone(),
		Closure:     t.Closure.Clone(),
		Equivalence: t.Equivalence.Clone(),
		Disjoint:    t.Disjoint.Clone(),
		props:       props,
		capacity:    t.capacity,
	}
}

// CopyInto copies every table into dst, which must be at least as large.
func (t *Tables) CopyInto(dst *Tables) error {
	if dst.capacity < t.capacity {
		return fmt.Errorf("copy %d entities into capacity %d: %w", t.capacity, dst.capacity, bitmatrix.ErrSizeMismatch)
	}
	for _, pair := range [...][2]*bitmatrix.Matrix{
		{t.Hierarchy, dst.Hierarchy},
		{t.Closure, dst.Closure},
		{t.Equivalence, dst.Equivalence},
		{t.Disjoint, dst.Disjoint},
	} {
		if err := pair[0].CopyInto(pair[1]); err != nil {
			return err
		}
	}
	copy(dst.props, t.props)
	return nil
}

// Release drops all backing storage. Readers answer false afterwards.
func (t *Tables) Release() {
	t.Hierarchy.Release()
	t.Closure.Release()
	t.Equivalence.Release()
	t.Disjoint.Release()
	t.props = nil
	t.capacity = 0
}

// Validate checks the structural invariants and returns a description of the
// first violation, or nil.
func (t *Tables) Validate() error {
	if i, j, ok := t.Equivalence.FirstAsymmetry(); ok {
		return fmt.Errorf("equivalence not symmetric: (%d,%d) set, (%d,%d) unset", i, j, j, i)
	}
	if i, j, ok := t.Disjoint.FirstAsymmetry(); ok {
		return fmt.Errorf("disjointness not symmetric: (%d,%d) set, (%d,%d) unset", i, j, j, i)
	}
	if !t.Hierarchy.IsSubsetOf(t.Closure) {
		return fmt.Errorf("closure is not a superset of the direct hierarchy")
	}
	for i := uint32(0); i < t.capacity; i++ {
		if t.Closure.Test(i, i) && !t.Hierarchy.Test(i, i) {
			return fmt.Errorf("closure holds unasserted reflexive bit for %d", i)
		}
		if t.Equivalence.Test(i, i) {
			return fmt.Errorf("equivalence holds reflexive bit for %d", i)
		}
	}
	for p := range t.props {
		if err := t.props[p].validate(t.capacity); err != nil {
			return fmt.Errorf("property %d: %w", p, err)
		}
	}
	return nil
}
