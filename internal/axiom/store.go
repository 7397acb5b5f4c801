package axiom

import (
	"errors"
	"iter"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/owlgo/model"
)

// ErrStoreFull is returned when the log reaches math.MaxUint32 entries.
var ErrStoreFull = errors.New("axiom store full")

// Store is an append-only log of axioms.
//
// Store is not safe for concurrent mutation.
type Store struct {
	axioms  []model.Axiom
	pending *roaring.Bitmap
}

// NewStore creates an empty store with room for sizeHint axioms.
func NewStore(sizeHint int) *Store {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Store{
		axioms:  make([]model.Axiom, 0, sizeHint),
		pending: roaring.New(),
	}
}

// Append records a new axiom and returns its index.
func (s *Store) Append(a model.Axiom) (uint32, error) {
	if uint64(len(s.axioms)) >= math.MaxUint32 {
		return 0, ErrStoreFull
	}
	idx := uint32(len(s.axioms))
	s.axioms = append(s.axioms, a)
	s.pending.Add(idx)
	return idx, nil
}

// Len returns the number of recorded axioms.
func (s *Store) Len() int {
	return len(s.axioms)
}

// Get returns the axiom at idx.
func (s *Store) Get(idx uint32) (model.Axiom, bool) {
	if int(idx) >= len(s.axioms) {
		return model.Axiom{}, false
	}
	return s.axioms[idx], true
}

// PendingCount returns the number of axioms not yet materialized.
func (s *Store) PendingCount() int {
	return int(s.pending.GetCardinality())
}

// Pending iterates the indices of axioms not yet materialized.
func (s *Store) Pending() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := s.pending.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// MarkPendingMaterialized marks every pending axiom materialized, spreading
// totalTicks evenly across them, and returns how many were marked.
func (s *Store) MarkPendingMaterialized(totalTicks uint64) int {
	n := s.PendingCount()
	if n == 0 {
		return 0
	}
	share := totalTicks / uint64(n)
	if share == 0 {
		share = 1
	}
	if share > math.MaxUint32 {
		share = math.MaxUint32
	}
	it := s.pending.Iterator()
	for it.HasNext() {
		s.axioms[it.Next()].MarkMaterialized(uint32(share))
	}
	s.pending.Clear()
	return n
}

// All iterates every axiom in insertion order.
func (s *Store) All() iter.Seq2[uint32, model.Axiom] {
	return func(yield func(uint32, model.Axiom) bool) {
		for i, a := range s.axioms {
			if !yield(uint32(i), a) {
				return
			}
		}
	}
}

// CountByKind returns the number of axioms of each kind.
func (s *Store) CountByKind() map[model.AxiomKind]int {
	counts := make(map[model.AxiomKind]int)
	for _, a := range s.axioms {
		counts[a.Kind]++
	}
	return counts
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	axioms := make([]model.Axiom, len(s.axioms), cap(s.axioms))
	copy(axioms, s.axioms)
	return &Store{
		axioms:  axioms,
		pending: s.pending.Clone(),
	}
}

// Reset drops all axioms.
func (s *Store) Reset() {
	s.axioms = nil
	s.pending.Clear()
}
