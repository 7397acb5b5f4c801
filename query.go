package owlgo

import (
	"iter"

	"github.com/hupe1980/owlgo/model"
)

// IsSubClassOf reports child ⊑ parent. Out-of-range ids answer false.
//
// Direct edges are visible as soon as they are added; multi-hop edges once
// the engine is materialized.
func (e *Engine) IsSubClassOf(child, parent model.EntityID) bool {
	if e.reflexive && child == parent {
		return uint32(child) < e.capacity
	}
	return e.tables.Closure.Test(uint32(child), uint32(parent))
}

// IsEquivalent reports a ≡ b.
func (e *Engine) IsEquivalent(a, b model.EntityID) bool {
	if e.reflexive && a == b {
		return uint32(a) < e.capacity
	}
	return e.tables.Equivalence.Test(uint32(a), uint32(b))
}

// IsDisjoint reports whether a and b are disjoint.
//
// Before materialization only asserted pairs answer true. After Materialize
// the answer also includes pairs inherited from ancestors: if A is disjoint
// with B and C ⊑ A, then IsDisjoint(C, B) is true. Asserted and inherited
// pairs share one matrix and cannot be told apart. WithDisjointInheritance
// (false) keeps the answer to asserted pairs only.
func (e *Engine) IsDisjoint(a, b model.EntityID) bool {
	return e.tables.Disjoint.Test(uint32(a), uint32(b))
}

// HasPropertyCharacteristic reports whether every flag in c is set on p.
func (e *Engine) HasPropertyCharacteristic(p model.EntityID, c model.Characteristic) bool {
	return e.tables.HasCharacteristic(p, c)
}

// Domain returns the domain class of p, if one was set.
func (e *Engine) Domain(p model.EntityID) (model.EntityID, bool) {
	return e.tables.Domain(p)
}

// Range returns the range class of p, if one was set.
func (e *Engine) Range(p model.EntityID) (model.EntityID, bool) {
	return e.tables.Range(p)
}

// IsUnsatisfiable reports whether class c can have no instances: it is
// disjoint with itself or with one of its ancestors, or two of its
// ancestors are disjoint. Unlike the other queries it scans c's ancestors.
func (e *Engine) IsUnsatisfiable(c model.EntityID) bool {
	return e.tables.IsUnsatisfiable(c)
}

// AncestorCount returns the number of classes c is a subclass of, not
// counting c itself unless asserted.
func (e *Engine) AncestorCount(c model.EntityID) int {
	return e.tables.Closure.Popcount(uint32(c))
}

// Ancestors iterates the classes c is a subclass of in ascending id order.
func (e *Engine) Ancestors(c model.EntityID) iter.Seq[model.EntityID] {
	return e.row(e.tables.Closure.ForEachInRow, c)
}

// Equivalents iterates the classes equivalent to c.
func (e *Engine) Equivalents(c model.EntityID) iter.Seq[model.EntityID] {
	return e.row(e.tables.Equivalence.ForEachInRow, c)
}

// Unsatisfiable iterates every unsatisfiable class.
func (e *Engine) Unsatisfiable() iter.Seq[model.EntityID] {
	return func(yield func(model.EntityID) bool) {
		for c := model.EntityID(0); uint32(c) < e.capacity; c++ {
			if e.tables.IsUnsatisfiable(c) && !yield(c) {
				return
			}
		}
	}
}

func (e *Engine) row(forEach func(uint32, func(uint32) bool), c model.EntityID) iter.Seq[model.EntityID] {
	return func(yield func(model.EntityID) bool) {
		forEach(uint32(c), func(j uint32) bool {
			return yield(model.EntityID(j))
		})
	}
}
