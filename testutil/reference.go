package testutil

import (
	"github.com/hupe1980/owlgo/model"
)

// Reference is a naive reasoner computing the expected entailments by
// graph search. It is slow and simple on purpose, to serve as ground
// truth for the bit-matrix engine.
type Reference struct {
	n        int
	sub      []map[int]bool
	eq       []map[int]bool
	disjoint []map[int]bool
}

// NewReference reasons over axioms in a universe of n ids. Out-of-range
// axioms are ignored.
func NewReference(n int, axioms []model.Axiom) *Reference {
	in := func(ids ...model.EntityID) bool {
		for _, id := range ids {
			if int(id) >= n {
				return false
			}
		}
		return true
	}

	edges := make([][]int, n)
	selfLoop := make([]bool, n)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	var disjointPairs [][2]int
	for _, a := range axioms {
		s, o := int(a.Subject), int(a.Object)
		switch a.Kind {
		case model.SubClassOf:
			if !in(a.Subject, a.Object) {
				continue
			}
			edges[s] = append(edges[s], o)
			if s == o {
				selfLoop[s] = true
			}
		case model.EquivalentClass:
			if in(a.Subject, a.Object) && s != o {
				parent[find(s)] = find(o)
			}
		case model.DisjointWith:
			if in(a.Subject, a.Object) {
				disjointPairs = append(disjointPairs, [2]int{s, o})
			}
		}
	}

	r := &Reference{
		n:        n,
		sub:      make([]map[int]bool, n),
		eq:       make([]map[int]bool, n),
		disjoint: make([]map[int]bool, n),
	}

	members := map[int][]int{}
	for i := 0; i < n; i++ {
		members[find(i)] = append(members[find(i)], i)
	}
	for i := 0; i < n; i++ {
		r.eq[i] = map[int]bool{}
		for _, j := range members[find(i)] {
			if j != i {
				r.eq[i][j] = true
				edges[i] = append(edges[i], j)
			}
		}
	}

	for i := 0; i < n; i++ {
		seen := map[int]bool{}
		stack := append([]int(nil), edges[i]...)
		for len(stack) > 0 {
			k := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[k] {
				continue
			}
			seen[k] = true
			stack = append(stack, edges[k]...)
		}
		if !selfLoop[i] {
			delete(seen, i)
		}
		r.sub[i] = seen
	}

	for i := 0; i < n; i++ {
		r.disjoint[i] = map[int]bool{}
	}
	below := func(x, a int) bool { return x == a || r.sub[x][a] }
	for _, p := range disjointPairs {
		for x := 0; x < n; x++ {
			for y := 0; y < n; y++ {
				if (below(x, p[0]) && below(y, p[1])) || (below(x, p[1]) && below(y, p[0])) {
					r.disjoint[x][y] = true
				}
			}
		}
	}
	return r
}

// IsSubClassOf reports the expected non-reflexive answer.
func (r *Reference) IsSubClassOf(child, parent model.EntityID) bool {
	return int(child) < r.n && r.sub[child][int(parent)]
}

// IsEquivalent reports the expected non-reflexive answer.
func (r *Reference) IsEquivalent(a, b model.EntityID) bool {
	return int(a) < r.n && r.eq[a][int(b)]
}

// IsDisjoint reports the expected answer with disjointness inherited by
// subclasses.
func (r *Reference) IsDisjoint(a, b model.EntityID) bool {
	return int(a) < r.n && r.disjoint[a][int(b)]
}

// AncestorCount returns the expected ancestor count.
func (r *Reference) AncestorCount(c model.EntityID) int {
	if int(c) >= r.n {
		return 0
	}
	return len(r.sub[c])
}
