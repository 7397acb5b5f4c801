// Package relation holds the relation tables an ontology engine reasons over:
// four square bit matrices (direct subclass edges, their transitive closure,
// equivalence and disjointness) and a flat per-property table.
//
// Every mutator here assumes its arguments were bounds-checked by the caller;
// every reader is total and answers false or absent for out-of-range ids.
package relation
