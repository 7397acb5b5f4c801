// Package axiom provides the append-only axiom log.
//
// The store records intent only: it never interprets what an axiom means.
// Indices of axioms not yet seen by a materialization run are tracked in a
// Roaring bitmap, so a run can mark exactly the pending range and a caller can
// ask how much work is outstanding in O(1).
package axiom
