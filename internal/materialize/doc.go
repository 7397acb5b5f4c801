// Package materialize computes the closure that add-time writes cannot.
//
// Direct subclass edges are already in the closure matrix when a run starts.
// A run repeats passes until one changes nothing:
//
//  1. Equivalence: the equivalence relation is closed transitively (each new
//     pair is written in both directions), equivalent classes subsume each
//     other, and their closure rows are ORed into one another.
//  2. Closure: for every set bit (i, k) row k is ORed into row i.
//
// The first pass visits every row. Changed rows are tracked in roaring
// bitmaps, and later passes revisit only rows that changed, or whose
// ancestors changed, since the previous pass began.
//
// Both steps run in the same pass because equivalence and subclassing feed
// each other. Once the joint fixed point holds, disjointness is inherited by
// subclasses until it is stable too.
//
// Self-bits are never derived: the diagonal of the closure only holds edges
// asserted as such. A run that reaches Config.MaxIterations passes stops with
// ErrIterationCap; everything derived so far stays valid but may be
// incomplete.
package materialize
