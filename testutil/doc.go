// Package testutil provides testing utilities for owlgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random ontologies, computing the
// expected entailments with a naive reasoner, and drawing skewed query
// workloads.
//
// # Random Ontologies
//
//	rng := testutil.NewRNG(seed)
//	axioms := rng.Ontology(testutil.DefaultOntologyConfig(1000))
//
// # Ground Truth
//
//	ref := testutil.NewReference(1000, axioms)
//	ref.IsSubClassOf(child, parent)
//
// # Query Workloads
//
// QueryPairs wraps the generator owlgo bench uses, seeded from the RNG.
//
//	pairs := rng.QueryPairs(100_000, 1000, 1.2)
package testutil
