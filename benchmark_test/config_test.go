package benchmark_test

import (
	"context"
	"testing"

	"github.com/hupe1980/owlgo"
	"github.com/hupe1980/owlgo/model"
	"github.com/hupe1980/owlgo/testutil"
)

// ============================================================================
// Benchmark Configuration
// ============================================================================

// Standard ontology sizes. Memory is four n×n bit matrices, so sizeLarge
// costs about 128 MiB.
const (
	sizeSmall  = 1_000  // Fits in L2
	sizeMedium = 4_096  // Default CI
	sizeLarge  = 16_384 // Production-scale
)

// queryCount is the length of the precomputed query stream.
const queryCount = 1 << 16

// Seed for deterministic benchmarks - enables reproducible comparisons.
const benchSeed = 42

// Sinks keep the compiler from discarding query results.
var (
	sinkBool bool
	sinkID   model.EntityID
)

// ============================================================================
// Benchmark Helpers
// ============================================================================

// benchAxioms generates a random ontology of n classes.
func benchAxioms(n int) []model.Axiom {
	return testutil.NewRNG(benchSeed).Ontology(testutil.DefaultOntologyConfig(n))
}

// openBenchEngine builds and materializes an engine over axioms.
func openBenchEngine(b *testing.B, n int, axioms []model.Axiom, opts ...owlgo.Option) *owlgo.Engine {
	b.Helper()
	e, err := owlgo.New(uint32(n), opts...)
	if err != nil {
		b.Fatalf("failed to create engine: %v", err)
	}
	b.Cleanup(func() { _ = e.Close() })

	for _, a := range axioms {
		if err := e.Apply(a); err != nil {
			b.Fatalf("apply %v: %v", a, err)
		}
	}
	if err := e.Materialize(context.Background()); err != nil {
		b.Fatalf("materialize: %v", err)
	}
	return e
}

// benchQueries returns a deterministic query stream over n classes.
func benchQueries(n int, skew float64) []testutil.QueryPair {
	return testutil.NewRNG(benchSeed).QueryPairs(queryCount, uint32(n), skew)
}

var benchSizes = []struct {
	name string
	n    int
}{
	{"n=1k", sizeSmall},
	{"n=4k", sizeMedium},
	{"n=16k", sizeLarge},
}
