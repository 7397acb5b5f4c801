// Package owlgo is an in-memory OWL/RDFS reasoner whose queries answer in a
// handful of CPU cycles.
//
// An Engine holds a fixed universe of entity ids [0, capacity) and stores
// every relation as a dense bit matrix, so each query is one bounds check
// and one bit test. Reasoning is split in two:
//
//   - mutations record an axiom and set its direct bits immediately, so
//     single-hop questions are answerable right away;
//   - Materialize computes the transitive closure, equivalence propagation
//     and disjointness inheritance in one explicit batch.
//
// # Quick Start
//
//	e, _ := owlgo.New(1024)
//	defer e.Close()
//
//	_ = e.AddSubClass(dog, mammal)
//	_ = e.AddSubClass(mammal, animal)
//	_ = e.Materialize(ctx)
//
//	e.IsSubClassOf(dog, animal) // true
//
// # Cycle Budget
//
// Monitored wraps an engine and measures each query with the CPU cycle
// counter:
//
//	m := e.Monitored(perf.DefaultConfig())
//	m.IsSubClassOf(dog, animal)
//	if err := m.Validate7Tick(); err != nil {
//	    log.Println(err)
//	}
//
// # Memory
//
// Four matrices of capacity² bits are allocated up front; see
// MemoryFootprint. Growing the universe is explicit via Rebuild.
//
// # Concurrency
//
// An Engine has a single writer and any number of readers, but not both at
// once. Handle publishes immutable generations to concurrent readers.
package owlgo
