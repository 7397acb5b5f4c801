// Package model defines the core types shared by owlgo's packages.
//
// # Identity Types
//
//   - EntityID: dense, zero-based class or property identifier (uint32)
//
// # Axiom Types
//
//   - AxiomKind: which OWL/RDFS construct an axiom asserts
//   - Characteristic: property characteristic flags (transitive, symmetric, ...)
//   - Axiom: a 16-byte, append-only record of one asserted fact
//
// # Engine State
//
//   - State: Populating (dirty), Materialized, Partial, Closed
//   - MaterializeResult: statistics of one materialization run
package model
