package model

import (
	"fmt"
	"strings"
	"time"
	"unsafe"
)

// EntityID is a dense, zero-based identifier assigned by an external loader.
// It doubles as the bit-matrix index, so 0 <= id < capacity.
type EntityID uint32

// AxiomKind identifies the construct an axiom asserts.
type AxiomKind uint8

const (
	// SubClassOf asserts rdfs:subClassOf(Subject, Object).
	SubClassOf AxiomKind = iota + 1
	// EquivalentClass asserts owl:equivalentClass(Subject, Object).
	EquivalentClass
	// DisjointWith asserts owl:disjointWith(Subject, Object).
	DisjointWith
	// PropertyCharacteristic asserts a characteristic of property Subject.
	PropertyCharacteristic
	// Domain asserts rdfs:domain(Subject, Object) for property Subject.
	Domain
	// Range asserts rdfs:range(Subject, Object) for property Subject.
	Range
)

var axiomKindNames = [...]string{
	SubClassOf:             "SubClassOf",
	EquivalentClass:        "EquivalentClass",
	DisjointWith:           "DisjointWith",
	PropertyCharacteristic: "PropertyCharacteristic",
	Domain:                 "Domain",
	Range:                  "Range",
}

// String returns the name of the axiom kind.
func (k AxiomKind) String() string {
	if k.Valid() {
		return axiomKindNames[k]
	}
	return fmt.Sprintf("AxiomKind(%d)", uint8(k))
}

// Valid reports whether k is a defined axiom kind.
func (k AxiomKind) Valid() bool {
	return k >= SubClassOf && k <= Range
}

// ParseAxiomKind parses a kind name case-insensitively.
func ParseAxiomKind(s string) (AxiomKind, bool) {
	s = strings.TrimSpace(s)
	for k := SubClassOf; k <= Range; k++ {
		if strings.EqualFold(s, axiomKindNames[k]) {
			return k, true
		}
	}
	return 0, false
}

// Characteristic is a set of property characteristic flags.
type Characteristic uint16

const (
	// Transitive marks owl:TransitiveProperty.
	Transitive Characteristic = 1 << iota
	// Symmetric marks owl:SymmetricProperty.
	Symmetric
	// Functional marks owl:FunctionalProperty.
	Functional
	// InverseFunctional marks owl:InverseFunctionalProperty.
	InverseFunctional
	// Asymmetric marks owl:AsymmetricProperty.
	Asymmetric
	// Reflexive marks owl:ReflexiveProperty.
	Reflexive
	// Irreflexive marks owl:IrreflexiveProperty.
	Irreflexive

	// AllCharacteristics is the union of every defined flag.
	AllCharacteristics = Transitive | Symmetric | Functional | InverseFunctional |
		Asymmetric | Reflexive | Irreflexive
)

var characteristicNames = []struct {
	c    Characteristic
	name string
}{
	{Transitive, "Transitive"},
	{Symmetric, "Symmetric"},
	{Functional, "Functional"},
	{InverseFunctional, "InverseFunctional"},
	{Asymmetric, "Asymmetric"},
	{Reflexive, "Reflexive"},
	{Irreflexive, "Irreflexive"},
}

// Valid reports whether c is non-empty and uses only defined flags.
func (c Characteristic) Valid() bool {
	return c != 0 && c&^AllCharacteristics == 0
}

// String returns the flag names joined by "|".
func (c Characteristic) String() string {
	if c == 0 {
		return "None"
	}
	var parts []string
	for _, cn := range characteristicNames {
		if c&cn.c != 0 {
			parts = append(parts, cn.name)
		}
	}
	if rest := c &^ AllCharacteristics; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint16(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseCharacteristic parses a single characteristic name case-insensitively.
func ParseCharacteristic(s string) (Characteristic, bool) {
	s = strings.TrimSpace(s)
	for _, cn := range characteristicNames {
		if strings.EqualFold(s, cn.name) {
			return cn.c, true
		}
	}
	return 0, false
}

const axiomMaterialized uint8 = 1 << 0

// Axiom is a single asserted fact. Its layout is fixed at 16 bytes.
//
// For class axioms Subject and Object are classes. For property axioms
// Subject is the property; Object is the domain/range class, or zero for
// PropertyCharacteristic (whose flag lives in Characteristic).
type Axiom struct {
	Kind           AxiomKind
	flags          uint8
	Characteristic Characteristic
	Subject        EntityID
	Object         EntityID
	TickCost       uint32
}

// AxiomSize is the in-memory size of an Axiom in bytes.
const AxiomSize = int(unsafe.Sizeof(Axiom{}))

// Materialized reports whether a materialization run has processed the axiom.
func (a Axiom) Materialized() bool {
	return a.flags&axiomMaterialized != 0
}

// MarkMaterialized sets the materialized flag and records the tick cost.
func (a *Axiom) MarkMaterialized(tickCost uint32) {
	a.flags |= axiomMaterialized
	a.TickCost = tickCost
}

// String returns a compact, human-readable form of the axiom.
func (a Axiom) String() string {
	switch a.Kind {
	case PropertyCharacteristic:
		return fmt.Sprintf("%s(%d, %s)", a.Kind, a.Subject, a.Characteristic)
	default:
		return fmt.Sprintf("%s(%d, %d)", a.Kind, a.Subject, a.Object)
	}
}

// State is the lifecycle state of an engine.
type State uint8

const (
	// StatePopulating means axioms were added since the last complete
	// materialization; multi-hop answers may be incomplete.
	StatePopulating State = iota
	// StateMaterialized means the closure is at a fixed point.
	StateMaterialized
	// StatePartial means the last materialization hit its iteration cap;
	// multi-hop answers are provisional.
	StatePartial
	// StateClosed means the engine released its matrices.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePopulating:
		return "populating"
	case StateMaterialized:
		return "materialized"
	case StatePartial:
		return "partial"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MaterializeResult reports the work done by one materialization run.
type MaterializeResult struct {
	// Passes is the number of closure passes executed, including the final
	// zero-change pass that confirms the fixed point.
	Passes int
	// RowsChanged is the number of distinct closure rows that gained bits.
	RowsChanged int
	// RowsVisited is the number of closure rows scanned across all passes.
	// Passes after the first skip rows whose ancestry did not change.
	RowsVisited int
	// EquivalencesDerived counts equivalence pairs added by transitivity.
	EquivalencesDerived int
	// DisjointsDerived counts disjointness pairs inherited by subclasses.
	DisjointsDerived int
	// Axioms is the number of pending axioms marked materialized.
	Axioms int
	// Cycles is the cycle count spent, as measured by the engine's counter.
	Cycles uint64
	// Duration is the wall-clock time spent.
	Duration time.Duration
	// Converged is false when the iteration cap stopped the run.
	Converged bool
}
