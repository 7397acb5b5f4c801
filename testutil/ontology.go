package testutil

import (
	"github.com/hupe1980/owlgo/model"
)

// OntologyConfig shapes a random ontology.
type OntologyConfig struct {
	// Classes is the number of entity ids used; ids are in [0, Classes).
	Classes int
	// MaxParents bounds the direct superclasses per class.
	MaxParents int
	// Equivalences is the number of equivalence axioms.
	Equivalences int
	// Disjoints is the number of disjointness axioms.
	Disjoints int
	// Properties is the number of property axioms (characteristics,
	// domains and ranges).
	Properties int
	// AllowCycles lets subclass edges point to higher ids.
	AllowCycles bool
}

// DefaultOntologyConfig returns an acyclic, subclass-heavy configuration.
func DefaultOntologyConfig(classes int) OntologyConfig {
	return OntologyConfig{
		Classes:      classes,
		MaxParents:   2,
		Equivalences: classes / 50,
		Disjoints:    classes / 50,
		Properties:   classes / 20,
	}
}

// Ontology generates axioms per cfg. Without AllowCycles every subclass
// edge points from a higher id to a lower one, so the hierarchy is a DAG
// rooted at 0.
func (r *RNG) Ontology(cfg OntologyConfig) []model.Axiom {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := cfg.Classes
	if n < 2 {
		return nil
	}
	id := func(k int) model.EntityID { return model.EntityID(r.rand.Intn(k)) }

	var axioms []model.Axiom
	for c := 1; c < n; c++ {
		parents := 1
		if cfg.MaxParents > 1 {
			parents += r.rand.Intn(cfg.MaxParents)
		}
		for p := 0; p < parents; p++ {
			parent := id(c)
			if cfg.AllowCycles && r.rand.Intn(10) == 0 {
				parent = id(n)
			}
			axioms = append(axioms, model.Axiom{
				Kind: model.SubClassOf, Subject: model.EntityID(c), Object: parent,
			})
		}
	}
	for i := 0; i < cfg.Equivalences; i++ {
		axioms = append(axioms, model.Axiom{Kind: model.EquivalentClass, Subject: id(n), Object: id(n)})
	}
	for i := 0; i < cfg.Disjoints; i++ {
		axioms = append(axioms, model.Axiom{Kind: model.DisjointWith, Subject: id(n), Object: id(n)})
	}
	for i := 0; i < cfg.Properties; i++ {
		p := id(n)
		switch r.rand.Intn(3) {
		case 0:
			c := model.Characteristic(1) << r.rand.Intn(7)
			axioms = append(axioms, model.Axiom{Kind: model.PropertyCharacteristic, Subject: p, Characteristic: c})
		case 1:
			axioms = append(axioms, model.Axiom{Kind: model.Domain, Subject: p, Object: id(n)})
		default:
			axioms = append(axioms, model.Axiom{Kind: model.Range, Subject: p, Object: id(n)})
		}
	}

	r.rand.Shuffle(len(axioms), func(i, j int) {
		axioms[i], axioms[j] = axioms[j], axioms[i]
	})
	return axioms
}

// Chain returns the subclass chain n-1 ⊑ n-2 ⊑ ... ⊑ 0. With descending
// set, edges are listed from the root down; otherwise from the leaf up.
func Chain(n int, descending bool) []model.Axiom {
	if n < 2 {
		return nil
	}
	axioms := make([]model.Axiom, 0, n-1)
	for c := 1; c < n; c++ {
		axioms = append(axioms, model.Axiom{
			Kind: model.SubClassOf, Subject: model.EntityID(c), Object: model.EntityID(c - 1),
		})
	}
	if !descending {
		for i, j := 0, len(axioms)-1; i < j; i, j = i+1, j-1 {
			axioms[i], axioms[j] = axioms[j], axioms[i]
		}
	}
	return axioms
}
