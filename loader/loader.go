// Package loader reads ontologies from YAML and applies them to an engine.
//
// A document names its capacity, optionally maps entity names to ids, and
// lists axioms in order:
//
//	name: animals
//	capacity: 16
//	entities:
//	  Animal: 0
//	  Mammal: 1
//	  Dog: 2
//	axioms:
//	  - kind: SubClassOf
//	    subject: Mammal
//	    object: Animal
//	  - kind: SubClassOf
//	    subject: 2
//	    object: 1
//	  - kind: PropertyCharacteristic
//	    subject: 10
//	    characteristics: [Transitive]
//
// Subjects and objects are either integer ids or entity names.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/owlgo/model"
)

var (
	// ErrInvalidOntology is wrapped by every validation error.
	ErrInvalidOntology = errors.New("invalid ontology")
)

// Ontology is a parsed document.
type Ontology struct {
	// Name is informational.
	Name string `yaml:"name,omitempty"`

	// Capacity is the engine capacity. Required.
	Capacity uint32 `yaml:"capacity"`

	// Entities maps names to ids.
	Entities map[string]uint32 `yaml:"entities,omitempty"`

	// Axioms are applied in order.
	Axioms []AxiomSpec `yaml:"axioms"`

	names map[model.EntityID]string
}

// AxiomSpec is one axiom as written in the document.
type AxiomSpec struct {
	Kind            string   `yaml:"kind"`
	Subject         Ref      `yaml:"subject"`
	Object          Ref      `yaml:"object,omitempty"`
	Characteristics []string `yaml:"characteristics,omitempty"`
}

// Ref is an entity reference by id or by name.
type Ref struct {
	ID   uint32
	Name string
	set  bool
}

// IsZero reports whether the reference was omitted.
func (r Ref) IsZero() bool {
	return !r.set
}

// UnmarshalYAML accepts an integer id or a name.
func (r *Ref) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: entity reference must be a scalar", node.Line)
	}
	r.set = true
	if node.ShortTag() == "!!int" {
		var id uint32
		if err := node.Decode(&id); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		r.ID = id
		return nil
	}
	r.Name = node.Value
	return nil
}

// MarshalYAML writes names as strings and ids as integers.
func (r Ref) MarshalYAML() (any, error) {
	if r.Name != "" {
		return r.Name, nil
	}
	return r.ID, nil
}

// AxiomError reports the failing axiom by position.
type AxiomError struct {
	Index int
	Kind  string
	Err   error
}

func (e *AxiomError) Error() string {
	return fmt.Sprintf("axioms[%d] (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *AxiomError) Unwrap() error { return e.Err }

// ReadYAML decodes and validates a document. Unknown fields are rejected.
func ReadYAML(r io.Reader) (*Ontology, error) {
	var o Ontology
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// LoadFile reads and validates the document at path.
func LoadFile(path string) (*Ontology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ontology file: %w", err)
	}
	return ReadYAML(bytes.NewReader(data))
}

// WriteYAML encodes o.
func WriteYAML(w io.Writer, o *Ontology) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(o); err != nil {
		return err
	}
	return enc.Close()
}

func (o *Ontology) validate() error {
	if o.Capacity == 0 {
		return fmt.Errorf("%w: capacity is required", ErrInvalidOntology)
	}
	o.names = make(map[model.EntityID]string, len(o.Entities))
	for name, id := range o.Entities {
		if id >= o.Capacity {
			return fmt.Errorf("%w: entity %q id %d exceeds capacity %d", ErrInvalidOntology, name, id, o.Capacity)
		}
		if prev, dup := o.names[model.EntityID(id)]; dup {
			return fmt.Errorf("%w: entities %q and %q share id %d", ErrInvalidOntology, prev, name, id)
		}
		o.names[model.EntityID(id)] = name
	}
	if _, err := o.Resolve(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOntology, err)
	}
	return nil
}

// Resolve converts the specs into axioms, resolving names.
func (o *Ontology) Resolve() ([]model.Axiom, error) {
	axioms := make([]model.Axiom, 0, len(o.Axioms))
	for i, spec := range o.Axioms {
		a, err := o.resolve(spec)
		if err != nil {
			return nil, &AxiomError{Index: i, Kind: spec.Kind, Err: err}
		}
		axioms = append(axioms, a)
	}
	return axioms, nil
}

func (o *Ontology) resolve(spec AxiomSpec) (model.Axiom, error) {
	kind, ok := model.ParseAxiomKind(spec.Kind)
	if !ok {
		return model.Axiom{}, fmt.Errorf("unknown kind %q", spec.Kind)
	}
	a := model.Axiom{Kind: kind}

	var err error
	if a.Subject, err = o.ref(spec.Subject, "subject"); err != nil {
		return a, err
	}

	if kind == model.PropertyCharacteristic {
		if !spec.Object.IsZero() {
			return a, fmt.Errorf("object not allowed")
		}
		if len(spec.Characteristics) == 0 {
			return a, fmt.Errorf("characteristics required")
		}
		for _, name := range spec.Characteristics {
			c, ok := model.ParseCharacteristic(name)
			if !ok {
				return a, fmt.Errorf("unknown characteristic %q", name)
			}
			a.Characteristic |= c
		}
		return a, nil
	}

	if len(spec.Characteristics) > 0 {
		return a, fmt.Errorf("characteristics only apply to PropertyCharacteristic")
	}
	a.Object, err = o.ref(spec.Object, "object")
	return a, err
}

func (o *Ontology) ref(r Ref, field string) (model.EntityID, error) {
	if r.IsZero() {
		return 0, fmt.Errorf("%s required", field)
	}
	if r.Name == "" {
		return model.EntityID(r.ID), nil
	}
	id, ok := o.Entities[r.Name]
	if !ok {
		return 0, fmt.Errorf("%s: undefined entity %q", field, r.Name)
	}
	return model.EntityID(id), nil
}

// NameOf returns the entity name for id, or its decimal form.
func (o *Ontology) NameOf(id model.EntityID) string {
	if name, ok := o.names[id]; ok {
		return name
	}
	return fmt.Sprint(uint32(id))
}

// Names returns the entity names sorted by id.
func (o *Ontology) Names() []string {
	ids := make([]model.EntityID, 0, len(o.names))
	for id := range o.names {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = o.names[id]
	}
	return names
}
