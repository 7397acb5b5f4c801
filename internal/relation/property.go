package relation

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/owlgo/model"
)

const (
	hasDomain uint16 = 1 << 0
	hasRange  uint16 = 1 << 1
)

// Property is the per-property record: characteristic flags plus optional
// domain and range classes.
type Property struct {
	chars  model.Characteristic
	set    uint16
	domain model.EntityID
	rng    model.EntityID
}

// PropertySize is the in-memory size of a Property in bytes.
const PropertySize = uint64(unsafe.Sizeof(Property{}))

// Characteristics returns the flag word.
func (p Property) Characteristics() model.Characteristic {
	return p.chars
}

// Configured reports whether anything was asserted about the property.
func (p Property) Configured() bool {
	return p.chars != 0 || p.set != 0
}

func (p Property) validate(capacity uint32) error {
	if p.chars != 0 && !p.chars.Valid() {
		return fmt.Errorf("undefined characteristic bits %s", p.chars)
	}
	if p.set&hasDomain != 0 && uint32(p.domain) >= capacity {
		return fmt.Errorf("domain %d out of range", p.domain)
	}
	if p.set&hasRange != 0 && uint32(p.rng) >= capacity {
		return fmt.Errorf("range %d out of range", p.rng)
	}
	return nil
}

// SetCharacteristic adds c to the property's flags and reports whether any
// flag was new.
func (t *Tables) SetCharacteristic(prop model.EntityID, c model.Characteristic) bool {
	p := &t.props[prop]
	before := p.chars
	p.chars |= c
	return p.chars != before
}

// SetDomain records the domain class of prop, replacing any previous one.
func (t *Tables) SetDomain(prop, class model.EntityID) {
	p := &t.props[prop]
	p.domain = class
	p.set |= hasDomain
}

// SetRange records the range class of prop, replacing any previous one.
func (t *Tables) SetRange(prop, class model.EntityID) {
	p := &t.props[prop]
	p.rng = class
	p.set |= hasRange
}

// HasCharacteristic reports whether every flag in c is set on prop.
func (t *Tables) HasCharacteristic(prop model.EntityID, c model.Characteristic) bool {
	if uint32(prop) >= t.capacity || c == 0 {
		return false
	}
	return t.props[prop].chars&c == c
}

// Property returns the record for prop; ok is false when prop is out of
// range or nothing was asserted about it.
func (t *Tables) Property(prop model.EntityID) (Property, bool) {
	if uint32(prop) >= t.capacity {
		return Property{}, false
	}
	p := t.props[prop]
	return p, p.Configured()
}

// Domain returns the domain class of prop.
func (t *Tables) Domain(prop model.EntityID) (model.EntityID, bool) {
	if uint32(prop) >= t.capacity {
		return 0, false
	}
	p := &t.props[prop]
	return p.domain, p.set&hasDomain != 0
}

// Range returns the range class of prop.
func (t *Tables) Range(prop model.EntityID) (model.EntityID, bool) {
	if uint32(prop) >= t.capacity {
		return 0, false
	}
	p := &t.props[prop]
	return p.rng, p.set&hasRange != 0
}
