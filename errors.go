package owlgo

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/owlgo/internal/axiom"
	"github.com/hupe1980/owlgo/internal/materialize"
	"github.com/hupe1980/owlgo/model"
)

var (
	// ErrCapacityExceeded is returned when an entity id is >= the engine capacity.
	ErrCapacityExceeded = errors.New("entity id exceeds capacity")

	// ErrInvalidProperty is returned when a property characteristic is undefined.
	ErrInvalidProperty = errors.New("invalid property characteristic")

	// ErrPartialMaterialization is returned when materialization stopped before
	// its fixed point. Multi-hop answers are provisional until a later run
	// converges.
	ErrPartialMaterialization = errors.New("partial materialization")

	// ErrCorruptState is returned by ValidateIntegrity when an invariant fails.
	ErrCorruptState = errors.New("corrupt engine state")

	// ErrInvalidCapacity is returned for a capacity of zero or above MaxCapacity,
	// or when Rebuild is asked to shrink.
	ErrInvalidCapacity = errors.New("invalid capacity")

	// ErrClosed is returned when a mutation is attempted on a closed engine.
	ErrClosed = errors.New("engine closed")

	// ErrInvalidAxiom is returned by Apply for an undefined axiom kind.
	ErrInvalidAxiom = errors.New("invalid axiom kind")

	// ErrAxiomLogFull is returned when the axiom log cannot take another entry.
	ErrAxiomLogFull = errors.New("axiom log full")
)

// CapacityExceededError reports the offending call and id.
type CapacityExceededError struct {
	Op       string
	ID       model.EntityID
	Capacity uint32
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: entity id %d exceeds capacity %d", e.Op, e.ID, e.Capacity)
}

// Is makes errors.Is(err, ErrCapacityExceeded) hold.
func (e *CapacityExceededError) Is(target error) bool { return target == ErrCapacityExceeded }

// PartialMaterializationError reports why a run stopped early.
//
// The original underlying error can be accessed via errors.Unwrap.
type PartialMaterializationError struct {
	Passes int
	Reason string
	cause  error
}

func (e *PartialMaterializationError) Error() string {
	return fmt.Sprintf("partial materialization after %d passes: %s", e.Passes, e.Reason)
}

// Is makes errors.Is(err, ErrPartialMaterialization) hold.
func (e *PartialMaterializationError) Is(target error) bool {
	return target == ErrPartialMaterialization
}

func (e *PartialMaterializationError) Unwrap() error { return e.cause }

// CorruptStateError describes the first invariant violation found.
type CorruptStateError struct {
	Description string
	cause       error
}

func (e *CorruptStateError) Error() string {
	return "corrupt engine state: " + e.Description
}

// Is makes errors.Is(err, ErrCorruptState) hold.
func (e *CorruptStateError) Is(target error) bool { return target == ErrCorruptState }

func (e *CorruptStateError) Unwrap() error { return e.cause }

func translateError(err error, passes int) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, materialize.ErrIterationCap):
		return &PartialMaterializationError{Passes: passes, Reason: "iteration cap reached", cause: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &PartialMaterializationError{Passes: passes, Reason: err.Error(), cause: err}
	case errors.Is(err, axiom.ErrStoreFull):
		return fmt.Errorf("%w: %w", ErrAxiomLogFull, err)
	}

	return err
}
