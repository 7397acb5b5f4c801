package owlgo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Handle publishes engines to concurrent readers.
//
// Readers call Load and query the returned engine without locks; it is never
// mutated while published. Writers call Update, which works on a private
// clone and swaps it in atomically. Superseded engines are left to the
// garbage collector because readers may still hold them.
type Handle struct {
	mu         sync.Mutex
	current    atomic.Pointer[Engine]
	generation atomic.Uint64
}

// NewHandle publishes e as generation 0. The caller must not mutate e
// afterwards.
func NewHandle(e *Engine) *Handle {
	h := &Handle{}
	h.current.Store(e)
	return h
}

// Load returns the published engine.
func (h *Handle) Load() *Engine {
	return h.current.Load()
}

// Generation returns the number of successful updates.
func (h *Handle) Generation() uint64 {
	return h.generation.Load()
}

// Update clones the published engine, applies fn, materializes and
// publishes the result. Writers are serialized; readers are never blocked.
//
// If fn fails nothing is published. A partial materialization is still
// published, since its answers are sound, and the error is returned.
func (h *Handle) Update(ctx context.Context, fn func(*Engine) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := h.current.Load().Clone()
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		_ = next.Close()
		return err
	}

	err = next.Materialize(ctx)
	if err != nil && !errors.Is(err, ErrPartialMaterialization) {
		_ = next.Close()
		return err
	}

	h.current.Store(next)
	h.generation.Add(1)
	return err
}
