package owlgo

import (
	"github.com/hupe1980/owlgo/model"
)

// Close releases the matrices and the axiom log. Later mutations return
// ErrClosed and queries answer false. Closing twice is a no-op.
//
// Close must not run concurrently with queries on the same engine.
func (e *Engine) Close() error {
	if e == nil || e.state == model.StateClosed {
		return nil
	}
	e.tables.Release()
	e.store.Reset()
	e.capacity = 0
	e.state = model.StateClosed
	return nil
}
