// Package form holds the per-screen form controllers: draft values, field
// errors, submit gating and the call to the adapter behind the screen.
//
// A controller is mounted when created. Once Unmount is called, the outcome
// of a call still in flight is discarded and the controller is left as is.
package form

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/atinyakov/TodoKeeper/internal/validation"
)

// Outcome is what a screen needs to react to a submit.
type Outcome struct {
	// Errors is non-empty when validation rejected the draft; no call was made.
	Errors validation.Errors
	// Done is true when the call completed while the form was mounted.
	Done    bool
	Success bool
	// Offline is true when the result was kept on the device only.
	Offline bool
	Title   string
	Message string
}

type base struct {
	mounted    *atomic.Bool
	submitting *atomic.Bool

	mu   sync.Mutex
	errs validation.Errors
}

func newBase() base {
	return base{
		mounted:    atomic.NewBool(true),
		submitting: atomic.NewBool(false),
		errs:       validation.Errors{},
	}
}

// Unmount detaches the controller from its screen.
func (b *base) Unmount() {
	b.mounted.Store(false)
}

// Mounted reports whether the screen is still shown.
func (b *base) Mounted() bool {
	return b.mounted.Load()
}

// Submitting reports whether a call is in flight.
func (b *base) Submitting() bool {
	return b.submitting.Load()
}

// Errors returns a copy of the outstanding field errors.
func (b *base) Errors() validation.Errors {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(validation.Errors, len(b.errs))
	for k, v := range b.errs {
		out[k] = v
	}
	return out
}

func (b *base) edited(field string) {
	b.mu.Lock()
	b.errs.Clear(field)
	b.mu.Unlock()
}

func (b *base) canSubmit(complete bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return complete && b.errs.Valid() && !b.submitting.Load()
}

// run validates, then performs call unless another call is in flight.
func (b *base) run(errs validation.Errors, call func() Outcome) Outcome {
	if !errs.Valid() {
		b.mu.Lock()
		b.errs = errs
		b.mu.Unlock()
		out := make(validation.Errors, len(errs))
		for k, v := range errs {
			out[k] = v
		}
		return Outcome{Errors: out}
	}
	if !b.submitting.CompareAndSwap(false, true) {
		return Outcome{}
	}

	out := call()
	if !b.mounted.Load() {
		return Outcome{}
	}
	b.submitting.Store(false)
	out.Done = true
	return out
}
