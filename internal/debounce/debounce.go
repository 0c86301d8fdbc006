// Package debounce coalesces bursts of calls into a single trailing-edge call.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type options struct {
	clock clockwork.Clock
}

// Option configures a Debouncer
type Option func(*options)

// WithClock replaces the real clock, mainly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// Debouncer delays fn until wait has elapsed without a new Call, then invokes
// it once with the most recent value. Build one per owner and reuse it; a fresh
// Debouncer per call cannot coalesce anything.
type Debouncer[T any] struct {
	wait  time.Duration
	fn    func(T)
	clock clockwork.Clock

	mu      sync.Mutex
	timer   clockwork.Timer
	latest  T
	pending bool
	gen     uint64
}

func New[T any](wait time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Debouncer[T]{
		wait:  wait,
		fn:    fn,
		clock: o.clock,
	}
}

// Call records v as the latest value and restarts the quiescence window.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.latest = v
	d.pending = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}

	gen := d.gen
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

// Cancel drops the pending call, if any, and reports whether one was dropped.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pending {
		return false
	}

	d.stopLocked()
	return true
}

// Flush runs the pending call immediately on the caller's goroutine.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	v := d.latest
	d.stopLocked()
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Pending reports whether a call is waiting for the window to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer[T]) stopLocked() {
	var zero T
	d.pending = false
	d.latest = zero
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire ignores timers superseded by a later Call, Cancel or Flush.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	v := d.latest
	d.pending = false
	d.timer = nil
	var zero T
	d.latest = zero
	d.mu.Unlock()

	d.fn(v)
}
