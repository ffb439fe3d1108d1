// Package debounce delays a rapidly changing value until it settles.
package debounce

import (
	"sync"
	"time"

	"playcraft/internal/clock"
)

// DefaultDelay is how long an input must stay unchanged before it settles
const DefaultDelay = 350 * time.Millisecond

// Debouncer holds an input value and a settled value. The settled value
// follows the input once the input has not changed for the configured delay.
//
// At most one timer is pending at a time. Set and Stop may be called from any
// goroutine; the settle callback runs on the timer's goroutine.
type Debouncer[T comparable] struct {
	clock    clock.Clock
	delay    time.Duration
	onSettle func(T)

	mu      sync.Mutex
	input   T
	settled T
	timer   clock.Timer
	gen     uint64
	stopped bool
}

// New returns a Debouncer whose input and settled value start at initial.
// onSettle, if not nil, is called with the new settled value every time it
// changes. A non-positive delay falls back to DefaultDelay.
func New[T comparable](c clock.Clock, delay time.Duration, initial T, onSettle func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if c == nil {
		c = clock.Real()
	}
	return &Debouncer[T]{
		clock:    c,
		delay:    delay,
		onSettle: onSettle,
		input:    initial,
		settled:  initial,
	}
}

// Set records a new input value and restarts the delay. Setting the value the
// input already has does nothing.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || v == d.input {
		return
	}
	d.input = v
	d.restart(v)
}

// Reset sets both the input and the settled value to v immediately, dropping
// any pending timer. onSettle is not called.
func (d *Debouncer[T]) Reset(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancel()
	d.input = v
	d.settled = v
}

// Input returns the latest value passed to Set
func (d *Debouncer[T]) Input() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.input
}

// Value returns the settled value
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Pending reports whether a timer is waiting to fire
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending timer. Later calls to Set are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancel()
	d.stopped = true
}

// restart replaces the pending timer. d.mu must be held.
func (d *Debouncer[T]) restart(v T) {
	d.cancel()

	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.fire(gen, v)
	})
}

// cancel stops the pending timer. A callback that already started is
// neutralized by bumping the generation. d.mu must be held.
func (d *Debouncer[T]) cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	changed := v != d.settled
	d.settled = v
	onSettle := d.onSettle
	d.mu.Unlock()

	if changed && onSettle != nil {
		onSettle(v)
	}
}
