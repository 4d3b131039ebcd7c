package browse

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultQuietPeriod is how long input must stay unchanged before it settles
const DefaultQuietPeriod = 500 * time.Millisecond

// Debouncer runs the most recently scheduled callback once the quiet period
// elapses without another Reschedule. Callbacks run on a timer goroutine.
type Debouncer struct {
	mu    sync.Mutex
	clock clock.Clock
	wait  time.Duration
	timer *clock.Timer
	seq   uint64
}

// NewDebouncer creates a debouncer on the given clock. A nil clock uses the
// wall clock and a non-positive wait uses DefaultQuietPeriod.
func NewDebouncer(c clock.Clock, wait time.Duration) *Debouncer {
	if c == nil {
		c = clock.New()
	}
	if wait <= 0 {
		wait = DefaultQuietPeriod
	}
	return &Debouncer{clock: c, wait: wait}
}

// Reschedule cancels any pending callback and schedules fn after the quiet period.
func (d *Debouncer) Reschedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.mu.Lock()
		if d.seq != seq {
			// superseded between firing and acquiring the lock
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.seq++
}

// Pending reports whether a callback is scheduled and has not fired yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Wait returns the configured quiet period
func (d *Debouncer) Wait() time.Duration {
	return d.wait
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
