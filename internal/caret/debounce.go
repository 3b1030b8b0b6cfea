package caret

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single callback after a
// quiet period. The editor uses one to fold runs of keystrokes into one
// scroll-to-caret and one autosave.
//
// Thread-safety: all methods are safe for concurrent use. The callback
// never runs concurrently with itself from the debouncer.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending bool
	seq     uint64
	fn      func()
}

// NewDebouncer creates a debouncer that runs fn once no trigger has
// arrived for delay.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules the callback. Repeated triggers within the delay
// window restart it; only the final quiet period fires.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	currentSeq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if !d.pending || d.seq != currentSeq {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.mu.Unlock()
		d.fn()
	})
}

// Flush runs the callback now if a trigger is pending and cancels the
// scheduled run.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	fire := d.pending
	d.pending = false
	d.mu.Unlock()

	if fire {
		d.fn()
	}
}

// Cancel drops any pending trigger. A timer callback already past its
// sequence check may still complete; new ones will not fire.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// Pending reports whether a trigger is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
