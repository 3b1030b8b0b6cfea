package caret

import (
	"sync"
	"time"
)

// DefaultBlinkInterval is the phase length of the blink cycle: the
// caret is visible for one interval, hidden for the next.
const DefaultBlinkInterval = 500 * time.Millisecond

// Blinker drives the caret blink cycle. It reports visibility flips
// through a callback; it draws nothing itself.
//
// Thread-safety: all methods are safe for concurrent use. At most one
// flip is scheduled at a time, and a stale timer that fires after Stop
// or Reset is discarded via the sequence number.
type Blinker struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	running  bool
	visible  bool
	seq      uint64
	onFlip   func(visible bool)
}

// NewBlinker creates a stopped blinker. onFlip receives every
// visibility change, including the initial show from Start.
func NewBlinker(interval time.Duration, onFlip func(visible bool)) *Blinker {
	if interval <= 0 {
		interval = DefaultBlinkInterval
	}
	return &Blinker{interval: interval, onFlip: onFlip}
}

// Start begins the cycle with the caret visible. Starting a running
// blinker restarts its phase.
func (b *Blinker) Start() {
	b.mu.Lock()
	b.running = true
	changed := b.showLocked()
	b.mu.Unlock()

	if changed && b.onFlip != nil {
		b.onFlip(true)
	}
}

// Stop halts the cycle and hides the caret. No scheduled flip runs
// after Stop returns, other than the hide it reports itself.
func (b *Blinker) Stop() {
	b.mu.Lock()
	b.running = false
	b.seq++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	wasVisible := b.visible
	b.visible = false
	b.mu.Unlock()

	if wasVisible && b.onFlip != nil {
		b.onFlip(false)
	}
}

// Reset makes the caret visible immediately and restarts the phase.
// Typing and caret motion call this so the caret never blinks away
// mid-edit. No-op when stopped.
func (b *Blinker) Reset() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	changed := b.showLocked()
	b.mu.Unlock()

	if changed && b.onFlip != nil {
		b.onFlip(true)
	}
}

// Visible reports the current blink phase.
func (b *Blinker) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// showLocked makes the caret visible, invalidates any scheduled flip,
// and arms a fresh one. Returns whether visibility changed. Must hold
// b.mu.
func (b *Blinker) showLocked() bool {
	b.seq++
	if b.timer != nil {
		b.timer.Stop()
	}
	changed := !b.visible
	b.visible = true
	b.scheduleLocked()
	return changed
}

// scheduleLocked arms the timer for the next flip. Must hold b.mu.
func (b *Blinker) scheduleLocked() {
	currentSeq := b.seq
	b.timer = time.AfterFunc(b.interval, func() {
		b.mu.Lock()
		if !b.running || b.seq != currentSeq {
			b.mu.Unlock()
			return
		}
		b.visible = !b.visible
		visible := b.visible
		b.scheduleLocked()
		cb := b.onFlip
		b.mu.Unlock()
		if cb != nil {
			cb(visible)
		}
	})
}
