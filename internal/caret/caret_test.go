package caret

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBlinkerStartShowsCaret(t *testing.T) {
	var flips []bool
	var mu sync.Mutex
	b := NewBlinker(time.Hour, func(v bool) {
		mu.Lock()
		flips = append(flips, v)
		mu.Unlock()
	})

	b.Start()
	defer b.Stop()

	if !b.Visible() {
		t.Error("caret should be visible after Start")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(flips) != 1 || !flips[0] {
		t.Errorf("flips = %v, want [true]", flips)
	}
}

func TestBlinkerCycles(t *testing.T) {
	var count atomic.Int32
	b := NewBlinker(10*time.Millisecond, func(bool) {
		count.Add(1)
	})

	b.Start()
	time.Sleep(100 * time.Millisecond)
	b.Stop()

	// Initial show plus several flips.
	if n := count.Load(); n < 3 {
		t.Errorf("flip count = %d, want at least 3", n)
	}
}

func TestBlinkerStopHidesAndSilences(t *testing.T) {
	var count atomic.Int32
	b := NewBlinker(5*time.Millisecond, func(bool) {
		count.Add(1)
	})

	b.Start()
	time.Sleep(20 * time.Millisecond)
	b.Stop()

	if b.Visible() {
		t.Error("caret should be hidden after Stop")
	}

	settled := count.Load()
	time.Sleep(30 * time.Millisecond)
	if n := count.Load(); n != settled {
		t.Errorf("flips continued after Stop: %d -> %d", settled, n)
	}
}

func TestBlinkerResetKeepsCaretVisible(t *testing.T) {
	b := NewBlinker(20*time.Millisecond, nil)
	b.Start()
	defer b.Stop()

	// Reset faster than the interval; the caret must never hide.
	for i := 0; i < 10; i++ {
		time.Sleep(10 * time.Millisecond)
		b.Reset()
		if !b.Visible() {
			t.Fatalf("caret hidden after reset %d", i)
		}
	}
}

func TestBlinkerResetWhileStoppedIsNoop(t *testing.T) {
	var count atomic.Int32
	b := NewBlinker(time.Hour, func(bool) { count.Add(1) })

	b.Reset()

	if b.Visible() || count.Load() != 0 {
		t.Error("Reset on a stopped blinker should do nothing")
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	var count atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() {
		count.Add(1)
	})

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(60 * time.Millisecond)
	if n := count.Load(); n != 1 {
		t.Errorf("callback ran %d times, want 1", n)
	}
	if d.Pending() {
		t.Error("nothing should be pending after the quiet period")
	}
}

func TestDebouncerCancel(t *testing.T) {
	var count atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() {
		count.Add(1)
	})

	d.Trigger()
	d.Cancel()

	time.Sleep(50 * time.Millisecond)
	if n := count.Load(); n != 0 {
		t.Errorf("callback ran %d times after Cancel, want 0", n)
	}
}

func TestDebouncerFlush(t *testing.T) {
	var count atomic.Int32
	d := NewDebouncer(time.Hour, func() {
		count.Add(1)
	})

	d.Trigger()
	d.Flush()

	if n := count.Load(); n != 1 {
		t.Errorf("callback ran %d times, want 1 immediately", n)
	}

	// Flush with nothing pending does not fire.
	d.Flush()
	if n := count.Load(); n != 1 {
		t.Errorf("callback ran %d times after idle flush, want 1", n)
	}
}

func TestDebouncerRetriggersAfterFire(t *testing.T) {
	var count atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() {
		count.Add(1)
	})

	d.Trigger()
	time.Sleep(30 * time.Millisecond)
	d.Trigger()
	time.Sleep(30 * time.Millisecond)

	if n := count.Load(); n != 2 {
		t.Errorf("callback ran %d times, want 2", n)
	}
}
