package textbuf

import "sync/atomic"

// Revision identifies a buffer state. Every committed mutation produces
// a new revision.
type Revision uint64

// revisionCounter generates process-unique revision IDs.
var revisionCounter uint64

// nextRevision returns a fresh revision ID.
func nextRevision() Revision {
	return Revision(atomic.AddUint64(&revisionCounter, 1))
}

// Change describes one committed mutation. Range addresses the replaced
// span in the pre-edit text; Delta is the signed length change, so the
// post-edit extent of the affected text is [Range.Start,
// Range.End()+Delta).
type Change struct {
	Range Range
	Delta int
	Rev   Revision
}

// Observer receives change notifications. BufferChanged is called
// synchronously on the mutating goroutine, exactly once per committed
// edit. A Replace is one edit, not a delete followed by an insert.
type Observer interface {
	BufferChanged(Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Change)

// BufferChanged implements Observer.
func (f ObserverFunc) BufferChanged(c Change) { f(c) }
