package textbuf

import (
	"fmt"
	"sort"
	"unicode/utf16"
)

// Buffer is the mutable character storage for one open document. It owns
// all text as UTF-16 code units and maintains the line-start index
// incrementally on every edit.
//
// The line-start index always holds offset 0 plus the offset following
// every line terminator. A document ending in '\n' therefore has an
// empty trailing line whose start equals Len().
type Buffer struct {
	units      []uint16
	lineStarts []int
	rev        Revision
	observers  []Observer
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		lineStarts: []int{0},
		rev:        nextRevision(),
	}
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	b := NewBuffer()
	b.units = encodeUnits(s)
	b.lineStarts = scanLineStarts(b.units)
	return b
}

// AddObserver registers an observer for change notifications.
func (b *Buffer) AddObserver(o Observer) {
	b.observers = append(b.observers, o)
}

// DelObserver removes a previously registered observer.
// Observers are matched by interface equality, so register pointer
// types, not bare funcs.
func (b *Buffer) DelObserver(o Observer) {
	for i, existing := range b.observers {
		if existing == o {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// Read operations

// Len returns the buffer length in UTF-16 code units.
func (b *Buffer) Len() int {
	return len(b.units)
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	return string(utf16.Decode(b.units))
}

// Slice returns the text in the given range.
func (b *Buffer) Slice(r Range) string {
	b.checkRange(r, "Slice")
	return string(utf16.Decode(b.units[r.Start:r.End()]))
}

// UnitAt returns the code unit at the given offset.
func (b *Buffer) UnitAt(offset int) (uint16, bool) {
	if offset < 0 || offset >= len(b.units) {
		return 0, false
	}
	return b.units[offset], true
}

// Rev returns the current revision.
func (b *Buffer) Rev() Revision {
	return b.rev
}

// Line index queries

// LineCount returns the number of logical lines. An empty buffer has
// one line; a buffer ending in '\n' has an empty trailing line.
func (b *Buffer) LineCount() int {
	return len(b.lineStarts)
}

// LineIndex returns the index of the line containing offset. An offset
// at a line boundary belongs to the line that starts there; offset ==
// Len() belongs to the last line.
func (b *Buffer) LineIndex(offset int) int {
	if offset < 0 || offset > len(b.units) {
		panic(fmt.Sprintf("textbuf: LineIndex offset %d out of range [0,%d]", offset, len(b.units)))
	}
	// Greatest i with lineStarts[i] <= offset.
	i := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	})
	return i - 1
}

// LineRange returns the full character range of a logical line,
// including its terminator. ok is false when index is out of bounds.
func (b *Buffer) LineRange(index int) (Range, bool) {
	if index < 0 || index >= len(b.lineStarts) {
		return Range{}, false
	}
	start := b.lineStarts[index]
	end := len(b.units)
	if index+1 < len(b.lineStarts) {
		end = b.lineStarts[index+1]
	}
	return Range{Start: start, Length: end - start}, true
}

// LineRangeAt returns the range of the line containing offset.
func (b *Buffer) LineRangeAt(offset int) (Range, bool) {
	if offset < 0 || offset > len(b.units) {
		return Range{}, false
	}
	return b.LineRange(b.LineIndex(offset))
}

// LineContentRange returns the line's range excluding its terminator.
func (b *Buffer) LineContentRange(index int) (Range, bool) {
	r, ok := b.LineRange(index)
	if !ok {
		return Range{}, false
	}
	if r.Length > 0 && b.units[r.End()-1] == '\n' {
		r.Length--
	}
	return r, true
}

// LineText returns the text of a line without its terminator.
func (b *Buffer) LineText(index int) string {
	r, ok := b.LineContentRange(index)
	if !ok {
		return ""
	}
	return b.Slice(r)
}

// Write operations

// Insert splices text at the given offset and notifies observers with
// (Range{offset,0}, delta=+len(text)).
func (b *Buffer) Insert(offset int, text string) {
	if offset < 0 || offset > len(b.units) {
		panic(fmt.Sprintf("textbuf: Insert offset %d out of range [0,%d]", offset, len(b.units)))
	}
	b.splice(Range{Start: offset}, encodeUnits(text))
}

// Delete removes the characters in the given range and notifies
// observers with (range, delta=-range.Length). Deleting an empty range
// is a no-op and fires no notification.
func (b *Buffer) Delete(r Range) {
	b.checkRange(r, "Delete")
	if r.IsEmpty() {
		return
	}
	b.splice(r, nil)
}

// Replace substitutes the range with new text as one atomic edit: one
// line-index update, one revision, one notification. Replacing an empty
// range with empty text commits nothing, like Delete on an empty range.
func (b *Buffer) Replace(r Range, text string) {
	b.checkRange(r, "Replace")
	if r.IsEmpty() && text == "" {
		return
	}
	b.splice(r, encodeUnits(text))
}

// SetText replaces the whole document, resetting all derived state.
func (b *Buffer) SetText(s string) {
	b.splice(Range{Start: 0, Length: len(b.units)}, encodeUnits(s))
}

// splice is the single mutation path: it replaces r with ins, repairs
// the line-start index from the affected line onward, bumps the
// revision, and fires exactly one notification.
func (b *Buffer) splice(r Range, ins []uint16) {
	delta := len(ins) - r.Length

	// Content splice.
	next := make([]uint16, 0, len(b.units)+delta)
	next = append(next, b.units[:r.Start]...)
	next = append(next, ins...)
	next = append(next, b.units[r.End():]...)

	// Line index repair: keep starts at or before r.Start, add starts
	// introduced by inserted terminators, shift survivors past the edit.
	starts := b.lineStarts
	keep := sort.Search(len(starts), func(i int) bool { return starts[i] > r.Start })
	repaired := make([]int, 0, len(starts)+countNewlines(ins))
	repaired = append(repaired, starts[:keep]...)
	for i, u := range ins {
		if u == '\n' {
			repaired = append(repaired, r.Start+i+1)
		}
	}
	for _, s := range starts[keep:] {
		if s > r.End() {
			repaired = append(repaired, s+delta)
		}
	}

	b.units = next
	b.lineStarts = repaired
	b.rev = nextRevision()

	change := Change{Range: r, Delta: delta, Rev: b.rev}
	for _, o := range b.observers {
		o.BufferChanged(change)
	}
}

// checkRange panics on out-of-bounds ranges; stale offsets held across
// an unprocessed notification are a bug in the caller.
func (b *Buffer) checkRange(r Range, op string) {
	if r.Start < 0 || r.Length < 0 || r.End() > len(b.units) {
		panic(fmt.Sprintf("textbuf: %s range [%d,%d) out of range [0,%d]", op, r.Start, r.End(), len(b.units)))
	}
}

func countNewlines(units []uint16) int {
	n := 0
	for _, u := range units {
		if u == '\n' {
			n++
		}
	}
	return n
}

// scanLineStarts builds the full line index for the given content.
func scanLineStarts(units []uint16) []int {
	starts := []int{0}
	for i, u := range units {
		if u == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// encodeUnits converts a string to UTF-16 code units.
func encodeUnits(s string) []uint16 {
	if s == "" {
		return nil
	}
	return utf16.Encode([]rune(s))
}
