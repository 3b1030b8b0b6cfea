package textbuf

// Range identifies a span of the buffer as (start offset, length), both
// in UTF-16 code units. A zero-length range represents a caret.
type Range struct {
	Start  int
	Length int
}

// NewRange creates a range from start and length.
func NewRange(start, length int) Range {
	return Range{Start: start, Length: length}
}

// Caret returns an empty range at the given offset.
func Caret(offset int) Range {
	return Range{Start: offset}
}

// End returns the offset one past the last unit in the range.
func (r Range) End() int {
	return r.Start + r.Length
}

// IsEmpty returns true if the range is a caret.
func (r Range) IsEmpty() bool {
	return r.Length == 0
}

// Contains reports whether the offset lies within the range.
// The end offset is excluded.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End()
}

// Clamp constrains the range to [0, limit].
func (r Range) Clamp(limit int) Range {
	if r.Start < 0 {
		r.Length += r.Start
		r.Start = 0
	}
	if r.Start > limit {
		r.Start = limit
	}
	if r.Length < 0 {
		r.Length = 0
	}
	if r.End() > limit {
		r.Length = limit - r.Start
	}
	return r
}

// Intersect returns the overlap of two ranges. ok is false when they are
// disjoint. Ranges that merely touch have an empty intersection and
// report ok=false unless one of them is a caret inside the other.
func (r Range) Intersect(other Range) (Range, bool) {
	start := max(r.Start, other.Start)
	end := min(r.End(), other.End())
	if start > end {
		return Range{}, false
	}
	if start == end {
		// A caret position shared by both counts as an overlap only when
		// one of the ranges is itself a caret there.
		if r.IsEmpty() || other.IsEmpty() {
			return Range{Start: start}, true
		}
		return Range{}, false
	}
	return Range{Start: start, Length: end - start}, true
}
