package layout

import (
	"unicode/utf16"

	"github.com/inkpad/inkcore/internal/core"
	"github.com/inkpad/inkcore/internal/shape"
	"github.com/inkpad/inkcore/internal/textbuf"
)

// Line is one shaped visual line: a buffer range, its shaped run, and
// typographic metrics. Lines are immutable once constructed; the engine
// replaces rather than mutates them.
//
// The covered range excludes the line terminator. X coordinates in
// XOffset, PositionForX, and SelectionRect are local to the line; the
// engine adds the line's origin.
type Line struct {
	index   int
	r       textbuf.Range
	text    string
	units   []uint16
	xs      []float64 // cumulative x per unit boundary, len == r.Length+1
	metrics shape.Metrics
	height  float64
	origin  core.Point
	spans   []core.StyleSpan
}

// newLine shapes nothing itself; the engine passes in the shaped run.
func newLine(index int, r textbuf.Range, text string, run shape.Run, metrics shape.Metrics, height float64, origin core.Point) *Line {
	xs := make([]float64, len(run.Advances)+1)
	for i, adv := range run.Advances {
		xs[i+1] = xs[i] + adv
	}
	return &Line{
		index:   index,
		r:       r,
		text:    text,
		units:   utf16.Encode([]rune(text)),
		xs:      xs,
		metrics: metrics,
		height:  height,
		origin:  origin,
	}
}

// Index returns the visual line index.
func (l *Line) Index() int { return l.index }

// Range returns the buffer range covered by this line, excluding any
// terminator.
func (l *Line) Range() textbuf.Range { return l.r }

// Text returns the line's text.
func (l *Line) Text() string { return l.text }

// Width returns the shaped width.
func (l *Line) Width() float64 { return l.xs[len(l.xs)-1] }

// Height returns the line height (metrics height times the configured
// multiplier).
func (l *Line) Height() float64 { return l.height }

// Metrics returns the shaped metrics.
func (l *Line) Metrics() shape.Metrics { return l.metrics }

// Origin returns the line's position in content coordinates.
func (l *Line) Origin() core.Point { return l.origin }

// Spans returns the style decorations overlapping this line, clipped to
// its range, in absolute offsets.
func (l *Line) Spans() []core.StyleSpan { return l.spans }

// XOffset returns the local X coordinate of the given absolute offset.
// Valid for offsets in [start, end] inclusive, so the end-of-line caret
// position is addressable. ok is false outside that range.
func (l *Line) XOffset(abs int) (float64, bool) {
	local := abs - l.r.Start
	if local < 0 || local >= len(l.xs) {
		return 0, false
	}
	return l.xs[local], true
}

// PositionForX maps a local X coordinate to the nearest character
// boundary and returns the absolute offset. X outside the shaped run
// clamps to the line bounds. Surrogate pairs are never split.
func (l *Line) PositionForX(x float64) int {
	n := len(l.xs) - 1
	if x <= 0 || n == 0 {
		return l.r.Start
	}
	if x >= l.xs[n] {
		return l.r.Start + n
	}

	// First boundary at or beyond x, then pick the nearer neighbor.
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		if l.xs[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	i := lo
	if i > 0 && x-l.xs[i-1] < l.xs[i]-x {
		i--
	}

	if l.isLowSurrogate(i) {
		// Between the halves of a pair: snap to the nearer side.
		if x-l.xs[i-1] < l.xs[i+1]-x {
			i--
		} else {
			i++
		}
	}
	return l.r.Start + i
}

// SelectionRect intersects the requested range with this line's own
// range and returns one local rectangle spanning the selected columns at
// full line height. ok is false when the ranges do not overlap.
func (l *Line) SelectionRect(r textbuf.Range) (core.Rect, bool) {
	sect, ok := r.Intersect(l.r)
	if !ok {
		// A caret at the line's end boundary still has geometry here.
		if r.IsEmpty() && r.Start == l.r.End() {
			sect = textbuf.Range{Start: r.Start}
		} else {
			return core.Rect{}, false
		}
	}

	x0, ok0 := l.XOffset(sect.Start)
	x1, ok1 := l.XOffset(sect.End())
	if !ok0 || !ok1 {
		return core.Rect{}, false
	}
	return core.Rect{X: x0, Y: 0, Width: x1 - x0, Height: l.height}, true
}

// withSpans returns a copy of the line carrying the given decorations.
// Called only during construction by the engine; lines never change
// after they are cached.
func (l *Line) withSpans(spans []core.StyleSpan) *Line {
	clipped := clipSpans(spans, l.r)
	if len(clipped) == 0 {
		return l
	}
	dup := *l
	dup.spans = clipped
	return &dup
}

// isLowSurrogate reports whether the unit at local index i is the
// trailing half of a surrogate pair.
func (l *Line) isLowSurrogate(i int) bool {
	if i < 0 || i >= len(l.units) {
		return false
	}
	return l.units[i] >= 0xDC00 && l.units[i] < 0xE000
}

// clipSpans intersects spans with the line range.
func clipSpans(spans []core.StyleSpan, r textbuf.Range) []core.StyleSpan {
	var out []core.StyleSpan
	for _, s := range spans {
		sect, ok := (textbuf.Range{Start: s.Start, Length: s.Length}).Intersect(r)
		if !ok || sect.IsEmpty() {
			continue
		}
		out = append(out, core.StyleSpan{Start: sect.Start, Length: sect.Length, Style: s.Style})
	}
	return out
}
