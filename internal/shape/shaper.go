package shape

// Metrics holds the typographic metrics of a shaped run, in the
// shaper's output units (pixels for font faces, cells for terminals).
type Metrics struct {
	Ascent  float64
	Descent float64
	Leading float64
}

// Height returns ascent + descent + leading, the unscaled line height.
func (m Metrics) Height() float64 {
	return m.Ascent + m.Descent + m.Leading
}

// Run is the result of shaping one run of text: an advance per UTF-16
// code unit. The trailing unit of a surrogate pair has advance 0; the
// pair's full advance sits on the leading unit.
type Run struct {
	Advances []float64
	Width    float64
}

// Len returns the run length in code units.
func (r Run) Len() int {
	return len(r.Advances)
}

// Shaper converts text into positioned-advance runs and decides line
// break points. Implementations must be deterministic: shaping the same
// text twice yields the same run.
type Shaper interface {
	// ShapeRun measures the given text. Text never contains line
	// terminators; the layout engine shapes line content only.
	ShapeRun(text string) (Run, error)

	// Metrics returns the face metrics used for line heights.
	Metrics() Metrics

	// NextBreak returns the number of leading code units of text that
	// fit in maxWidth, preferring word-boundary break candidates.
	// It always returns at least 1 for non-empty text so layout makes
	// progress, and len(text in units) when everything fits.
	NextBreak(text string, maxWidth float64) int
}

// nextBreakIn chooses a break point for an already-shaped run:
// the last UAX#14 candidate that still fits, else a hard character
// break, always at least one unit of progress.
func nextBreakIn(run Run, text string, maxWidth float64) int {
	n := run.Len()
	if n == 0 {
		return 0
	}
	if run.Width <= maxWidth {
		return n
	}

	// Cumulative x at each unit boundary.
	x := make([]float64, n+1)
	for i, adv := range run.Advances {
		x[i+1] = x[i] + adv
	}

	best := 0
	for _, c := range BreakCandidates(text) {
		if c >= n {
			break
		}
		if x[c] <= maxWidth && c > best {
			best = c
		}
	}
	if best > 0 {
		return best
	}

	// No word boundary fits: hard break at the last unit that does.
	i := 1
	for i < n && x[i+1] <= maxWidth {
		i++
	}
	// Never split a surrogate pair.
	if i < n && isLowSurrogate(text, i) {
		i++
	}
	return i
}

// isLowSurrogate reports whether the unit at offset is the trailing
// half of a surrogate pair.
func isLowSurrogate(text string, offset int) bool {
	units := unitsOf(text)
	if offset < 0 || offset >= len(units) {
		return false
	}
	return units[offset] >= 0xDC00 && units[offset] < 0xE000
}
