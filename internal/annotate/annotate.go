package annotate

import (
	"github.com/inkpad/inkcore/internal/core"
)

// Annotator computes style spans for a document snapshot. Span offsets
// are UTF-16 code units, matching buffer addressing. Implementations
// must not retain text across calls.
type Annotator interface {
	Annotate(text string) ([]core.StyleSpan, error)
}

// Func adapts a plain function to the Annotator interface.
type Func func(text string) ([]core.StyleSpan, error)

// Annotate calls f.
func (f Func) Annotate(text string) ([]core.StyleSpan, error) {
	return f(text)
}

// sanitize drops spans that fall outside the document and clips ones
// that straddle its end. Annotators are not trusted to clamp.
func sanitize(spans []core.StyleSpan, text string) []core.StyleSpan {
	limit := utf16Length(text)
	out := spans[:0]
	for _, s := range spans {
		if s.Length <= 0 || s.Start < 0 || s.Start >= limit {
			continue
		}
		if s.End() > limit {
			s.Length = limit - s.Start
		}
		out = append(out, s)
	}
	return out
}

// utf16Length returns the string's length in UTF-16 code units.
func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
