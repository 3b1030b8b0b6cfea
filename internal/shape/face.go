package shape

import (
	"errors"
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrNoFace is returned when shaping is attempted without a usable face.
var ErrNoFace = errors.New("shape: no font face")

// FaceShaper measures text against a real font face. Advances come from
// the face's glyph metrics with kerning applied between adjacent glyphs.
//
// A malformed face never takes editing down: glyphs the face cannot
// resolve measure as zero-width, and a nil face fails ShapeRun with
// ErrNoFace, which the layout engine degrades to an empty line.
type FaceShaper struct {
	face     font.Face
	metrics  Metrics
	tabWidth int
	spaceAdv float64
}

// NewFaceShaper wraps an existing font face.
func NewFaceShaper(face font.Face) *FaceShaper {
	s := &FaceShaper{face: face, tabWidth: 4}
	if face == nil {
		return s
	}

	m := face.Metrics()
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	leading := fixedToFloat(m.Height) - ascent - descent
	if leading < 0 {
		leading = 0
	}
	s.metrics = Metrics{Ascent: ascent, Descent: descent, Leading: leading}

	if adv, ok := face.GlyphAdvance(' '); ok {
		s.spaceAdv = fixedToFloat(adv)
	}
	return s
}

// LoadFaceShaper parses TrueType font data and builds a shaper at the
// given point size and DPI.
func LoadFaceShaper(ttf []byte, size, dpi float64) (*FaceShaper, error) {
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("shape: parsing font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{
		Size: size,
		DPI:  dpi,
	})
	return NewFaceShaper(face), nil
}

// SetTabWidth sets the tab advance in space-widths.
func (s *FaceShaper) SetTabWidth(spaces int) {
	if spaces < 1 {
		spaces = 1
	}
	s.tabWidth = spaces
}

// Metrics implements Shaper.
func (s *FaceShaper) Metrics() Metrics {
	return s.metrics
}

// ShapeRun implements Shaper.
func (s *FaceShaper) ShapeRun(text string) (Run, error) {
	if s.face == nil {
		return Run{}, ErrNoFace
	}

	var run Run
	prev := rune(-1)
	for _, r := range text {
		var adv float64
		switch {
		case r == '\t':
			adv = float64(s.tabWidth) * s.spaceAdv
		default:
			a, ok := s.face.GlyphAdvance(r)
			if !ok {
				// Missing glyph: measure as the replacement character,
				// zero-width if even that is absent.
				if a, ok = s.face.GlyphAdvance('�'); !ok {
					a = 0
				}
			}
			adv = fixedToFloat(a)
			if prev >= 0 {
				adv += fixedToFloat(s.face.Kern(prev, r))
			}
		}

		run.Advances = append(run.Advances, adv)
		if r >= 0x10000 {
			// Trailing surrogate unit carries no advance.
			run.Advances = append(run.Advances, 0)
		}
		run.Width += adv
		prev = r
	}
	return run, nil
}

// NextBreak implements Shaper.
func (s *FaceShaper) NextBreak(text string, maxWidth float64) int {
	run, err := s.ShapeRun(text)
	if err != nil {
		return utf16Len(text)
	}
	return nextBreakIn(run, text, maxWidth)
}

// fixedToFloat converts a 26.6 fixed-point value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
