package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tidwall/gjson"

	"github.com/inkpad/inkcore/internal/core"
)

// ErrInvalidTheme marks theme documents that cannot be used.
var ErrInvalidTheme = errors.New("invalid theme")

// Theme holds the editor's resolved color set. Colors absent from the
// source document are derived from the ones that are present, so a
// minimal theme with just background and foreground still renders
// sensibly.
type Theme struct {
	Name string

	Background core.Color
	Foreground core.Color

	Caret     core.Color
	Selection core.Color

	// InactiveSelection is used when the view loses focus. Derived by
	// fading Selection toward Background unless the theme sets it.
	InactiveSelection core.Color

	// LineHighlight tints the caret's line. Derived from Background
	// unless the theme sets it.
	LineHighlight core.Color

	// CompositionUnderline marks provisional input-method text.
	CompositionUnderline core.Color
}

// Default returns a plain light theme.
func Default() Theme {
	t := Theme{
		Name:       "default",
		Background: core.ColorFromRGB(0xFF, 0xFF, 0xFF),
		Foreground: core.ColorFromRGB(0x20, 0x20, 0x20),
		Caret:      core.ColorFromRGB(0x20, 0x20, 0x20),
		Selection:  core.ColorFromRGB(0xB3, 0xD7, 0xFF),
	}
	t.deriveMissing(false, false, false)
	return t
}

// Load reads a JSON theme document from path. Recognized keys:
//
//	name, background, foreground, caret, selection,
//	inactiveSelection, lineHighlight, compositionUnderline
//
// all colors in "#RRGGBB" or "#RGB" form. Unknown keys are ignored so
// themes can carry syntax palettes for other tools.
func Load(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return Theme{}, fmt.Errorf("theme %s: %w", path, err)
	}
	return t, nil
}

// Parse builds a Theme from a JSON document.
func Parse(data []byte) (Theme, error) {
	if !gjson.ValidBytes(data) {
		return Theme{}, fmt.Errorf("%w: not valid JSON", ErrInvalidTheme)
	}
	doc := gjson.ParseBytes(data)

	t := Default()
	if name := doc.Get("name"); name.Exists() {
		t.Name = name.String()
	}

	var err error
	assign := func(key string, dst *core.Color) bool {
		v := doc.Get(key)
		if !v.Exists() {
			return false
		}
		if err != nil {
			return false
		}
		var c core.Color
		if c, err = core.ColorFromHex(v.String()); err != nil {
			err = fmt.Errorf("%w: %s: %v", ErrInvalidTheme, key, err)
			return false
		}
		*dst = c
		return true
	}

	assign("background", &t.Background)
	assign("foreground", &t.Foreground)
	if !assign("caret", &t.Caret) {
		t.Caret = t.Foreground
	}
	assign("selection", &t.Selection)
	hasInactive := assign("inactiveSelection", &t.InactiveSelection)
	hasHighlight := assign("lineHighlight", &t.LineHighlight)
	hasUnderline := assign("compositionUnderline", &t.CompositionUnderline)
	if err != nil {
		return Theme{}, err
	}

	t.deriveMissing(hasInactive, hasHighlight, hasUnderline)
	return t, nil
}

// deriveMissing fills colors the document did not set from the ones it
// did.
func (t *Theme) deriveMissing(hasInactive, hasHighlight, hasUnderline bool) {
	if !hasInactive {
		t.InactiveSelection = blend(t.Selection, t.Background, 0.5)
	}
	if !hasHighlight {
		t.LineHighlight = blend(t.Foreground, t.Background, 0.94)
	}
	if !hasUnderline {
		t.CompositionUnderline = t.Foreground
	}
}

// SelectionStyle returns the style for selected text. focused selects
// between the active and inactive selection colors.
func (t Theme) SelectionStyle(focused bool) core.Style {
	bg := t.Selection
	if !focused {
		bg = t.InactiveSelection
	}
	return core.DefaultStyle().WithBackground(bg)
}

// CompositionStyle returns the style overlaid on marked text during an
// input-method composition.
func (t Theme) CompositionStyle() core.Style {
	s := core.DefaultStyle()
	s.Attributes = core.AttrUnderline
	s.Foreground = t.CompositionUnderline
	return s
}

// blend mixes a toward b in Lab space, which keeps midpoints
// perceptually even where naive RGB blending muddies them.
func blend(a, b core.Color, frac float64) core.Color {
	ca := toColorful(a)
	cb := toColorful(b)
	return fromColorful(ca.BlendLab(cb, frac).Clamped())
}

func toColorful(c core.Color) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(c colorful.Color) core.Color {
	r, g, b := c.RGB255()
	return core.ColorFromRGB(r, g, b)
}
