package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Common errors returned by config operations.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Settings is the root configuration document.
type Settings struct {
	Editor EditorSettings `toml:"editor"`
	Caret  CaretSettings  `toml:"caret"`
	Theme  ThemeSettings  `toml:"theme"`
}

// EditorSettings controls text layout and editing behavior.
type EditorSettings struct {
	// Wrap enables soft wrapping at WrapWidth.
	Wrap bool `toml:"wrap"`

	// WrapWidth is the wrap limit in layout units. Ignored unless
	// Wrap is set; 0 means wrap to the viewport.
	WrapWidth float64 `toml:"wrap_width"`

	// LineHeightScale multiplies the font's natural line height.
	LineHeightScale float64 `toml:"line_height_scale"`

	// TabWidth is the tab stop in cells for monospace rendering.
	TabWidth int `toml:"tab_width"`

	// Padding is the inset around the text content, in layout units.
	Padding float64 `toml:"padding"`
}

// CaretSettings controls cursor presentation timing.
type CaretSettings struct {
	// BlinkIntervalMs is the blink phase length in milliseconds.
	// 0 disables blinking; the caret stays solid.
	BlinkIntervalMs int `toml:"blink_interval_ms"`

	// ScrollDebounceMs coalesces scroll-to-caret work during bursts
	// of keystrokes.
	ScrollDebounceMs int `toml:"scroll_debounce_ms"`
}

// ThemeSettings points at the JSON theme document.
type ThemeSettings struct {
	Path string `toml:"path"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Editor: EditorSettings{
			Wrap:            false,
			WrapWidth:       0,
			LineHeightScale: 1.2,
			TabWidth:        4,
			Padding:         4,
		},
		Caret: CaretSettings{
			BlinkIntervalMs:  500,
			ScrollDebounceMs: 50,
		},
	}
}

// Load reads settings from path. A missing file returns defaults;
// a file that exists but does not parse or validate is an error.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("read config %s: %w", path, err)
	}

	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Validate rejects values the layout and caret machinery cannot accept.
func (s *Settings) Validate() error {
	if s.Editor.LineHeightScale <= 0 {
		return fmt.Errorf("%w: editor.line_height_scale must be positive, got %g",
			ErrInvalidConfig, s.Editor.LineHeightScale)
	}
	if s.Editor.WrapWidth < 0 {
		return fmt.Errorf("%w: editor.wrap_width must not be negative, got %g",
			ErrInvalidConfig, s.Editor.WrapWidth)
	}
	if s.Editor.TabWidth < 1 {
		return fmt.Errorf("%w: editor.tab_width must be at least 1, got %d",
			ErrInvalidConfig, s.Editor.TabWidth)
	}
	if s.Editor.Padding < 0 {
		return fmt.Errorf("%w: editor.padding must not be negative, got %g",
			ErrInvalidConfig, s.Editor.Padding)
	}
	if s.Caret.BlinkIntervalMs < 0 {
		return fmt.Errorf("%w: caret.blink_interval_ms must not be negative, got %d",
			ErrInvalidConfig, s.Caret.BlinkIntervalMs)
	}
	if s.Caret.ScrollDebounceMs < 0 {
		return fmt.Errorf("%w: caret.scroll_debounce_ms must not be negative, got %d",
			ErrInvalidConfig, s.Caret.ScrollDebounceMs)
	}
	return nil
}
