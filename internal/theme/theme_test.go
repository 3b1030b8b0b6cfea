package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/inkpad/inkcore/internal/core"
)

func TestParseFullDocument(t *testing.T) {
	data := []byte(`{
		"name": "dusk",
		"background": "#1E1E2E",
		"foreground": "#CDD6F4",
		"caret": "#F5E0DC",
		"selection": "#45475A",
		"inactiveSelection": "#313244",
		"lineHighlight": "#262637",
		"compositionUnderline": "#89B4FA"
	}`)

	th, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if th.Name != "dusk" {
		t.Errorf("name = %q", th.Name)
	}
	if !th.Background.Equals(core.ColorFromRGB(0x1E, 0x1E, 0x2E)) {
		t.Errorf("background = %v", th.Background)
	}
	if !th.InactiveSelection.Equals(core.ColorFromRGB(0x31, 0x32, 0x44)) {
		t.Errorf("inactiveSelection = %v, explicit value should win over derivation", th.InactiveSelection)
	}
}

func TestParseMinimalDocumentDerives(t *testing.T) {
	th, err := Parse([]byte(`{"background": "#000000", "foreground": "#FFFFFF", "selection": "#3366CC"}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !th.Caret.Equals(th.Foreground) {
		t.Errorf("caret = %v, want foreground fallback", th.Caret)
	}
	if th.InactiveSelection.Equals(th.Selection) || th.InactiveSelection.IsDefault() {
		t.Errorf("inactiveSelection = %v, want a faded derivation", th.InactiveSelection)
	}
	if th.LineHighlight.Equals(th.Background) {
		t.Errorf("lineHighlight = %v, want a tinted derivation", th.LineHighlight)
	}
	if !th.CompositionUnderline.Equals(th.Foreground) {
		t.Errorf("compositionUnderline = %v, want foreground fallback", th.CompositionUnderline)
	}
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(`{"background": "#fff", "syntax": {"keyword": "#ff0000"}}`))
	if err != nil {
		t.Errorf("Parse() error = %v, unknown keys should be ignored", err)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"background":`},
		{"bad color", `{"background": "#GGHHII"}`},
		{"bad color length", `{"foreground": "#12345"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalidTheme) {
				t.Errorf("Parse() error = %v, want ErrInvalidTheme", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.json")
	if err := os.WriteFile(path, []byte(`{"name": "disk", "background": "#222222"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	th, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if th.Name != "disk" {
		t.Errorf("name = %q", th.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Load() of a missing theme should fail")
	}
}

func TestSelectionStyle(t *testing.T) {
	th := Default()

	active := th.SelectionStyle(true)
	inactive := th.SelectionStyle(false)

	if !active.Background.Equals(th.Selection) {
		t.Errorf("active background = %v", active.Background)
	}
	if !inactive.Background.Equals(th.InactiveSelection) {
		t.Errorf("inactive background = %v", inactive.Background)
	}
	if active.Background.Equals(inactive.Background) {
		t.Error("focused and unfocused selections should differ")
	}
}

func TestCompositionStyle(t *testing.T) {
	s := Default().CompositionStyle()
	if !s.Attributes.Has(core.AttrUnderline) {
		t.Error("composition style should underline")
	}
}
