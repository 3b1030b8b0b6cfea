package shape

import (
	"testing"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

func TestFaceShaperAdvances(t *testing.T) {
	s := NewFaceShaper(basicfont.Face7x13)

	run, err := s.ShapeRun("abc")
	if err != nil {
		t.Fatalf("ShapeRun: %v", err)
	}
	if run.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", run.Len())
	}
	// Face7x13 is monospaced at 7 pixels per glyph.
	for i, adv := range run.Advances {
		if adv != 7 {
			t.Errorf("advance[%d] = %v, want 7", i, adv)
		}
	}
	if run.Width != 21 {
		t.Errorf("Width = %v, want 21", run.Width)
	}
}

func TestFaceShaperMetrics(t *testing.T) {
	s := NewFaceShaper(basicfont.Face7x13)

	m := s.Metrics()
	if m.Ascent != 11 {
		t.Errorf("Ascent = %v, want 11", m.Ascent)
	}
	if m.Descent != 2 {
		t.Errorf("Descent = %v, want 2", m.Descent)
	}
	if m.Height() <= 0 {
		t.Errorf("Height() = %v, want > 0", m.Height())
	}
}

func TestFaceShaperTab(t *testing.T) {
	s := NewFaceShaper(basicfont.Face7x13)
	s.SetTabWidth(4)

	run, err := s.ShapeRun("\t")
	if err != nil {
		t.Fatalf("ShapeRun: %v", err)
	}
	if run.Width != 28 {
		t.Errorf("tab width = %v, want 28 (4 spaces at 7px)", run.Width)
	}
}

func TestFaceShaperSurrogatePair(t *testing.T) {
	s := NewFaceShaper(basicfont.Face7x13)

	run, err := s.ShapeRun("\U0001F600")
	if err != nil {
		t.Fatalf("ShapeRun: %v", err)
	}
	if run.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 units", run.Len())
	}
	if run.Advances[1] != 0 {
		t.Errorf("trailing surrogate advance = %v, want 0", run.Advances[1])
	}
}

func TestFaceShaperNextBreak(t *testing.T) {
	s := NewFaceShaper(basicfont.Face7x13)

	// "hello world" is 77 pixels. At 56 the break should fall after
	// "hello " (offset 6), not mid-"world".
	if got := s.NextBreak("hello world", 56); got != 6 {
		t.Errorf("NextBreak = %d, want 6", got)
	}
	if got := s.NextBreak("hello", 200); got != 5 {
		t.Errorf("NextBreak whole text = %d, want 5", got)
	}
}

func TestLoadFaceShaper(t *testing.T) {
	s, err := LoadFaceShaper(goregular.TTF, 12, 72)
	if err != nil {
		t.Fatalf("LoadFaceShaper: %v", err)
	}

	run, err := s.ShapeRun("hello")
	if err != nil {
		t.Fatalf("ShapeRun: %v", err)
	}
	if run.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", run.Len())
	}
	if run.Width <= 0 {
		t.Errorf("Width = %v, want > 0", run.Width)
	}
	if s.Metrics().Height() <= 0 {
		t.Errorf("Metrics().Height() = %v, want > 0", s.Metrics().Height())
	}
}

func TestLoadFaceShaperBadData(t *testing.T) {
	if _, err := LoadFaceShaper([]byte("not a font"), 12, 72); err == nil {
		t.Error("garbage font data should fail to parse")
	}
}
