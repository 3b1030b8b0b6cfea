package layout

import (
	"testing"

	"github.com/inkpad/inkcore/internal/core"
	"github.com/inkpad/inkcore/internal/shape"
	"github.com/inkpad/inkcore/internal/textbuf"
)

func shapedLine(t *testing.T, text string, start int) *Line {
	t.Helper()
	s := shape.NewCellShaper(1, 1)
	run, err := s.ShapeRun(text)
	if err != nil {
		t.Fatalf("ShapeRun: %v", err)
	}
	r := textbuf.Range{Start: start, Length: run.Len()}
	return newLine(0, r, text, run, s.Metrics(), 1, core.Point{})
}

func TestXOffsetBounds(t *testing.T) {
	ln := shapedLine(t, "hello", 10) // covers [10,15)

	tests := []struct {
		offset int
		wantX  float64
		wantOK bool
	}{
		{10, 0, true},
		{12, 2, true},
		{15, 5, true}, // end-of-line caret is valid
		{9, 0, false},
		{16, 0, false},
	}
	for _, tt := range tests {
		x, ok := ln.XOffset(tt.offset)
		if ok != tt.wantOK || (ok && x != tt.wantX) {
			t.Errorf("XOffset(%d) = (%v, %v), want (%v, %v)", tt.offset, x, ok, tt.wantX, tt.wantOK)
		}
	}
}

func TestPositionForXClamps(t *testing.T) {
	ln := shapedLine(t, "abc", 0)

	if got := ln.PositionForX(-5); got != 0 {
		t.Errorf("negative x = %d, want 0", got)
	}
	if got := ln.PositionForX(100); got != 3 {
		t.Errorf("x past end = %d, want 3", got)
	}
}

func TestPositionForXNearestBoundary(t *testing.T) {
	ln := shapedLine(t, "abc", 0)

	tests := []struct {
		x    float64
		want int
	}{
		{0.4, 0},
		{0.6, 1},
		{1.5, 2}, // tie rounds up
		{2.9, 3},
	}
	for _, tt := range tests {
		if got := ln.PositionForX(tt.x); got != tt.want {
			t.Errorf("PositionForX(%v) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestPositionForXNeverSplitsSurrogatePair(t *testing.T) {
	// Emoji is 2 cells wide and 2 code units; the boundary between its
	// units must never be returned.
	ln := shapedLine(t, "\U0001F600x", 0)

	for x := 0.0; x <= 3.0; x += 0.25 {
		got := ln.PositionForX(x)
		if got == 1 {
			t.Fatalf("PositionForX(%v) landed inside the surrogate pair", x)
		}
	}
}

func TestSelectionRectDisjoint(t *testing.T) {
	ln := shapedLine(t, "hello", 10)

	if _, ok := ln.SelectionRect(textbuf.Range{Start: 0, Length: 5}); ok {
		t.Error("disjoint range should produce no rect")
	}
}

func TestSelectionRectPartialOverlap(t *testing.T) {
	ln := shapedLine(t, "hello", 10)

	rect, ok := ln.SelectionRect(textbuf.Range{Start: 12, Length: 20})
	if !ok {
		t.Fatal("overlapping range should produce a rect")
	}
	if rect.X != 2 || rect.Width != 3 {
		t.Errorf("rect = %+v, want x=2 width=3", rect)
	}
	if rect.Height != 1 {
		t.Errorf("rect height = %v, want full line height", rect.Height)
	}
}

func TestSelectionRectCaretAtLineEnd(t *testing.T) {
	ln := shapedLine(t, "hi", 0)

	rect, ok := ln.SelectionRect(textbuf.Caret(2))
	if !ok {
		t.Fatal("caret at line end should have geometry")
	}
	if rect.X != 2 || rect.Width != 0 {
		t.Errorf("caret rect = %+v, want x=2 width=0", rect)
	}
}
