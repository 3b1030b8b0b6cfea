package shape

import "github.com/rivo/uniseg"

// CellShaper measures text in fixed-width cells: every character
// advances by its monospace column width times the cell width. Wide
// (CJK, emoji) characters take two cells. Terminal hosts use it with
// cell size 1×1; tests use it for deterministic geometry.
type CellShaper struct {
	cellWidth  float64
	cellHeight float64
	tabWidth   int
}

// NewCellShaper creates a fixed-advance shaper with the given cell size.
func NewCellShaper(cellWidth, cellHeight float64) *CellShaper {
	if cellWidth <= 0 {
		cellWidth = 1
	}
	if cellHeight <= 0 {
		cellHeight = 1
	}
	return &CellShaper{cellWidth: cellWidth, cellHeight: cellHeight, tabWidth: 4}
}

// SetTabWidth sets the tab advance in cells.
func (s *CellShaper) SetTabWidth(cells int) {
	if cells < 1 {
		cells = 1
	}
	s.tabWidth = cells
}

// Metrics implements Shaper. The whole cell height is ascent; terminal
// rows have no separate descent or leading.
func (s *CellShaper) Metrics() Metrics {
	return Metrics{Ascent: s.cellHeight}
}

// ShapeRun implements Shaper.
func (s *CellShaper) ShapeRun(text string) (Run, error) {
	var run Run
	for _, r := range text {
		var adv float64
		switch {
		case r == '\t':
			adv = float64(s.tabWidth) * s.cellWidth
		default:
			adv = float64(uniseg.StringWidth(string(r))) * s.cellWidth
		}

		run.Advances = append(run.Advances, adv)
		if r >= 0x10000 {
			run.Advances = append(run.Advances, 0)
		}
		run.Width += adv
	}
	return run, nil
}

// NextBreak implements Shaper.
func (s *CellShaper) NextBreak(text string, maxWidth float64) int {
	run, _ := s.ShapeRun(text)
	return nextBreakIn(run, text, maxWidth)
}
