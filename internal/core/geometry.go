package core

// Point is a position in the editor's content coordinate space.
// The origin is the top-left corner of the content area, before insets
// are applied. Units match whatever the active shaper produces (pixels
// for a font face, cells for the terminal shaper).
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in content coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.MaxX() && other.X < r.MaxX() &&
		r.Y < other.MaxY() && other.Y < r.MaxY()
}

// Insets describes padding around the content area.
type Insets struct {
	Top, Left, Bottom, Right float64
}

// Vertical returns the combined top and bottom insets.
func (i Insets) Vertical() float64 { return i.Top + i.Bottom }

// Horizontal returns the combined left and right insets.
func (i Insets) Horizontal() float64 { return i.Left + i.Right }
