package gutter

import "math"

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Intersect returns the overlap of r and o; the result may be Empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		Left:   math.Max(r.Left, o.Left),
		Top:    math.Max(r.Top, o.Top),
		Right:  math.Min(r.Right, o.Right),
		Bottom: math.Min(r.Bottom, o.Bottom),
	}
}

// Contains reports whether (x, y) lies inside r (right and bottom exclusive).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Canvas is the drawing surface handed to OnRedraw. Coordinates are in the
// host's scrolled view space; y passed to DrawText is the text baseline.
// ClipRect intersects with the current clip; Save/Restore nest clip and
// translation.
type Canvas interface {
	Save()
	Restore()
	Translate(dx, dy float64)
	ClipRect(r Rect)
	DrawText(text string, x, y float64, style Style)
}

// Measurer returns the rendered width in pixels of text drawn with style.
type Measurer interface {
	MeasureText(style Style, text string) float64
}
