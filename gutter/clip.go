package gutter

import "math"

// Clip returns the rectangle labels may draw into, in scrolled view
// coordinates. The horizontal bounds ignore padding because labels live in
// the reserved margin. The top padding is only trimmed once scrolled, and the
// bottom padding is kept when scrolled to the end so the last label survives.
// A shadow widens every side by its overhang.
func Clip(s Snapshot) Rect {
	r := Rect{
		Left:   float64(s.ScrollX),
		Right:  float64(s.ViewWidth + s.ScrollX),
		Bottom: float64(s.ViewHeight + s.ScrollY),
	}
	if s.ScrollY != 0 {
		r.Top = float64(s.ExtendedPaddingTop + s.ScrollY)
	}
	if s.ScrollY != s.MaxScrollY() {
		r.Bottom -= float64(s.ExtendedPaddingBottom)
	}

	if sh := s.Shadow; sh.Radius != 0 {
		r.Left += math.Min(0, sh.Dx-sh.Radius)
		r.Right += math.Max(0, sh.Dx+sh.Radius)
		r.Top += math.Min(0, sh.Dy-sh.Radius)
		r.Bottom += math.Max(0, sh.Dy+sh.Radius)
	}
	return r
}
