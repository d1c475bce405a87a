package gutter

import (
	"math"

	"github.com/ByLCY/linenum/layout"
)

// ReserveMargin returns the margin width for lineCount lines: the measured
// width of the last line's label, truncated to whole pixels. With upperBound
// set it measures every visible label instead and keeps the widest, for
// providers whose label length does not grow with the line number.
// No lines reserve no margin.
func ReserveMargin(m Measurer, style Style, p LabelProvider, side Side, lineCount int, upperBound bool) int {
	if lineCount <= 0 {
		return 0
	}
	onLeft := side == SideLeft
	if !upperBound {
		return pixels(m.MeasureText(style, p.LabelText(onLeft, lineCount)))
	}
	widest := 0
	for line := 1; line <= lineCount; line++ {
		if !p.LabelVisible(line) {
			continue
		}
		widest = max(widest, pixels(m.MeasureText(style, p.LabelText(onLeft, line))))
	}
	return widest
}

func pixels(w float64) int {
	if w <= 0 || math.IsNaN(w) {
		return 0
	}
	return int(w)
}

// Effective returns the padding the host should apply: the user padding with
// the reserved margin added on side.
func (r Reservation) Effective(side Side, top, bottom int) layout.Padding {
	p := layout.Padding{Left: r.UserLeft, Top: top, Right: r.UserRight, Bottom: bottom}
	if side == SideLeft {
		p.Left += r.Reserved
	} else {
		p.Right += r.Reserved
	}
	return p
}
