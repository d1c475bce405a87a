package gutter

import "iter"

// VisibleRange returns the first and last line intersecting the viewport.
// ok is false when nothing can be drawn: no lines, no view area, or a scroll
// offset that leaves the viewport entirely above the content.
func VisibleRange(s Snapshot) (first, last int, ok bool) {
	if s.LineCount() == 0 || s.ViewWidth <= 0 || s.ViewHeight <= 0 {
		return 0, 0, false
	}
	visible := s.VisibleHeight()
	if s.ScrollY+visible < 0 {
		return 0, 0, false
	}
	first = s.LineForVertical(s.ScrollY)
	last = s.LineForVertical(s.ScrollY + visible)
	if last < first {
		last = first
	}
	return first, last, true
}

// VisibleLines yields (line index, baseline y) for every visible line. The
// first y is anchored on the host's own first baseline; each following y adds
// the baseline delta between consecutive lines.
func VisibleLines(s Snapshot) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		first, last, ok := VisibleRange(s)
		if !ok {
			return
		}
		y := s.HostBaseline + (s.Lines[first].Baseline - s.Lines[0].Baseline)
		if !yield(first, y) {
			return
		}
		for i := first + 1; i <= last; i++ {
			y += s.Lines[i].Baseline - s.Lines[i-1].Baseline
			if !yield(i, y) {
				return
			}
		}
	}
}
