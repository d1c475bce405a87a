package gutter

import "sort"

// LineMetrics is the layout of one line. Top, Bottom and Baseline are in
// layout coordinates (0 at the top of the first line); Left and Right are the
// horizontal text extents relative to the content area's left edge.
type LineMetrics struct {
	Top      int     `json:"top"`
	Bottom   int     `json:"bottom"`
	Baseline int     `json:"baseline"`
	Left     float64 `json:"left"`
	Right    float64 `json:"right"`
}

// Shadow is the host text's drop shadow; Radius 0 means no shadow.
type Shadow struct {
	Radius float64 `json:"radius"`
	Dx     float64 `json:"dx"`
	Dy     float64 `json:"dy"`
}

// Snapshot is the host layout as seen by one redraw.
//
// HostBaseline is the baseline of the first line in view coordinates.
// PaddingOffsetLeft is a non-negative inset where left labels start;
// PaddingOffsetRight is a non-positive inset from the right view edge.
type Snapshot struct {
	Lines        []LineMetrics `json:"lines"`
	LayoutHeight int           `json:"layoutHeight"`
	HostBaseline int           `json:"hostBaseline"`

	ScrollX    int `json:"scrollX"`
	ScrollY    int `json:"scrollY"`
	ViewWidth  int `json:"viewWidth"`
	ViewHeight int `json:"viewHeight"`

	ExtendedPaddingTop    int `json:"extendedPaddingTop"`
	ExtendedPaddingBottom int `json:"extendedPaddingBottom"`
	CompoundPaddingLeft   int `json:"compoundPaddingLeft"`
	CompoundPaddingTop    int `json:"compoundPaddingTop"`
	CompoundPaddingBottom int `json:"compoundPaddingBottom"`

	PaddingOffsetLeft  int `json:"paddingOffsetLeft"`
	PaddingOffsetRight int `json:"paddingOffsetRight"`

	Shadow Shadow `json:"shadow"`
}

// LineCount returns the number of laid out lines.
func (s Snapshot) LineCount() int { return len(s.Lines) }

// LineForVertical returns the line whose [Top, Bottom) span contains y,
// clamped to the first and last line. It returns 0 when there are no lines.
func (s Snapshot) LineForVertical(y int) int {
	n := len(s.Lines)
	if n == 0 {
		return 0
	}
	i := sort.Search(n, func(i int) bool { return s.Lines[i].Bottom > y })
	if i >= n {
		return n - 1
	}
	return i
}

// MaxScrollY is the scroll offset at which the clip stops trimming the bottom
// padding.
func (s Snapshot) MaxScrollY() int {
	return s.LayoutHeight - s.ViewHeight - s.CompoundPaddingTop - s.CompoundPaddingBottom
}

// VisibleHeight is the view height minus the extended vertical padding.
func (s Snapshot) VisibleHeight() int {
	return s.ViewHeight - s.ExtendedPaddingTop - s.ExtendedPaddingBottom
}
