package gutter

import "github.com/ByLCY/linenum/layout"

// Side selects which side of the text the margin is reserved on.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// ParseSide accepts "left" or "right".
func ParseSide(v string) (Side, bool) {
	switch v {
	case "left", "start":
		return SideLeft, true
	case "right", "end":
		return SideRight, true
	}
	return SideLeft, false
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideRight {
		return SideLeft
	}
	return SideRight
}

// Config is the label layout: which side the margin is on, and whether labels
// hug the text edge of each line instead of sitting in a fixed column.
type Config struct {
	Side Side `json:"side"`
	Hug  bool `json:"hug"`
}

// Style is the paint used for labels. Typeface names a font known to the
// host's Measurer; Size is in pixels.
type Style struct {
	Color    layout.Color `json:"color"`
	Typeface string       `json:"typeface"`
	Size     float64      `json:"size"`
}
