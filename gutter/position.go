package gutter

// Reservation is the padding bookkeeping of an Engine: the host's own padding
// on each side and the margin reserved for labels.
type Reservation struct {
	UserLeft  int `json:"userLeft"`
	UserRight int `json:"userRight"`
	Reserved  int `json:"reserved"`
}

// LeftColumn is the x of left-side labels outside hug mode.
func LeftColumn(s Snapshot) int { return s.PaddingOffsetLeft }

// RightColumn is the x of right-side labels outside hug mode.
func RightColumn(res Reservation, s Snapshot) int {
	return s.ViewWidth + s.PaddingOffsetRight - res.Reserved
}

// PositionX returns the x of the label for line (0-based).
//
// In hug mode a left label moves right to sit before the line's text start,
// and a right label moves left to sit after its text end; neither crosses its
// fixed column.
func PositionX(line int, cfg Config, res Reservation, s Snapshot) int {
	m := s.Lines[line]
	if cfg.Side == SideLeft {
		col := LeftColumn(s)
		if cfg.Hug {
			return max(col, int(m.Left)-res.UserLeft)
		}
		return col
	}
	col := RightColumn(res, s)
	if cfg.Hug {
		return min(col, int(m.Right)+s.CompoundPaddingLeft+res.UserRight)
	}
	return col
}
