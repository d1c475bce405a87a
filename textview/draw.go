package textview

import (
	"math"

	"github.com/ByLCY/linenum/gutter"
	"github.com/ByLCY/linenum/layout"
)

// Scroll returns the scroll offsets.
func (tv *TextView) Scroll() (x, y int) { return tv.scrollX, tv.scrollY }

// MaxScroll returns the largest scroll offsets that still show content.
func (tv *TextView) MaxScroll() (x, y int) {
	if tv.ensureLayout() != nil {
		return 0, 0
	}
	widest := 0.0
	for _, ln := range tv.lines {
		widest = math.Max(widest, ln.Width)
	}
	x = max(0, int(math.Ceil(widest-tv.contentWidth)))
	y = max(0, tv.layoutHeight+tv.effective.Vertical()-tv.height)
	return x, y
}

func (tv *TextView) clampScroll(x, y int) (int, int) {
	mx, my := tv.MaxScroll()
	return min(max(x, 0), mx), min(max(y, 0), my)
}

// ScrollTo moves to (x, y), clamped to the scroll range.
func (tv *TextView) ScrollTo(x, y int) {
	x, y = tv.clampScroll(x, y)
	if x == tv.scrollX && y == tv.scrollY {
		return
	}
	tv.scrollX, tv.scrollY = x, y
	tv.Invalidate()
}

// ScrollBy moves by (dx, dy), clamped to the scroll range.
func (tv *TextView) ScrollBy(dx, dy int) { tv.ScrollTo(tv.scrollX+dx, tv.scrollY+dy) }

// Snapshot returns the layout as the gutter sees it. Coordinates include the
// scroll offsets; line tops and bottoms are in layout space.
func (tv *TextView) Snapshot() gutter.Snapshot {
	_ = tv.ensureLayout()
	eff := tv.effective
	s := gutter.Snapshot{
		Lines:                 tv.metrics,
		LayoutHeight:          tv.layoutHeight,
		ScrollX:               tv.scrollX,
		ScrollY:               tv.scrollY,
		ViewWidth:             tv.width,
		ViewHeight:            tv.height,
		ExtendedPaddingTop:    eff.Top,
		ExtendedPaddingBottom: eff.Bottom,
		CompoundPaddingLeft:   eff.Left,
		CompoundPaddingTop:    eff.Top,
		CompoundPaddingBottom: eff.Bottom,
		Shadow:                tv.shadow,
	}
	if len(tv.metrics) > 0 {
		s.HostBaseline = eff.Top + tv.metrics[0].Baseline
	}
	if r := tv.shadow.Radius; r != 0 {
		s.PaddingOffsetLeft = int(math.Max(0, r-tv.shadow.Dx))
		s.PaddingOffsetRight = -int(math.Max(0, tv.shadow.Dx+r))
	}
	return s
}

// Draw paints the text inside the content area and then the labels. Posted
// work runs first so a pending margin change is in place before painting.
func (tv *TextView) Draw(c gutter.Canvas) error {
	tv.RunPosted()
	if err := tv.ensureLayout(); err != nil {
		return err
	}
	snap := tv.Snapshot()
	eff := tv.effective
	sx, sy := float64(tv.scrollX), float64(tv.scrollY)

	c.Save()
	defer c.Restore()
	c.Translate(-sx, -sy)

	c.Save()
	c.ClipRect(gutter.Rect{
		Left:   sx + float64(eff.Left),
		Top:    sy + float64(eff.Top),
		Right:  sx + float64(tv.width-eff.Right),
		Bottom: sy + float64(tv.height-eff.Bottom),
	})
	style := tv.TextStyle()
	shadowStyle := style
	shadowStyle.Color = tv.shadowColor
	for i, ln := range tv.lines {
		if ln.Content == "" {
			continue
		}
		m := tv.metrics[i]
		x := float64(eff.Left) + m.Left
		y := float64(eff.Top + m.Baseline)
		if tv.shadow.Radius != 0 {
			c.DrawText(ln.Content, x+tv.shadow.Dx, y+tv.shadow.Dy, shadowStyle)
		}
		c.DrawText(ln.Content, x, y, style)
	}
	c.Restore()

	tv.engine.OnRedraw(c, snap)
	return nil
}

// Dump is a JSON friendly record of one draw.
type Dump struct {
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Padding     layout.Padding     `json:"padding"`
	Effective   layout.Padding     `json:"effective"`
	Gutter      gutter.Config      `json:"gutter"`
	Reservation gutter.Reservation `json:"reservation"`
	LabelStyle  gutter.Style       `json:"labelStyle"`
	Snapshot    gutter.Snapshot    `json:"snapshot"`
	Ops         []gutter.DrawOp    `json:"ops"`
}

// Record draws into a gutter.Recorder and returns what was drawn.
func (tv *TextView) Record() (Dump, error) {
	var rec gutter.Recorder
	if err := tv.Draw(&rec); err != nil {
		return Dump{}, err
	}
	return Dump{
		Width:       tv.width,
		Height:      tv.height,
		Padding:     tv.user,
		Effective:   tv.effective,
		Gutter:      tv.engine.Config(),
		Reservation: tv.engine.Reservation(),
		LabelStyle:  tv.engine.LabelStyle(),
		Snapshot:    tv.Snapshot(),
		Ops:         rec.Ops,
	}, nil
}
