package gutter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipBottomTrim(t *testing.T) {
	s := uniformSnapshot(8, 20)
	s.ViewHeight = 50
	s.ExtendedPaddingTop = 4
	s.ExtendedPaddingBottom = 6
	maxScroll := s.MaxScrollY()
	require.Equal(t, 110, maxScroll)

	cases := []struct {
		scroll      int
		top, bottom float64
	}{
		{0, 0, 50 - 6},
		{maxScroll / 2, float64(4 + maxScroll/2), float64(50 + maxScroll/2 - 6)},
		{maxScroll, float64(4 + maxScroll), float64(50 + maxScroll)},
	}
	for _, c := range cases {
		s.ScrollY = c.scroll
		r := Clip(s)
		assert.Equal(t, c.top, r.Top, "scroll=%d", c.scroll)
		assert.Equal(t, c.bottom, r.Bottom, "scroll=%d", c.scroll)
		assert.Equal(t, 0.0, r.Left)
		assert.Equal(t, 200.0, r.Right)
	}
}

func TestClipMaxScrollUsesCompoundPadding(t *testing.T) {
	s := uniformSnapshot(8, 20)
	s.ViewHeight = 50
	s.CompoundPaddingTop = 5
	s.CompoundPaddingBottom = 5
	s.ExtendedPaddingBottom = 5
	s.ScrollY = 160 - 50 - 10

	assert.Equal(t, float64(50+s.ScrollY), Clip(s).Bottom)
}

func TestClipHorizontalFollowsScrollX(t *testing.T) {
	s := uniformSnapshot(2, 20)
	s.ViewHeight = 40
	s.ScrollX = 30
	r := Clip(s)
	assert.Equal(t, 30.0, r.Left)
	assert.Equal(t, 230.0, r.Right)
}

func TestClipShadowExpands(t *testing.T) {
	s := uniformSnapshot(8, 20)
	s.ViewHeight = 50
	s.ScrollY = 20
	base := Clip(s)

	s.Shadow = Shadow{Radius: 3, Dx: 1, Dy: -5}
	r := Clip(s)
	assert.Equal(t, base.Left-2, r.Left)
	assert.Equal(t, base.Right+4, r.Right)
	assert.Equal(t, base.Top-8, r.Top)
	assert.Equal(t, base.Bottom, r.Bottom)
}

func TestVisibleRangeUsesExtendedPadding(t *testing.T) {
	s := uniformSnapshot(10, 20)
	s.ViewHeight = 100
	first, last, ok := VisibleRange(s)
	require.True(t, ok)
	assert.Equal(t, 0, first)
	assert.Equal(t, 5, last)

	s.ExtendedPaddingTop = 10
	s.ExtendedPaddingBottom = 30
	_, last, ok = VisibleRange(s)
	require.True(t, ok)
	assert.Equal(t, 3, last)
}

func TestVisibleRangeClampsPastEnd(t *testing.T) {
	s := uniformSnapshot(3, 20)
	s.ViewHeight = 40
	s.ScrollY = 500
	first, last, ok := VisibleRange(s)
	require.True(t, ok)
	assert.Equal(t, 2, first)
	assert.Equal(t, 2, last)
}

func TestVisibleLinesFollowBaselineDeltas(t *testing.T) {
	heights := []int{18, 31, 12, 40, 22, 9, 27, 16}
	var s Snapshot
	top := 0
	for i, h := range heights {
		s.Lines = append(s.Lines, LineMetrics{Top: top, Bottom: top + h, Baseline: top + h*3/4 + i%2})
		top += h
	}
	s.LayoutHeight = top
	s.ViewWidth = 100
	s.ViewHeight = 90
	s.HostBaseline = 37

	for _, scroll := range []int{0, 17, 40, 99} {
		s.ScrollY = scroll
		var idx, ys []int
		for line, y := range VisibleLines(s) {
			idx = append(idx, line)
			ys = append(ys, y)
		}
		require.NotEmpty(t, idx, "scroll=%d", scroll)
		assert.Equal(t, s.HostBaseline+s.Lines[idx[0]].Baseline-s.Lines[0].Baseline, ys[0])
		for k := 1; k < len(idx); k++ {
			assert.Equal(t, idx[k-1]+1, idx[k])
			assert.Equal(t, s.Lines[idx[k]].Baseline-s.Lines[idx[k-1]].Baseline, ys[k]-ys[k-1])
		}
	}
}

func TestVisibleLinesStopsEarly(t *testing.T) {
	s := uniformSnapshot(10, 10)
	s.ViewHeight = 100
	n := 0
	for range VisibleLines(s) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestPositionColumns(t *testing.T) {
	s := uniformSnapshot(1, 20)
	s.PaddingOffsetLeft = 3
	s.PaddingOffsetRight = -2
	res := Reservation{UserLeft: 4, UserRight: 4, Reserved: 16}

	assert.Equal(t, 3, PositionX(0, Config{Side: SideLeft}, res, s))
	assert.Equal(t, 200-2-16, PositionX(0, Config{Side: SideRight}, res, s))
}

func TestHugRightShortLine(t *testing.T) {
	s := uniformSnapshot(1, 20)
	s.Lines[0].Right = 30
	s.CompoundPaddingLeft = 4
	res := Reservation{UserLeft: 4, UserRight: 6, Reserved: 16}

	x := PositionX(0, Config{Side: SideRight, Hug: true}, res, s)
	assert.Equal(t, 30+4+6, x)
	assert.Less(t, x, PositionX(0, Config{Side: SideRight}, res, s))
}

func TestHugNeverCrossesColumn(t *testing.T) {
	s := uniformSnapshot(1, 20)
	s.PaddingOffsetLeft = 2
	s.PaddingOffsetRight = -3
	s.CompoundPaddingLeft = 30
	res := Reservation{UserLeft: 10, UserRight: 5, Reserved: 24}
	leftCol := PositionX(0, Config{Side: SideLeft}, res, s)
	rightCol := PositionX(0, Config{Side: SideRight}, res, s)

	for _, extent := range []float64{-500, 0, 1, 11, 60, 150, 199, 200, 5000} {
		s.Lines[0].Left = extent
		s.Lines[0].Right = extent
		assert.GreaterOrEqual(t, PositionX(0, Config{Side: SideLeft, Hug: true}, res, s), leftCol, "left extent=%g", extent)
		assert.LessOrEqual(t, PositionX(0, Config{Side: SideRight, Hug: true}, res, s), rightCol, "right extent=%g", extent)
	}

	s.Lines[0].Left = 40
	assert.Equal(t, 30, PositionX(0, Config{Side: SideLeft, Hug: true}, res, s))
}

func TestLineForVertical(t *testing.T) {
	s := uniformSnapshot(4, 10)
	assert.Equal(t, 0, s.LineForVertical(-5))
	assert.Equal(t, 0, s.LineForVertical(9))
	assert.Equal(t, 1, s.LineForVertical(10))
	assert.Equal(t, 3, s.LineForVertical(1000))
	assert.Equal(t, 0, Snapshot{}.LineForVertical(5))
}

func TestRectIntersectContains(t *testing.T) {
	clip := Rect{Left: 0, Top: 10, Right: 40, Bottom: 50}.Intersect(Rect{Left: 20, Top: 0, Right: 60, Bottom: 30})
	assert.Equal(t, Rect{Left: 20, Top: 10, Right: 40, Bottom: 30}, clip)
	assert.True(t, clip.Contains(20, 10))
	assert.False(t, clip.Contains(40, 20), "right edge is exclusive")
	assert.False(t, clip.Contains(25, 30), "bottom edge is exclusive")
	assert.True(t, clip.Offset(100, 0).Intersect(clip).Empty())
}

func TestRecorderNestsState(t *testing.T) {
	var r Recorder
	r.Translate(5, 5)
	r.Save()
	r.ClipRect(Rect{Right: 10, Bottom: 10})
	r.Save()
	r.Translate(-5, 0)
	r.ClipRect(Rect{Left: 2, Right: 8, Bottom: 30})
	r.DrawText("a", 1, 1, Style{})
	r.Restore()
	r.DrawText("b", 0, 0, Style{})
	r.Restore()
	r.Restore()
	r.DrawText("c", 0, 0, Style{})

	require.Len(t, r.Ops, 3)
	assert.Equal(t, Rect{Left: 5, Top: 5, Right: 8, Bottom: 15}, *r.Ops[0].Clip)
	assert.Equal(t, 1.0, r.Ops[0].X)
	assert.Equal(t, Rect{Left: 5, Top: 5, Right: 15, Bottom: 15}, *r.Ops[1].Clip)
	assert.Nil(t, r.Ops[2].Clip)
	assert.Equal(t, 5.0, r.Ops[2].X)
}
