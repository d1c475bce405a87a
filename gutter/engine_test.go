package gutter

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/linenum/layout"
)

const glyphWidth = 8

// fakeHost measures every rune as glyphWidth pixels and records padding
// pushes, invalidations and posted work.
type fakeHost struct {
	lines         int
	style         Style
	applied       []layout.Padding
	invalidations int
	posted        []func()
}

func (h *fakeHost) MeasureText(_ Style, text string) float64 {
	return float64(utf8.RuneCountInString(text) * glyphWidth)
}
func (h *fakeHost) LineCount() int { return h.lines }
func (h *fakeHost) DefaultStyle() Style { return h.style }
func (h *fakeHost) ApplyPadding(p layout.Padding) { h.applied = append(h.applied, p) }
func (h *fakeHost) Invalidate() { h.invalidations++ }
func (h *fakeHost) Post(fn func()) { h.posted = append(h.posted, fn) }

func (h *fakeHost) runPosted() {
	for len(h.posted) > 0 {
		fn := h.posted[0]
		h.posted = h.posted[1:]
		fn()
	}
}

func (h *fakeHost) lastApplied(t *testing.T) layout.Padding {
	t.Helper()
	require.NotEmpty(t, h.applied, "host never received padding")
	return h.applied[len(h.applied)-1]
}

func newReadyEngine(t *testing.T, h *fakeHost, pad layout.Padding, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(h, pad, opts...)
	require.NoError(t, err)
	h.runPosted()
	require.True(t, e.Ready())
	return e
}

// uniformSnapshot lays out n lines of height h with a 15px ascent.
func uniformSnapshot(n, h int) Snapshot {
	s := Snapshot{LayoutHeight: n * h, HostBaseline: 15, ViewWidth: 200}
	for i := range n {
		s.Lines = append(s.Lines, LineMetrics{
			Top:      i * h,
			Bottom:   (i + 1) * h,
			Baseline: i*h + 15,
			Right:    100,
		})
	}
	return s
}

func TestEightLinesDecimalLeft(t *testing.T) {
	h := &fakeHost{lines: 8}
	e := newReadyEngine(t, h, layout.Padding{Left: 4})

	assert.Equal(t, glyphWidth, e.Reservation().Reserved)
	assert.Equal(t, layout.Padding{Left: 4 + glyphWidth}, h.lastApplied(t))

	s := uniformSnapshot(8, 20)
	s.ScrollY = 65
	s.ViewHeight = 50

	var rec Recorder
	e.OnRedraw(&rec, s)
	require.Equal(t, []string{"4", "5", "6"}, rec.Texts())
	for _, op := range rec.Ops {
		assert.Equal(t, 0.0, op.X)
	}
	assert.Equal(t, []float64{75, 95, 115}, []float64{rec.Ops[0].Y, rec.Ops[1].Y, rec.Ops[2].Y})
}

func TestMarginMatchesLastLabel(t *testing.T) {
	sided := Funcs{Text: func(left bool, line int) string {
		if left {
			return "L" + strconv.Itoa(line)
		}
		return "right-" + strconv.Itoa(line)
	}}
	for _, side := range []Side{SideLeft, SideRight} {
		for _, lines := range []int{0, 1, 9, 10, 99, 100, 12345} {
			h := &fakeHost{lines: lines}
			e := newReadyEngine(t, h, layout.Padding{}, WithConfig(Config{Side: side}), WithProvider(sided))
			want := 0
			if lines > 0 {
				want = int(h.MeasureText(Style{}, sided.LabelText(side == SideLeft, lines)))
			}
			assert.Equal(t, want, e.Reservation().Reserved, "side=%s lines=%d", side, lines)
		}
	}
}

func TestMarginTruncatesFraction(t *testing.T) {
	h := &halfHost{fakeHost{lines: 3}}
	e, err := NewEngine(h, layout.Padding{})
	require.NoError(t, err)
	h.runPosted()
	// "3" measures 4.5px
	assert.Equal(t, 4, e.Reservation().Reserved)
	// "100" measures 13.5px
	assert.Equal(t, 13, ReserveMargin(h, Style{}, Decimal{}, SideLeft, 100, false))
}

// rewrapHost gains a wrapped line whenever the applied left padding reaches
// growAt, the way a narrower content area re-wraps text.
type rewrapHost struct {
	fakeHost
	growAt int
}

func (h *rewrapHost) LineCount() int {
	if len(h.applied) > 0 && h.applied[len(h.applied)-1].Left >= h.growAt {
		return h.lines + 1
	}
	return h.lines
}

func TestMarginFollowsRewrappedLineCount(t *testing.T) {
	h := &rewrapHost{fakeHost: fakeHost{lines: 9}, growAt: glyphWidth}
	e, err := NewEngine(h, layout.Padding{})
	require.NoError(t, err)
	h.runPosted()

	assert.Equal(t, 10, h.LineCount())
	assert.Equal(t, 2*glyphWidth, e.Reservation().Reserved)
	assert.Equal(t, layout.Padding{Left: 2 * glyphWidth}, h.lastApplied(t))
	assert.Len(t, h.applied, 2)
}

// growingHost wraps into one more line every time padding is applied.
type growingHost struct{ fakeHost }

func (h *growingHost) LineCount() int { return 1 + len(h.applied) }

func TestMarginSettleIsBounded(t *testing.T) {
	h := &growingHost{}
	wide := Funcs{Text: func(_ bool, line int) string { return strings.Repeat("x", line) }}
	e, err := NewEngine(h, layout.Padding{}, WithProvider(wide))
	require.NoError(t, err)
	h.runPosted()

	assert.Len(t, h.applied, maxSettlePasses)
	assert.Equal(t, layout.Padding{Left: e.Reservation().Reserved}, h.lastApplied(t))
}

type halfHost struct{ fakeHost }

func (h *halfHost) MeasureText(_ Style, text string) float64 {
	return float64(utf8.RuneCountInString(text)) * 4.5
}

func TestSideToggleRestoresPadding(t *testing.T) {
	h := &fakeHost{lines: 120}
	user := layout.Padding{Left: 3, Top: 2, Right: 5, Bottom: 1}
	e := newReadyEngine(t, h, user)
	before := h.lastApplied(t)
	assert.Equal(t, layout.Padding{Left: 3 + 24, Top: 2, Right: 5, Bottom: 1}, before)

	e.SetSide(SideRight)
	assert.Equal(t, layout.Padding{Left: 3, Top: 2, Right: 5 + 24, Bottom: 1}, h.lastApplied(t))

	e.SetSide(SideLeft)
	assert.Equal(t, before, h.lastApplied(t))
	assert.Equal(t, before, e.EffectivePadding())
}

func TestUnchangedContentDoesNotReapplyPadding(t *testing.T) {
	h := &fakeHost{lines: 42}
	e := newReadyEngine(t, h, layout.Padding{})
	require.Len(t, h.applied, 1)
	inv := h.invalidations

	e.OnContentChanged()
	e.OnContentChanged()
	assert.Len(t, h.applied, 1)
	assert.Equal(t, inv, h.invalidations)

	h.lines = 100
	e.OnContentChanged()
	assert.Len(t, h.applied, 2)
	assert.Equal(t, layout.Padding{Left: 24}, h.lastApplied(t))
	assert.Equal(t, inv+1, h.invalidations)
}

func TestDeferredSetup(t *testing.T) {
	h := &fakeHost{lines: 5, style: Style{Size: 12, Typeface: "mono"}}
	e, err := NewEngine(h, layout.Padding{})
	require.NoError(t, err)

	assert.False(t, e.Ready())
	assert.Empty(t, h.applied)
	e.OnContentChanged()
	e.OnContentChanged()
	e.SetLabelColor(layout.Color{R: 200})
	require.Len(t, h.posted, 1, "setup is posted once")

	h.runPosted()
	assert.True(t, e.Ready())
	assert.Len(t, h.applied, 1, "queued recomputes collapse into one")
	assert.Equal(t, Style{Size: 12, Typeface: "mono", Color: layout.Color{R: 200}}, e.LabelStyle())
}

func TestRedrawBeforeSetupInitializes(t *testing.T) {
	h := &fakeHost{lines: 3}
	e, err := NewEngine(h, layout.Padding{})
	require.NoError(t, err)

	s := uniformSnapshot(3, 20)
	s.ViewHeight = 60
	var rec Recorder
	require.NotPanics(t, func() { e.OnRedraw(&rec, s) })
	assert.True(t, e.Ready())
	assert.Equal(t, []string{"1", "2", "3"}, rec.Texts())
	assert.Equal(t, glyphWidth, e.Reservation().Reserved)

	// the posted setup is now a no-op
	h.runPosted()
	assert.Len(t, h.applied, 1)
}

func TestDegenerateGeometryDrawsNothing(t *testing.T) {
	h := &fakeHost{lines: 0}
	e := newReadyEngine(t, h, layout.Padding{Left: 2})
	assert.Zero(t, e.Reservation().Reserved)
	assert.Equal(t, layout.Padding{Left: 2}, h.lastApplied(t))

	cases := map[string]Snapshot{
		"no lines":   {ViewWidth: 100, ViewHeight: 100},
		"no width":   func() Snapshot { s := uniformSnapshot(4, 10); s.ViewWidth = 0; s.ViewHeight = 40; return s }(),
		"no height":  uniformSnapshot(4, 10),
		"above view": func() Snapshot { s := uniformSnapshot(4, 10); s.ViewHeight = 40; s.ScrollY = -100; return s }(),
	}
	for name, s := range cases {
		var rec Recorder
		e.OnRedraw(&rec, s)
		assert.Empty(t, rec.Ops, name)
	}
}

func TestStyleSettersDirtyCheck(t *testing.T) {
	h := &fakeHost{lines: 10, style: Style{Color: layout.Color{R: 1}, Typeface: "mono", Size: 14}}
	e := newReadyEngine(t, h, layout.Padding{})
	inv := h.invalidations
	applied := len(h.applied)

	e.SetLabelColor(layout.Color{R: 1})
	e.SetLabelTypeface("mono")
	e.SetLabelSize(14)
	assert.Equal(t, inv, h.invalidations, "identical style must not redraw")

	e.SetLabelColor(layout.Color{G: 9})
	e.SetLabelTypeface("serif")
	e.SetLabelSize(16)
	assert.Equal(t, inv+3, h.invalidations)
	assert.Len(t, h.applied, applied, "style changes never touch padding")
}

func TestHugToggleOnlyInvalidates(t *testing.T) {
	h := &fakeHost{lines: 10}
	e := newReadyEngine(t, h, layout.Padding{})
	inv := h.invalidations

	e.SetHug(false)
	assert.Equal(t, inv, h.invalidations)
	e.SetHug(true)
	assert.True(t, e.Hug())
	assert.Equal(t, inv+1, h.invalidations)
	assert.Len(t, h.applied, 1)
}

func TestNilProviderRejected(t *testing.T) {
	_, err := NewEngine(&fakeHost{}, layout.Padding{}, WithProvider(nil))
	require.ErrorIs(t, err, ErrNilProvider)

	h := &fakeHost{lines: 3}
	e := newReadyEngine(t, h, layout.Padding{})
	before := e.LabelProvider()
	require.ErrorIs(t, e.SetLabelProvider(nil), ErrNilProvider)
	assert.Equal(t, before, e.LabelProvider())
}

func TestProviderChangeResizesMargin(t *testing.T) {
	h := &fakeHost{lines: 20}
	e := newReadyEngine(t, h, layout.Padding{})
	require.Equal(t, 2*glyphWidth, e.Reservation().Reserved)

	require.NoError(t, e.SetLabelProvider(Hex{Width: 4}))
	assert.Equal(t, 4*glyphWidth, e.Reservation().Reserved)
	assert.Equal(t, layout.Padding{Left: 4 * glyphWidth}, h.lastApplied(t))
}

func TestSafeUpperBound(t *testing.T) {
	shrinking := Funcs{Text: func(_ bool, line int) string {
		if line == 8 {
			return "x"
		}
		return "long"
	}}
	h := &fakeHost{lines: 8}
	e := newReadyEngine(t, h, layout.Padding{}, WithProvider(shrinking))
	assert.Equal(t, glyphWidth, e.Reservation().Reserved)

	h2 := &fakeHost{lines: 8}
	e2 := newReadyEngine(t, h2, layout.Padding{}, WithProvider(shrinking), WithSafeUpperBound())
	assert.Equal(t, 4*glyphWidth, e2.Reservation().Reserved)
}

func TestPaddingRequestAddsMargin(t *testing.T) {
	h := &fakeHost{lines: 100}
	e := newReadyEngine(t, h, layout.Padding{})
	applied := len(h.applied)

	got := e.OnPaddingRequested(layout.Padding{Left: 10, Top: 1, Right: 7, Bottom: 2})
	assert.Equal(t, layout.Padding{Left: 10 + 24, Top: 1, Right: 7, Bottom: 2}, got)
	assert.Len(t, h.applied, applied, "the host applies the returned padding itself")
	assert.Equal(t, Reservation{UserLeft: 10, UserRight: 7, Reserved: 24}, e.Reservation())

	// recomputing with nothing changed must not echo the padding back
	e.OnContentChanged()
	assert.Len(t, h.applied, applied)
}

func TestHiddenLabelsSkipped(t *testing.T) {
	h := &fakeHost{lines: 6}
	e := newReadyEngine(t, h, layout.Padding{}, WithProvider(Hidden{
		LabelProvider: Decimal{},
		Ranges:        []LineRange{{From: 2, To: 3}, {From: 5, To: 5}},
	}))
	s := uniformSnapshot(6, 10)
	s.ViewHeight = 60
	var rec Recorder
	e.OnRedraw(&rec, s)
	assert.Equal(t, []string{"1", "4", "6"}, rec.Texts())
}

func TestRedrawClipsAndRestores(t *testing.T) {
	h := &fakeHost{lines: 8}
	e := newReadyEngine(t, h, layout.Padding{})
	s := uniformSnapshot(8, 20)
	s.ViewHeight = 50
	s.ScrollY = 20
	s.ExtendedPaddingTop = 4

	var rec Recorder
	rec.Translate(0, -20)
	e.OnRedraw(&rec, s)
	require.NotEmpty(t, rec.Ops)
	want := Clip(s).Offset(0, -20)
	for _, op := range rec.Ops {
		require.NotNil(t, op.Clip)
		assert.Equal(t, want, *op.Clip)
	}

	rec.DrawText("after", 0, 0, Style{})
	assert.Nil(t, rec.Ops[len(rec.Ops)-1].Clip, "OnRedraw must restore the canvas")
}
