// Package textview is a minimal scrollable text view that hosts a line
// number gutter. It lays out its text through a Backend, keeps its own padding
// and scroll state, and hands the gutter engine a Snapshot on every draw.
//
// A TextView is not safe for concurrent use.
package textview

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/ByLCY/linenum/gutter"
	"github.com/ByLCY/linenum/layout"
)

// Backend lays out and measures text for one output medium.
type Backend interface {
	layout.Typesetter
	gutter.Measurer
}

// TextView owns text, padding and scroll state and implements gutter.Host.
type TextView struct {
	backend Backend
	engine  *gutter.Engine
	logger  *slog.Logger

	text        string
	font        layout.FontResource
	fontSize    float64
	lineHeight  layout.LineHeightSpec
	wrap        string
	color       layout.Color
	background  layout.Color
	align       layout.Align
	shadow      gutter.Shadow
	shadowColor layout.Color

	width, height int
	user          layout.Padding
	effective     layout.Padding
	scrollX       int
	scrollY       int

	gutterOpts []gutter.Option

	dirty        bool
	layoutErr    error
	lines        []layout.TextLine
	metrics      []gutter.LineMetrics
	contentWidth float64
	layoutHeight int

	posted        []func()
	invalidations int
}

var _ gutter.Host = (*TextView)(nil)

// New creates a view over text. The gutter is attached immediately; its setup
// runs with the first Draw or RunPosted.
func New(backend Backend, text string, opts ...Option) (*TextView, error) {
	if backend == nil {
		return nil, fmt.Errorf("textview: backend must not be nil")
	}
	tv := &TextView{
		backend:    backend,
		logger:     slog.New(slog.DiscardHandler),
		text:       text,
		font:       layout.FontResource{Name: "default"},
		fontSize:   16,
		lineHeight: layout.LineHeightSpec{Kind: layout.LineHeightFactor, Factor: 1.2},
		wrap:       layout.WrapAnywhere,
		background: layout.Color{R: 255, G: 255, B: 255},
		width:      320,
		height:     240,
		dirty:      true,
	}
	for _, opt := range opts {
		opt(tv)
	}
	tv.effective = tv.user

	engineOpts := append([]gutter.Option{gutter.WithLogger(tv.logger)}, tv.gutterOpts...)
	engine, err := gutter.NewEngine(tv, tv.user, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("textview: attach gutter: %w", err)
	}
	tv.engine = engine
	return tv, nil
}

// Gutter returns the attached engine.
func (tv *TextView) Gutter() *gutter.Engine { return tv.engine }

// MeasureText implements gutter.Host.
func (tv *TextView) MeasureText(style gutter.Style, text string) float64 {
	return tv.backend.MeasureText(style, text)
}

// LineCount implements gutter.Host. It lays the text out first if needed and
// reports 0 when layout fails.
func (tv *TextView) LineCount() int {
	if err := tv.ensureLayout(); err != nil {
		return 0
	}
	return len(tv.lines)
}

// DefaultStyle implements gutter.Host: labels start out in the text's paint.
func (tv *TextView) DefaultStyle() gutter.Style { return tv.TextStyle() }

// ApplyPadding implements gutter.Host. It stores p as the effective padding
// and must not be routed back into the engine.
func (tv *TextView) ApplyPadding(p layout.Padding) {
	if p == tv.effective {
		return
	}
	tv.logger.Debug("effective padding changed", "from", tv.effective, "to", p)
	tv.effective = p
	tv.dirty = true
}

// Invalidate implements gutter.Host.
func (tv *TextView) Invalidate() { tv.invalidations++ }

// Post implements gutter.Host.
func (tv *TextView) Post(fn func()) { tv.posted = append(tv.posted, fn) }

// RunPosted runs queued work in order, including work queued while running,
// and returns how many functions ran.
func (tv *TextView) RunPosted() int {
	n := 0
	for len(tv.posted) > 0 {
		fn := tv.posted[0]
		tv.posted = tv.posted[1:]
		fn()
		n++
	}
	return n
}

// Invalidations returns how many redraws have been requested so far.
func (tv *TextView) Invalidations() int { return tv.invalidations }

// TextStyle returns the paint of the text itself.
func (tv *TextView) TextStyle() gutter.Style {
	return gutter.Style{Color: tv.color, Typeface: tv.font.Name, Size: tv.fontSize}
}

func (tv *TextView) Text() string { return tv.text }

// SetText replaces the text and notifies the gutter.
func (tv *TextView) SetText(text string) {
	if text == tv.text {
		return
	}
	tv.text = text
	tv.dirty = true
	tv.engine.OnContentChanged()
	tv.Invalidate()
}

// Padding returns the padding requested by the caller, without the margin.
func (tv *TextView) Padding() layout.Padding { return tv.user }

// EffectivePadding returns the padding in force, margin included.
func (tv *TextView) EffectivePadding() layout.Padding { return tv.effective }

// SetPadding sets the caller's padding; the gutter adds its margin on top.
func (tv *TextView) SetPadding(p layout.Padding) {
	tv.rewrap(func() {
		tv.user = p
		eff := tv.engine.OnPaddingRequested(p)
		if eff != tv.effective {
			tv.effective = eff
			tv.dirty = true
		}
	})
	tv.Invalidate()
}

func (tv *TextView) Size() (width, height int) { return tv.width, tv.height }

// SetSize resizes the view and clamps the scroll position.
func (tv *TextView) SetSize(width, height int) {
	if width == tv.width && height == tv.height {
		return
	}
	tv.rewrap(func() {
		tv.width, tv.height = width, height
		tv.dirty = true
	})
	tv.Invalidate()
}

// rewrap runs change and tells the gutter when the new content width wraps
// the text into a different number of lines.
func (tv *TextView) rewrap(change func()) {
	before := tv.LineCount()
	change()
	if tv.LineCount() != before {
		tv.engine.OnContentChanged()
	}
}

func (tv *TextView) Align() layout.Align { return tv.align }

// SetAlign changes the horizontal alignment of the text lines.
func (tv *TextView) SetAlign(a layout.Align) {
	if a == tv.align {
		return
	}
	tv.align = a
	tv.dirty = true
	tv.Invalidate()
}

func (tv *TextView) Shadow() gutter.Shadow { return tv.shadow }

// SetShadow sets the text shadow; a zero radius removes it.
func (tv *TextView) SetShadow(s gutter.Shadow, color layout.Color) {
	tv.shadow, tv.shadowColor = s, color
	tv.Invalidate()
}

func (tv *TextView) Background() layout.Color { return tv.background }

// Lines returns the current layout.
func (tv *TextView) Lines() ([]layout.TextLine, error) {
	if err := tv.ensureLayout(); err != nil {
		return nil, err
	}
	return tv.lines, nil
}

func (tv *TextView) ensureLayout() error {
	if !tv.dirty {
		return tv.layoutErr
	}
	tv.dirty = false
	tv.contentWidth = float64(tv.width - tv.effective.Horizontal())
	if tv.contentWidth < 1 {
		tv.contentWidth = 1
	}
	lh := tv.lineHeight.Resolve(tv.fontSize)
	lines, err := tv.backend.LayoutLines(tv.text, tv.contentWidth, tv.font, tv.fontSize, lh, tv.wrap)
	if err != nil {
		tv.layoutErr = fmt.Errorf("textview: layout text: %w", err)
		tv.lines, tv.metrics, tv.layoutHeight = nil, nil, 0
		return tv.layoutErr
	}
	tv.layoutErr = nil
	tv.lines = lines
	tv.metrics = make([]gutter.LineMetrics, 0, len(lines))
	y := 0.0
	for _, ln := range lines {
		top := y
		y += ln.GapBefore
		left, right := layout.LineExtents(tv.contentWidth, ln.Width, tv.align)
		tv.metrics = append(tv.metrics, gutter.LineMetrics{
			Top:      int(math.Round(top)),
			Baseline: int(math.Round(y + ln.Ascent)),
			Bottom:   int(math.Round(y + ln.Height)),
			Left:     left,
			Right:    right,
		})
		y += ln.Height
	}
	tv.layoutHeight = int(math.Round(y))
	tv.scrollX, tv.scrollY = tv.clampScroll(tv.scrollX, tv.scrollY)
	tv.logger.Debug("text laid out", "lines", len(lines), "content_width", tv.contentWidth, "height", tv.layoutHeight)
	return nil
}
