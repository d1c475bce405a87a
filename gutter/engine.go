package gutter

import (
	"fmt"
	"log/slog"

	"github.com/ByLCY/linenum/layout"
)

// Host is the text view an Engine decorates.
//
// ApplyPadding must store the padding as the view's effective padding without
// calling OnPaddingRequested again. Post schedules fn to run on the redraw
// goroutine before the next redraw.
type Host interface {
	Measurer
	LineCount() int
	DefaultStyle() Style
	ApplyPadding(p layout.Padding)
	Invalidate()
	Post(fn func())
}

type state int

const (
	stateUninitialized state = iota
	stateReady
)

// Engine reserves the label margin in its Host and draws labels on redraw.
type Engine struct {
	host     Host
	cfg      Config
	style    Style
	styleSet bool
	provider LabelProvider
	logger   *slog.Logger

	res        Reservation
	top        int
	bottom     int
	applied    layout.Padding
	hasApplied bool
	upperBound bool

	state           state
	pending         []func()
	initPosted      bool
	recomputeQueued bool
}

// Option configures an Engine at construction.
type Option func(*Engine) error

// WithConfig sets the initial side and hug mode.
func WithConfig(cfg Config) Option {
	return func(e *Engine) error {
		e.cfg = cfg
		return nil
	}
}

// WithStyle replaces the style the engine would otherwise take from the host.
func WithStyle(s Style) Option {
	return func(e *Engine) error {
		e.style = s
		e.styleSet = true
		return nil
	}
}

// WithProvider sets the initial label provider.
func WithProvider(p LabelProvider) Option {
	return func(e *Engine) error {
		if p == nil {
			return ErrNilProvider
		}
		e.provider = p
		return nil
	}
}

// WithLogger sets the logger for margin and lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) error {
		if l != nil {
			e.logger = l
		}
		return nil
	}
}

// WithSafeUpperBound sizes the margin from the widest visible label instead of
// the last line's label.
func WithSafeUpperBound() Option {
	return func(e *Engine) error {
		e.upperBound = true
		return nil
	}
}

// NewEngine creates an engine for host whose own padding is padding. The
// first margin computation is queued until the engine is initialized, which
// happens on the first redraw or when the host runs its posted work.
func NewEngine(host Host, padding layout.Padding, opts ...Option) (*Engine, error) {
	if host == nil {
		return nil, fmt.Errorf("gutter: host must not be nil")
	}
	e := &Engine{
		host:     host,
		provider: Decimal{},
		logger:   slog.New(slog.DiscardHandler),
		res:      Reservation{UserLeft: padding.Left, UserRight: padding.Right},
		top:      padding.Top,
		bottom:   padding.Bottom,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("gutter: configure engine: %w", err)
		}
	}
	e.OnContentChanged()
	return e, nil
}

// Ready reports whether the one-time setup has run.
func (e *Engine) Ready() bool { return e.state == stateReady }

func (e *Engine) setup() {
	if e.state == stateReady {
		return
	}
	if !e.styleSet {
		e.style = e.host.DefaultStyle()
	}
	e.state = stateReady
	e.logger.Debug("gutter ready", "pending", len(e.pending), "side", e.cfg.Side, "hug", e.cfg.Hug)

	pending := e.pending
	e.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// whenReady runs fn now if the engine is set up, otherwise after setup.
func (e *Engine) whenReady(fn func()) {
	if e.state == stateReady {
		fn()
		return
	}
	e.pending = append(e.pending, fn)
	if !e.initPosted {
		e.initPosted = true
		e.host.Post(e.setup)
	}
}

// OnContentChanged recomputes the margin after the host's text changed.
func (e *Engine) OnContentChanged() {
	e.queueRecompute(false)
}

func (e *Engine) queueRecompute(force bool) {
	if e.state == stateReady {
		e.recomputeMargin(force)
		return
	}
	if e.recomputeQueued {
		return
	}
	e.recomputeQueued = true
	e.whenReady(func() {
		e.recomputeQueued = false
		e.recomputeMargin(true)
	})
}

// maxSettlePasses bounds how often recomputeMargin re-measures when applying
// the padding re-wraps the host's text into a different number of lines.
const maxSettlePasses = 4

// recomputeMargin measures the margin and pushes the effective padding into
// the host only when it differs from what was last applied. Applying padding
// narrows the content area, so the line count is read again afterwards and the
// margin re-measured until it stops changing. It invalidates when something
// changed or when force is set.
func (e *Engine) recomputeMargin(force bool) {
	prev := e.res.Reserved
	lines := e.host.LineCount()
	paddingChanged := false
	for range maxSettlePasses {
		e.res.Reserved = ReserveMargin(e.host, e.style, e.provider, e.cfg.Side, lines, e.upperBound)
		eff := e.res.Effective(e.cfg.Side, e.top, e.bottom)
		if e.hasApplied && eff == e.applied {
			break
		}
		e.applied = eff
		e.hasApplied = true
		e.host.ApplyPadding(eff)
		paddingChanged = true

		n := e.host.LineCount()
		if n == lines {
			break
		}
		lines = n
	}
	marginChanged := e.res.Reserved != prev
	e.logger.Debug("gutter margin recomputed",
		"lines", lines,
		"reserved", e.res.Reserved,
		"side", e.cfg.Side,
		"padding_changed", paddingChanged,
	)
	if marginChanged || paddingChanged || force {
		e.host.Invalidate()
	}
}

// OnPaddingRequested records p as the host's own padding and returns the
// padding the host should apply, with the margin added on the configured side.
func (e *Engine) OnPaddingRequested(p layout.Padding) layout.Padding {
	sideChanged := (e.cfg.Side == SideLeft && p.Left != e.res.UserLeft) ||
		(e.cfg.Side == SideRight && p.Right != e.res.UserRight)
	e.res.UserLeft, e.res.UserRight = p.Left, p.Right
	e.top, e.bottom = p.Top, p.Bottom

	if sideChanged && e.state == stateReady {
		e.res.Reserved = ReserveMargin(e.host, e.style, e.provider, e.cfg.Side, e.host.LineCount(), e.upperBound)
	} else if sideChanged {
		e.queueRecompute(false)
	}
	eff := e.res.Effective(e.cfg.Side, e.top, e.bottom)
	e.applied = eff
	e.hasApplied = true
	return eff
}

// OnRedraw draws the visible labels onto c. It performs the one-time setup
// first if the host redraws before running its posted work.
func (e *Engine) OnRedraw(c Canvas, s Snapshot) {
	if e.state != stateReady {
		e.setup()
	}
	if _, _, ok := VisibleRange(s); !ok {
		return
	}

	c.Save()
	defer c.Restore()
	c.ClipRect(Clip(s))

	onLeft := e.cfg.Side == SideLeft
	for line, y := range VisibleLines(s) {
		n := line + 1
		if !e.provider.LabelVisible(n) {
			continue
		}
		x := PositionX(line, e.cfg, e.res, s)
		c.DrawText(e.provider.LabelText(onLeft, n), float64(x), float64(y), e.style)
	}
}

// Config returns the current side and hug mode.
func (e *Engine) Config() Config { return e.cfg }

// Side returns the margin side.
func (e *Engine) Side() Side { return e.cfg.Side }

// SetSide moves the margin to side.
func (e *Engine) SetSide(side Side) {
	if side == e.cfg.Side {
		return
	}
	e.cfg.Side = side
	e.queueRecompute(true)
}

// Hug reports whether labels hug the text edge.
func (e *Engine) Hug() bool { return e.cfg.Hug }

// SetHug switches between the fixed column and hugging the text edge.
func (e *Engine) SetHug(hug bool) {
	if hug == e.cfg.Hug {
		return
	}
	e.cfg.Hug = hug
	if e.state == stateReady {
		e.host.Invalidate()
	}
}

// LabelStyle returns the label paint. Before setup it is the zero Style
// unless WithStyle was given.
func (e *Engine) LabelStyle() Style { return e.style }

// SetLabelColor changes the label color.
func (e *Engine) SetLabelColor(c layout.Color) {
	e.whenReady(func() {
		if c == e.style.Color {
			return
		}
		e.style.Color = c
		e.host.Invalidate()
	})
}

// SetLabelTypeface changes the label typeface.
func (e *Engine) SetLabelTypeface(typeface string) {
	e.whenReady(func() {
		if typeface == e.style.Typeface {
			return
		}
		e.style.Typeface = typeface
		e.host.Invalidate()
	})
}

// SetLabelSize changes the label size in pixels.
func (e *Engine) SetLabelSize(size float64) {
	e.whenReady(func() {
		if size == e.style.Size {
			return
		}
		e.style.Size = size
		e.host.Invalidate()
	})
}

// LabelProvider returns the current provider.
func (e *Engine) LabelProvider() LabelProvider { return e.provider }

// SetLabelProvider replaces the provider and resizes the margin for its
// labels. A nil provider is rejected with ErrNilProvider.
func (e *Engine) SetLabelProvider(p LabelProvider) error {
	if p == nil {
		return ErrNilProvider
	}
	e.provider = p
	e.queueRecompute(true)
	return nil
}

// Reservation returns the current padding bookkeeping.
func (e *Engine) Reservation() Reservation { return e.res }

// EffectivePadding returns the padding last handed to the host.
func (e *Engine) EffectivePadding() layout.Padding {
	if !e.hasApplied {
		return e.res.Effective(e.cfg.Side, e.top, e.bottom)
	}
	return e.applied
}
