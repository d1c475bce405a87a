package textview

import (
	"log/slog"

	"github.com/ByLCY/linenum/gutter"
	"github.com/ByLCY/linenum/layout"
)

// Option configures a TextView at construction.
type Option func(*TextView)

// WithSize sets the view size in pixels.
func WithSize(width, height int) Option {
	return func(tv *TextView) { tv.width, tv.height = width, height }
}

// WithPadding sets the caller's padding.
func WithPadding(p layout.Padding) Option {
	return func(tv *TextView) { tv.user = p }
}

// WithFont sets the text font and its size in pixels.
func WithFont(font layout.FontResource, sizePX float64) Option {
	return func(tv *TextView) {
		tv.font = font
		if sizePX > 0 {
			tv.fontSize = sizePX
		}
	}
}

func WithLineHeight(lh layout.LineHeightSpec) Option {
	return func(tv *TextView) { tv.lineHeight = lh }
}

func WithWrap(mode string) Option {
	return func(tv *TextView) { tv.wrap = layout.NormalizeWrap(mode) }
}

func WithColor(c layout.Color) Option {
	return func(tv *TextView) { tv.color = c }
}

func WithBackground(c layout.Color) Option {
	return func(tv *TextView) { tv.background = c }
}

func WithAlign(a layout.Align) Option {
	return func(tv *TextView) { tv.align = a }
}

// WithShadow sets the text shadow and its color.
func WithShadow(s gutter.Shadow, color layout.Color) Option {
	return func(tv *TextView) { tv.shadow, tv.shadowColor = s, color }
}

// WithLogger sets the logger used by the view and its gutter.
func WithLogger(l *slog.Logger) Option {
	return func(tv *TextView) {
		if l != nil {
			tv.logger = l
		}
	}
}

// WithGutter passes options to the attached gutter engine.
func WithGutter(opts ...gutter.Option) Option {
	return func(tv *TextView) { tv.gutterOpts = append(tv.gutterOpts, opts...) }
}
