package canvasrenderer

import (
	"image"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/draw"

	"github.com/ByLCY/linenum/gutter"
	"github.com/ByLCY/linenum/layout"
)

// Surface is a gutter.Canvas backed by tdewolff/canvas.
//
// canvas has no clip stack, so every run of draws under the same clip goes
// into its own layer; Image rasterizes the layers and composites each one
// through its clip rectangle.
type Surface struct {
	r          *Renderer
	width      int
	height     int
	background layout.Color

	cur    surfaceState
	stack  []surfaceState
	layers []*surfaceLayer
	err    error
}

type surfaceState struct {
	dx, dy float64
	clip   *gutter.Rect
}

type surfaceLayer struct {
	clip *gutter.Rect
	c    *canvas.Canvas
	ctx  *canvas.Context
}

var _ gutter.Canvas = (*Surface)(nil)

// NewSurface creates a width×height pixel surface filled with background.
func (r *Renderer) NewSurface(width, height int, background layout.Color) *Surface {
	return &Surface{r: r, width: width, height: height, background: background}
}

func (s *Surface) Save() { s.stack = append(s.stack, s.cur) }

func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.cur = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *Surface) Translate(dx, dy float64) {
	s.cur.dx += dx
	s.cur.dy += dy
}

func (s *Surface) ClipRect(r gutter.Rect) {
	abs := r.Offset(s.cur.dx, s.cur.dy)
	if s.cur.clip != nil {
		abs = s.cur.clip.Intersect(abs)
	}
	s.cur.clip = &abs
}

func (s *Surface) DrawText(text string, x, y float64, style gutter.Style) {
	if text == "" || s.err != nil {
		return
	}
	if s.cur.clip != nil && s.cur.clip.Empty() {
		return
	}
	face, err := s.r.styleFace(style)
	if err != nil {
		s.err = err
		return
	}
	l := s.layer()
	l.ctx.DrawText(x+s.cur.dx, y+s.cur.dy, canvas.NewTextLine(face, text, canvas.Left))
}

// Err returns the first font error met while drawing.
func (s *Surface) Err() error { return s.err }

func (s *Surface) layer() *surfaceLayer {
	if n := len(s.layers); n > 0 && sameClip(s.layers[n-1].clip, s.cur.clip) {
		return s.layers[n-1]
	}
	c := canvas.New(float64(s.width), float64(s.height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与视图保持左上角为原点
	l := &surfaceLayer{clip: s.cur.clip, c: c, ctx: ctx}
	s.layers = append(s.layers, l)
	return l
}

func sameClip(a, b *gutter.Rect) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Image rasterizes and composites all layers over the background.
func (s *Surface) Image() *image.RGBA {
	scale := s.r.scale
	bounds := image.Rect(0, 0, int(math.Ceil(float64(s.width)*scale)), int(math.Ceil(float64(s.height)*scale)))
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(colorFromLayout(s.background)), image.Point{}, draw.Src)

	for _, l := range s.layers {
		img := rasterizer.Draw(l.c, canvas.DPMM(scale), canvas.DefaultColorSpace)
		area := img.Bounds().Intersect(bounds)
		if l.clip != nil {
			area = area.Intersect(pixelRect(*l.clip, scale))
		}
		if area.Empty() {
			continue
		}
		draw.Draw(out, area, img, area.Min, draw.Over)
	}
	return out
}

// pixelRect rounds a clip outward to whole device pixels.
func pixelRect(r gutter.Rect, scale float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Left*scale)),
		int(math.Floor(r.Top*scale)),
		int(math.Ceil(r.Right*scale)),
		int(math.Ceil(r.Bottom*scale)),
	)
}
