package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/linenum/fonts"
	"github.com/ByLCY/linenum/gutter"
	"github.com/ByLCY/linenum/layout"
	"github.com/ByLCY/linenum/renderer"
	"github.com/ByLCY/linenum/textview"
)

// Renderer lays out, measures and paints text with github.com/tdewolff/canvas.
//
// One canvas unit is one pixel: the rasterizer runs at one dot per canvas
// unit times Scale, and font sizes in pixels are handed to canvas as points
// via layout.MmToPt.
type Renderer struct {
	baseDir string
	scale   float64

	// injected resources
	fontBlobs map[string][]byte

	fontMu         sync.Mutex
	fonts          map[string]layout.FontResource // by typeface name
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ textview.Backend  = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // fonts accessible via built-in:<name>
	// Scale multiplies the output resolution; 0 means 1.
	Scale float64
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving fonts.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		scale:        opts.Scale,
		fontBlobs:    map[string][]byte{},
		fonts:        map[string]layout.FontResource{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // ignore error here; will be caught when actually used
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// RegisterFont makes font available to Style.Typeface under font.Name.
func (r *Renderer) RegisterFont(font layout.FontResource) error {
	if font.Name == "" {
		return fmt.Errorf("字体缺少名称")
	}
	if _, _, err := r.ensureFontFamily(font); err != nil {
		return fmt.Errorf("注册字体 %s 失败: %w", font.Name, err)
	}
	r.fontMu.Lock()
	r.fonts[font.Name] = font
	r.fontMu.Unlock()
	return nil
}

// Render paints the view into a PNG.
func (r *Renderer) Render(view *textview.TextView) ([]byte, error) {
	if view == nil {
		return nil, fmt.Errorf("渲染视图为空")
	}
	w, h := view.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("视图尺寸无效: %dx%d", w, h)
	}
	surface := r.NewSurface(w, h, view.Background())
	if err := view.Draw(surface); err != nil {
		return nil, err
	}
	if err := surface.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface.Image()); err != nil {
		return nil, fmt.Errorf("写入 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// LayoutLines 实现 layout.Typesetter 接口，使用 layout.Wrap 的贪心换行。
// 约定：width/fontSize/lineHeight 均为像素；字体面需要 pt，在边界做 px→pt 换算。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, fontSize, layout.Color{R: 30, G: 30, B: 30})
	if err != nil {
		return nil, err
	}

	lines := layout.Wrap(content, width, face.TextWidth, wrap)
	textMetrics := face.Metrics()
	textHeight := textMetrics.LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := max(lineHeight-textHeight, 0)
	for i := range lines {
		lines[i].Height = textHeight
		lines[i].Ascent = textMetrics.Ascent
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// MeasureText implements gutter.Measurer.
func (r *Renderer) MeasureText(style gutter.Style, text string) float64 {
	face, err := r.styleFace(style)
	if err != nil {
		return 0
	}
	return face.TextWidth(text)
}

func (r *Renderer) styleFace(style gutter.Style) (*canvas.FontFace, error) {
	r.fontMu.Lock()
	font, ok := r.fonts[style.Typeface]
	r.fontMu.Unlock()
	if !ok {
		// 未注册的字体名按内置字体处理
		font = layout.FontResource{Name: style.Typeface, Src: "embed:" + style.Typeface}
	}
	size := style.Size
	if size <= 0 {
		size = 16
	}
	return r.fontFace(font, size, style.Color)
}

func (r *Renderer) fontFace(font layout.FontResource, sizePX float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(toPt(sizePX), colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback(font)
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	src := font.Src
	if src == "" {
		src = "embed:" + fonts.Default
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

// fallback 优先使用资源声明的 fallback，其次是内置等宽字体。
// 调用方需持有 fontMu。
func (r *Renderer) fallback(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	if font.Fallback != "" {
		if data, err := fonts.Load("embed:" + font.Fallback); err == nil {
			family := canvas.NewFontFamily(font.Fallback)
			if err := family.LoadFont(data, 0, canvas.FontRegular); err == nil {
				return family, canvas.FontRegular, nil
			}
		}
	}
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Builtin(fonts.Default)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("linenum-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将像素（即画布单位）转换为字体面使用的点(pt)。
func toPt(px float64) float64 { return px * layout.MmToPt }
