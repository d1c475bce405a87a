// Package scene turns a parsed scene file into a ready TextView with its
// gutter configured, fonts registered and initial scroll applied.
package scene

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ByLCY/linenum/binding"
	"github.com/ByLCY/linenum/dsl"
	"github.com/ByLCY/linenum/gutter"
	"github.com/ByLCY/linenum/layout"
	"github.com/ByLCY/linenum/textview"
)

// Backend is a text view backend that also accepts font registrations.
type Backend interface {
	textview.Backend
	RegisterFont(font layout.FontResource) error
}

// Options 控制场景构建。
type Options struct {
	// BaseDir resolves `content src` paths; Load defaults it to the scene's directory.
	BaseDir string
	Logger  *slog.Logger
	// Width and Height override the viewport size when positive.
	Width  int
	Height int
}

// Scene is a built view plus what the file declared.
type Scene struct {
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	Meta      map[string]any `json:"meta"`
	Resources Resources      `json:"resources"`

	View *textview.TextView `json:"-"`
}

var (
	viewportKeys = map[string]int{
		"size": 2, "padding": 1, "align": 1, "scroll": 2, "font": 1,
		"font-size": 1, "line-height": 1, "wrap": 1, "color": 1,
		"background": 1, "shadow": 3,
	}
	gutterKeys = map[string]int{
		"side": 1, "hug": 0, "color": 1, "size": 1, "font": 1,
		"format": 1, "style": 1, "anchor": 1, "hide": 1, "bound": 1,
	}
	contentKeys = map[string]int{"src": 1}
)

// Load parses the scene at path and builds it.
func Load(path string, backend Backend, opts Options) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开场景文件失败: %w", err)
	}
	defer f.Close()

	doc, err := dsl.Parse(path, f)
	if err != nil {
		return nil, fmt.Errorf("解析场景失败: %w", err)
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}
	return Build(doc, backend, opts)
}

// Build creates the view described by doc. The gutter's deferred setup has
// already run when Build returns, so the margin is reserved and the initial
// scroll is clamped against the final layout.
func Build(doc *dsl.Document, backend Backend, opts Options) (*Scene, error) {
	if doc == nil {
		return nil, fmt.Errorf("场景文档为空")
	}
	if backend == nil {
		return nil, fmt.Errorf("scene: 缺少渲染后端")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(res.Fonts))
	for name := range res.Fonts {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := backend.RegisterFont(res.Fonts[name]); err != nil {
			return nil, err
		}
	}

	var vp, gp, cp params = params{}, params{}, params{}
	for _, section := range doc.Sections {
		var err error
		switch {
		case section.Viewport != nil:
			err = collectSection(vp, section.Viewport.Params, section.Viewport.Block, viewportKeys)
		case section.Gutter != nil:
			err = collectSection(gp, section.Gutter.Params, section.Gutter.Block, gutterKeys)
		case section.Content != nil:
			err = collectSection(cp, section.Content.Params, nil, contentKeys)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", section.Kind(), err)
		}
	}

	meta := collectMeta(doc)
	text, err := buildContent(doc, cp, meta, opts.BaseDir)
	if err != nil {
		return nil, err
	}

	viewOpts, textStyle, err := viewportOptions(vp, res, opts)
	if err != nil {
		return nil, fmt.Errorf("viewport: %w", err)
	}
	gutterOpts, labels, err := gutterOptions(gp, res, textStyle)
	if err != nil {
		return nil, fmt.Errorf("gutter: %w", err)
	}
	viewOpts = append(viewOpts, textview.WithLogger(logger), textview.WithGutter(gutterOpts...))

	tv, err := textview.New(backend, text, viewOpts...)
	if err != nil {
		return nil, err
	}
	if labels != nil {
		labels.WithTotal(tv.LineCount)
		logger.Debug("label template", "format", labels.Source())
	}
	tv.RunPosted()
	if vp.has("scroll") {
		x, _ := vp.intAt("scroll", 0)
		y, _ := vp.intAt("scroll", 1)
		tv.ScrollTo(x, y)
	}
	logger.Debug("scene built", "name", doc.Name, "lines", tv.LineCount(), "side", tv.Gutter().Side())

	return &Scene{
		Name:      doc.Name,
		Version:   doc.Version,
		Meta:      meta,
		Resources: res,
		View:      tv,
	}, nil
}

func collectSection(into params, args []*dsl.Lexeme, block *dsl.Block, keys map[string]int) error {
	p, err := parseParams(args, keys)
	if err != nil {
		return err
	}
	if err := p.mergeBlock(block, keys); err != nil {
		return err
	}
	for k, v := range p {
		into[k] = v
	}
	return nil
}

// buildContent joins inline literals with newlines and fills ${...} from
// meta. Text read through `src` is used as is, minus one trailing newline.
func buildContent(doc *dsl.Document, cp params, meta map[string]any, baseDir string) (string, error) {
	var literals []string
	for _, section := range doc.Sections {
		if section.Content == nil || section.Content.Block == nil {
			continue
		}
		for _, stmt := range section.Content.Block.Statements {
			if stmt.Text == nil {
				return "", fmt.Errorf("%s: content 只接受字符串", section.Content.Pos)
			}
			literals = append(literals, binding.Interpolate(string(stmt.Text.Value), meta))
		}
	}
	if !cp.has("src") {
		return strings.Join(literals, "\n"), nil
	}
	if len(literals) > 0 {
		return "", fmt.Errorf("content 不能同时使用 src 和字符串")
	}
	path := cp.first("src")
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取内容文件失败: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func viewportOptions(vp params, res Resources, opts Options) ([]textview.Option, gutter.Style, error) {
	font := res.firstFont()
	if vp.has("font") {
		f, err := res.resolveFont(vp.first("font"))
		if err != nil {
			return nil, gutter.Style{}, err
		}
		font = f
	}
	style := gutter.Style{Typeface: font.Name, Size: 16}
	if vp.has("font-size") {
		px, err := vp.px("font-size")
		if err != nil {
			return nil, style, err
		}
		style.Size = px
	}
	out := []textview.Option{textview.WithFont(font, style.Size)}

	if vp.has("size") {
		w, err := vp.intAt("size", 0)
		if err != nil {
			return nil, style, err
		}
		h, err := vp.intAt("size", 1)
		if err != nil {
			return nil, style, err
		}
		out = append(out, textview.WithSize(w, h))
	}
	if opts.Width > 0 && opts.Height > 0 {
		out = append(out, textview.WithSize(opts.Width, opts.Height))
	}
	if vp.has("padding") {
		p, err := vp.padding("padding")
		if err != nil {
			return nil, style, err
		}
		out = append(out, textview.WithPadding(p))
	}
	if vp.has("align") {
		out = append(out, textview.WithAlign(layout.ParseAlign(vp.first("align"))))
	}
	if vp.has("scroll") {
		for i := range 2 {
			if _, err := vp.intAt("scroll", i); err != nil {
				return nil, style, err
			}
		}
	}
	if vp.has("line-height") {
		lh, ok := layout.ParseLineHeight(vp.first("line-height"))
		if !ok {
			return nil, style, fmt.Errorf("line-height: 无法解析 %q", vp.first("line-height"))
		}
		out = append(out, textview.WithLineHeight(lh))
	}
	if vp.has("wrap") {
		out = append(out, textview.WithWrap(vp.first("wrap")))
	}
	if vp.has("color") {
		c, err := res.resolveColor(vp.first("color"))
		if err != nil {
			return nil, style, err
		}
		style.Color = c
		out = append(out, textview.WithColor(c))
	}
	if vp.has("background") {
		c, err := res.resolveColor(vp.first("background"))
		if err != nil {
			return nil, style, err
		}
		out = append(out, textview.WithBackground(c))
	}
	if vp.has("shadow") {
		opt, err := shadowOption(vp, res)
		if err != nil {
			return nil, style, err
		}
		out = append(out, opt)
	}
	return out, style, nil
}

// shadowOption reads `shadow radius dx dy [color]`.
func shadowOption(vp params, res Resources) (textview.Option, error) {
	vals := vp["shadow"]
	nums := make([]float64, 3)
	for i := range nums {
		f, err := strconv.ParseFloat(strings.TrimSuffix(vals[i], "px"), 64)
		if err != nil {
			return nil, fmt.Errorf("shadow: 无法解析数值 %q", vals[i])
		}
		nums[i] = f
	}
	col := layout.Color{R: 128, G: 128, B: 128}
	if len(vals) > 3 {
		c, err := res.resolveColor(vals[3])
		if err != nil {
			return nil, err
		}
		col = c
	}
	return textview.WithShadow(gutter.Shadow{Radius: nums[0], Dx: nums[1], Dy: nums[2]}, col), nil
}

// gutterOptions returns the engine options and, when labels come from a
// template, the template so the caller can bind ${total} to the view.
func gutterOptions(gp params, res Resources, text gutter.Style) ([]gutter.Option, *binding.LabelTemplate, error) {
	var out []gutter.Option

	var cfg gutter.Config
	if gp.has("side") {
		side, ok := gutter.ParseSide(gp.first("side"))
		if !ok {
			return nil, nil, fmt.Errorf("side: 只接受 left 或 right，得到 %q", gp.first("side"))
		}
		cfg.Side = side
	}
	if gp.has("hug") {
		hug, err := gp.boolean("hug")
		if err != nil {
			return nil, nil, err
		}
		cfg.Hug = hug
	}
	out = append(out, gutter.WithConfig(cfg))

	style, styled := text, false
	if gp.has("color") {
		c, err := res.resolveColor(gp.first("color"))
		if err != nil {
			return nil, nil, err
		}
		style.Color, styled = c, true
	}
	if gp.has("font") {
		f, err := res.resolveFont(gp.first("font"))
		if err != nil {
			return nil, nil, err
		}
		style.Typeface, styled = f.Name, true
	}
	if gp.has("size") {
		px, err := gp.px("size")
		if err != nil {
			return nil, nil, err
		}
		style.Size, styled = px, true
	}
	if styled {
		out = append(out, gutter.WithStyle(style))
	}

	switch gp.first("bound") {
	case "", "last":
	case "safe", "widest":
		out = append(out, gutter.WithSafeUpperBound())
	default:
		return nil, nil, fmt.Errorf("bound: 只接受 last 或 safe，得到 %q", gp.first("bound"))
	}

	var hidden []gutter.LineRange
	if gp.has("hide") {
		ranges, err := gutter.ParseLineRanges(strings.Join(gp["hide"], ","))
		if err != nil {
			return nil, nil, fmt.Errorf("hide: %w", err)
		}
		hidden = ranges
	}

	if gp.has("format") {
		if gp.has("style") {
			return nil, nil, fmt.Errorf("format 与 style 不能同时使用")
		}
		tmpl, err := binding.Compile(gp.first("format"))
		if err != nil {
			return nil, nil, fmt.Errorf("format: %w", err)
		}
		tmpl.Hide(hidden...)
		return append(out, gutter.WithProvider(tmpl)), tmpl, nil
	}

	provider, err := builtinProvider(gp)
	if err != nil {
		return nil, nil, err
	}
	if len(hidden) > 0 {
		provider = gutter.Hidden{LabelProvider: provider, Ranges: hidden}
	}
	return append(out, gutter.WithProvider(provider)), nil, nil
}

func builtinProvider(gp params) (gutter.LabelProvider, error) {
	switch name := gp.first("style"); name {
	case "", "decimal":
		return gutter.Decimal{}, nil
	case "hex", "HEX":
		return gutter.Hex{Upper: name == "HEX"}, nil
	case "relative":
		anchor := 1
		if gp.has("anchor") {
			a, err := gp.intAt("anchor", 0)
			if err != nil {
				return nil, err
			}
			anchor = a
		}
		return gutter.Relative{Anchor: anchor}, nil
	default:
		return nil, fmt.Errorf("style: 未知的行号样式 %q", name)
	}
}
