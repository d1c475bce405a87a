// Package termrenderer draws a text view as a grid of terminal cells.
//
// One cell is one pixel to the layout: every line is one row high, widths are
// display columns, and baselines sit on the row itself.
package termrenderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/ByLCY/linenum/gutter"
	"github.com/ByLCY/linenum/layout"
	"github.com/ByLCY/linenum/renderer"
	"github.com/ByLCY/linenum/textview"
)

// Renderer is the terminal backend: typesetter, measurer and renderer.
type Renderer struct {
	styles *lipgloss.Renderer
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ textview.Backend  = (*Renderer)(nil)
)

// New returns a renderer that colors through styles; nil uses lipgloss'
// default renderer for stdout.
func New(styles *lipgloss.Renderer) *Renderer {
	if styles == nil {
		styles = lipgloss.DefaultRenderer()
	}
	return &Renderer{styles: styles}
}

// LayoutLines wraps by display width. Font, size and line height are
// ignored: every line is one row.
func (r *Renderer) LayoutLines(content string, width float64, _ layout.FontResource, _, _ float64, wrap string) ([]layout.TextLine, error) {
	lines := layout.Wrap(expandTabs(content), width, cellWidth, wrap)
	for i := range lines {
		lines[i].Height = 1
	}
	return lines, nil
}

// MeasureText implements gutter.Measurer in columns.
func (r *Renderer) MeasureText(_ gutter.Style, text string) float64 { return cellWidth(text) }

// RegisterFont accepts any font; terminals have one.
func (r *Renderer) RegisterFont(layout.FontResource) error { return nil }

// Render draws the view and returns its rows joined by newlines.
func (r *Renderer) Render(view *textview.TextView) ([]byte, error) {
	if view == nil {
		return nil, fmt.Errorf("渲染视图为空")
	}
	w, h := view.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("视图尺寸无效: %dx%d", w, h)
	}
	g := r.NewGrid(w, h)
	if err := view.Draw(g); err != nil {
		return nil, err
	}
	return []byte(g.String()), nil
}

func cellWidth(s string) float64 { return float64(uniseg.StringWidth(s)) }

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

type cell struct {
	text  string // grapheme cluster; "" marks the tail of a wide cluster
	color *layout.Color
}

type gridState struct {
	dx, dy float64
	clip   *gutter.Rect
}

// Grid is a gutter.Canvas over terminal cells.
type Grid struct {
	r      *Renderer
	width  int
	height int
	cells  [][]cell

	cur   gridState
	stack []gridState
}

var _ gutter.Canvas = (*Grid)(nil)

// NewGrid returns a blank width×height grid.
func (r *Renderer) NewGrid(width, height int) *Grid {
	g := &Grid{r: r, width: width, height: height, cells: make([][]cell, height)}
	for y := range g.cells {
		row := make([]cell, width)
		for x := range row {
			row[x].text = " "
		}
		g.cells[y] = row
	}
	return g
}

func (g *Grid) Save() { g.stack = append(g.stack, g.cur) }

func (g *Grid) Restore() {
	if len(g.stack) == 0 {
		return
	}
	g.cur = g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
}

func (g *Grid) Translate(dx, dy float64) {
	g.cur.dx += dx
	g.cur.dy += dy
}

func (g *Grid) ClipRect(r gutter.Rect) {
	abs := r.Offset(g.cur.dx, g.cur.dy)
	if g.cur.clip != nil {
		abs = g.cur.clip.Intersect(abs)
	}
	g.cur.clip = &abs
}

// DrawText writes text starting at column x on row y. Clusters are kept
// whole: a wide cluster is dropped if any of its cells is clipped.
func (g *Grid) DrawText(text string, x, y float64, style gutter.Style) {
	row := int(math.Round(y + g.cur.dy))
	if row < 0 || row >= g.height {
		return
	}
	col := int(math.Round(x + g.cur.dx))
	color := style.Color
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w := gr.Width()
		if w == 0 {
			continue
		}
		if g.visible(col, row, w) {
			g.cells[row][col] = cell{text: gr.Str(), color: &color}
			for i := 1; i < w; i++ {
				g.cells[row][col+i] = cell{color: &color}
			}
		}
		col += w
	}
}

func (g *Grid) visible(col, row, w int) bool {
	if col < 0 || col+w > g.width {
		return false
	}
	if g.cur.clip == nil {
		return true
	}
	return g.cur.clip.Contains(float64(col), float64(row)) &&
		g.cur.clip.Contains(float64(col+w-1), float64(row))
}

// Plain returns the rows without styling, trailing blanks trimmed.
func (g *Grid) Plain() string {
	rows := make([]string, g.height)
	for y, row := range g.cells {
		var b strings.Builder
		for _, c := range row {
			b.WriteString(c.text)
		}
		rows[y] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(rows, "\n")
}

// String returns the rows with each run of equally colored cells styled
// through lipgloss. Trailing untouched cells are dropped.
func (g *Grid) String() string {
	rows := make([]string, g.height)
	for y, row := range g.cells {
		end := len(row)
		for end > 0 && row[end-1].color == nil && row[end-1].text == " " {
			end--
		}
		row = row[:end]
		var b, run strings.Builder
		var runColor *layout.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == nil {
				b.WriteString(run.String())
			} else {
				b.WriteString(g.r.styles.NewStyle().Foreground(lipgloss.Color(runColor.Hex())).Render(run.String()))
			}
			run.Reset()
		}
		for _, c := range row {
			if !sameColor(c.color, runColor) {
				flush()
				runColor = c.color
			}
			run.WriteString(c.text)
		}
		flush()
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}

func sameColor(a, b *layout.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
