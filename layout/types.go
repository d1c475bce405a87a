package layout

import (
	"fmt"
	"strings"
)

// 该文件定义宿主文本视图与行号覆盖层共用的几何与资源描述，所有长度单位均为像素（px）。

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Black is the default label color.
var Black = Color{}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(c.R), clampByte(c.G), clampByte(c.B))
}

// ParseColor 解析 #rgb、#rrggbb 或 #rrggbbaa（忽略 alpha）。
func ParseColor(value string) (Color, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(value) {
	case 3:
		r, g, b := strings.Repeat(value[0:1], 2), strings.Repeat(value[1:2], 2), strings.Repeat(value[2:3], 2)
		return hexColor(r, g, b)
	case 6, 8:
		return hexColor(value[0:2], value[2:4], value[4:6])
	default:
		return Color{}, fmt.Errorf("颜色值 #%s 无法解析", value)
	}
}

func hexColor(r, g, b string) (Color, error) {
	var c Color
	if _, err := fmt.Sscanf(r+g+b, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("颜色值 #%s%s%s 无法解析: %w", r, g, b, err)
	}
	return c, nil
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Padding 以像素为单位记录四个方向的内边距。
type Padding struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Horizontal returns Left+Right.
func (p Padding) Horizontal() int { return p.Left + p.Right }

// Vertical returns Top+Bottom.
func (p Padding) Vertical() int { return p.Top + p.Bottom }

// FontResource 描述字体资源，src 可以是文件路径、embed:<name> 或 builtin:<name> 形式。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`
	Family   string `json:"family"`   // 渲染器使用的 Family 名称
	Fallback string `json:"fallback"` // 加载失败时使用的字体
}

// TextLine 表示排版后的一行文本内容及其宽高。
// Ascent 为基线到行顶部的距离，GapBefore 为行前额外留白（行距）。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Ascent    float64 `json:"ascent"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// Align is the horizontal alignment (gravity) of text lines inside the content area.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ParseAlign accepts left/start, center/middle and right/end; anything else is left.
func ParseAlign(v string) Align {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	default:
		return AlignLeft
	}
}

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Next cycles left → center → right → left.
func (a Align) Next() Align {
	return (a + 1) % 3
}

// LineExtents 返回宽度为 width 的行在容器内的左右边界（相对于内容区左边缘）。
func LineExtents(container, width float64, align Align) (left, right float64) {
	offset := 0.0
	if container > width {
		switch align {
		case AlignCenter:
			offset = (container - width) / 2
		case AlignRight:
			offset = container - width
		}
	}
	return offset, offset + width
}
