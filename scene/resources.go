package scene

import (
	"fmt"
	"strings"

	"github.com/ByLCY/linenum/dsl"
	"github.com/ByLCY/linenum/fonts"
	"github.com/ByLCY/linenum/layout"
)

// Resources are the named fonts and colors declared by a scene.
type Resources struct {
	Fonts  map[string]layout.FontResource `json:"fonts"`
	Colors map[string]layout.Color        `json:"colors"`
}

// DefaultFont is registered when a scene declares no fonts.
var DefaultFont = layout.FontResource{
	Name:   "Mono",
	Family: "Mono",
	Src:    "embed:" + fonts.Default,
}

func collectResources(doc *dsl.Document) (Resources, error) {
	res := Resources{
		Fonts:  map[string]layout.FontResource{},
		Colors: map[string]layout.Color{},
	}
	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			switch stmt.Command.Name {
			case "font":
				font := parseFontResource(stmt.Command)
				if font.Name == "" {
					return res, fmt.Errorf("%s: font 资源缺少名称", stmt.Command.Pos)
				}
				res.Fonts[font.Name] = font
			case "color":
				name, value := parseColorResource(stmt.Command)
				if name == "" || value == "" {
					return res, fmt.Errorf("%s: color 资源需要名称和值", stmt.Command.Pos)
				}
				c, err := layout.ParseColor(value)
				if err != nil {
					return res, fmt.Errorf("%s: color %s: %w", stmt.Command.Pos, name, err)
				}
				res.Colors[name] = c
			default:
				return res, fmt.Errorf("%s: 未知的资源类型 %q", stmt.Command.Pos, stmt.Command.Name)
			}
		}
	}
	if len(res.Fonts) == 0 {
		res.Fonts[DefaultFont.Name] = DefaultFont
	}
	return res, nil
}

// firstFont returns the alphabetically first font so the choice does not
// depend on map order.
func (r Resources) firstFont() layout.FontResource {
	var best string
	for name := range r.Fonts {
		if best == "" || name < best {
			best = name
		}
	}
	return r.Fonts[best]
}

func parseFontResource(cmd *dsl.Command) layout.FontResource {
	if len(cmd.Args) == 0 {
		return layout.FontResource{}
	}
	font := layout.FontResource{Name: cmd.Args[0].Value, Family: cmd.Args[0].Value}
	if cmd.Block == nil {
		font.Src = "embed:" + font.Name
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		val := valueToString(stmt.Assignment.Value)
		switch stmt.Assignment.Key {
		case "src":
			font.Src = val
		case "style":
			font.Style = val
		case "family":
			font.Family = val
		case "fallback":
			font.Fallback = strings.TrimPrefix(val, "embed:")
		}
	}
	return font
}

// parseColorResource reads `color Name = #rrggbb` or `color Name #rrggbb`.
func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

// resolveColor accepts a declared color name or a hex literal.
func (r Resources) resolveColor(value string) (layout.Color, error) {
	if c, ok := r.Colors[value]; ok {
		return c, nil
	}
	if strings.HasPrefix(value, "#") {
		return layout.ParseColor(value)
	}
	return layout.Color{}, fmt.Errorf("未定义的颜色 %q", value)
}

func (r Resources) resolveFont(name string) (layout.FontResource, error) {
	if f, ok := r.Fonts[name]; ok {
		return f, nil
	}
	return layout.FontResource{}, fmt.Errorf("未定义的字体 %q", name)
}

func collectMeta(doc *dsl.Document) map[string]any {
	meta := map[string]any{"name": doc.Name, "version": doc.Version}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			meta[stmt.Assignment.Key] = metaValue(stmt.Assignment.Value)
		}
	}
	return meta
}

func metaValue(val *dsl.Value) any {
	switch {
	case val == nil:
		return ""
	case val.Array != nil:
		out := make([]any, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			out = append(out, metaValue(item))
		}
		return out
	case val.Object != nil:
		out := make(map[string]any, len(val.Object.Entries))
		for _, e := range val.Object.Entries {
			out[e.Key] = metaValue(e.Value)
		}
		return out
	default:
		return valueToString(val)
	}
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		return val.Expr.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if val.String != nil {
		return []string{string(*val.String)}
	}
	return strings.Fields(valueToString(val))
}
