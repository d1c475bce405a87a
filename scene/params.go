package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/linenum/dsl"
	"github.com/ByLCY/linenum/layout"
)

// params maps a section keyword to the values that follow it, eg
// `size 480 320 padding 8px` gives {size: [480 320], padding: [8px]}.
type params map[string][]string

// parseParams groups loose section arguments under the known keys. A '-'
// symbol is folded into the number after it.
func parseParams(args []*dsl.Lexeme, keys map[string]int) (params, error) {
	out := params{}
	var key string
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if _, ok := keys[tok.Value]; ok && tok.Type == "Ident" {
			key = tok.Value
			out[key] = nil
			continue
		}
		if key == "" {
			return nil, fmt.Errorf("%s: 未知的参数 %q", tok.Pos, tok.Value)
		}
		val := tok.Value
		if tok.Raw == "-" && i+1 < len(args) && args[i+1].Type == "Number" {
			i++
			val = "-" + args[i].Value
		}
		out[key] = append(out[key], val)
	}
	return out, out.check(keys)
}

// mergeBlock adds `key: value` assignments from an optional block.
func (p params) mergeBlock(block *dsl.Block, keys map[string]int) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			return fmt.Errorf("只接受 key: value 形式的属性")
		}
		key := stmt.Assignment.Key
		if _, ok := keys[key]; !ok {
			return fmt.Errorf("未知的属性 %q", key)
		}
		p[key] = valueToStringSlice(stmt.Assignment.Value)
	}
	return p.check(keys)
}

// check enforces the minimum value count of each key.
func (p params) check(keys map[string]int) error {
	for key, vals := range p {
		if n := keys[key]; len(vals) < n {
			return fmt.Errorf("%s 需要至少 %d 个值", key, n)
		}
	}
	return nil
}

func (p params) has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p params) first(key string) string {
	if vals := p[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func (p params) intAt(key string, idx int) (int, error) {
	vals := p[key]
	if idx >= len(vals) {
		return 0, fmt.Errorf("%s 缺少第 %d 个值", key, idx+1)
	}
	l, ok := layout.ParseLength(vals[idx])
	if !ok {
		return 0, fmt.Errorf("%s: 无法解析数值 %q", key, vals[idx])
	}
	return int(l.ToPX()), nil
}

func (p params) px(key string) (float64, error) {
	l, ok := layout.ParseLength(p.first(key))
	if !ok {
		return 0, fmt.Errorf("%s: 无法解析长度 %q", key, p.first(key))
	}
	return l.ToPX(), nil
}

func (p params) boolean(key string) (bool, error) {
	v := p.first(key)
	if v == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return false, fmt.Errorf("%s: 无法解析布尔值 %q", key, v)
	}
	return b, nil
}

// padding applies CSS shorthand: 1 value for all sides, 2 for
// vertical/horizontal, 3 for top/horizontal/bottom, 4 for top/right/bottom/left.
func (p params) padding(key string) (layout.Padding, error) {
	vals := make([]int, 0, 4)
	for i := range min(len(p[key]), 4) {
		v, err := p.intAt(key, i)
		if err != nil {
			return layout.Padding{}, err
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 1:
		v := vals[0]
		return layout.Padding{Left: v, Top: v, Right: v, Bottom: v}, nil
	case 2:
		return layout.Padding{Left: vals[1], Top: vals[0], Right: vals[1], Bottom: vals[0]}, nil
	case 3:
		return layout.Padding{Left: vals[1], Top: vals[0], Right: vals[1], Bottom: vals[2]}, nil
	case 4:
		return layout.Padding{Left: vals[3], Top: vals[0], Right: vals[1], Bottom: vals[2]}, nil
	}
	return layout.Padding{}, fmt.Errorf("%s 缺少数值", key)
}
