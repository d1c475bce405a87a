package binding

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/ByLCY/linenum/gutter"
)

// 模板变量
const (
	VarLine  = "n"
	VarSide  = "side"
	VarTotal = "total"
)

// LabelTemplate 是由 "${n|pad:3}" 形式的模板编译得到的标签提供者。
//
// 支持的变量：n（行号）、side（left/right）、total（总行数，需要 WithTotal）。
// 支持的过滤器：hex、HEX、oct、roman、pad:N，按书写顺序依次作用。
// 数字格式过滤器（hex、HEX、oct、roman）至多一个，且必须紧跟 n 或 total。
type LabelTemplate struct {
	src    string
	parts  []part
	hidden []gutter.LineRange
	total  func() int
}

type part struct {
	literal string
	expr    *expr
}

type expr struct {
	name    string
	filters []filter
}

type filter struct {
	name string
	arg  int
}

var _ gutter.LabelProvider = (*LabelTemplate)(nil)

// Compile 解析模板；空模板等价于 "${n}"。
func Compile(src string) (*LabelTemplate, error) {
	if strings.TrimSpace(src) == "" {
		src = "${n}"
	}
	t := &LabelTemplate{src: src}
	rest := src
	for {
		loc := exprPattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			if rest != "" {
				t.parts = append(t.parts, part{literal: rest})
			}
			break
		}
		if loc[0] > 0 {
			t.parts = append(t.parts, part{literal: rest[:loc[0]]})
		}
		e, err := parseExpr(rest[loc[2]:loc[3]])
		if err != nil {
			return nil, fmt.Errorf("标签模板 %q: %w", src, err)
		}
		t.parts = append(t.parts, part{expr: e})
		rest = rest[loc[1]:]
	}
	return t, nil
}

func parseExpr(body string) (*expr, error) {
	fields := strings.Split(body, "|")
	e := &expr{name: strings.TrimSpace(fields[0])}
	switch e.name {
	case VarLine, VarSide, VarTotal:
	default:
		return nil, fmt.Errorf("未知变量 %q", e.name)
	}
	for _, raw := range fields[1:] {
		name, arg, hasArg := strings.Cut(strings.TrimSpace(raw), ":")
		f := filter{name: name}
		switch name {
		case "hex", "HEX", "oct", "roman":
			if hasArg {
				return nil, fmt.Errorf("过滤器 %s 不接受参数", name)
			}
			if e.name == VarSide {
				return nil, fmt.Errorf("过滤器 %s 只能用于数字变量", name)
			}
			if len(e.filters) > 0 {
				return nil, fmt.Errorf("数字格式过滤器 %s 必须紧跟变量，且只能有一个", name)
			}
		case "pad":
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("pad 需要非负整数参数，得到 %q", arg)
			}
			f.arg = n
		default:
			return nil, fmt.Errorf("未知过滤器 %q", name)
		}
		e.filters = append(e.filters, f)
	}
	return e, nil
}

// MustCompile 与 Compile 相同，但出错时 panic。
func MustCompile(src string) *LabelTemplate {
	t, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return t
}

// Source returns the template text.
func (t *LabelTemplate) Source() string { return t.src }

// Hide suppresses labels inside ranges.
func (t *LabelTemplate) Hide(ranges ...gutter.LineRange) *LabelTemplate {
	t.hidden = append(t.hidden, ranges...)
	return t
}

// WithTotal sets the source of ${total}, normally the host's line count.
func (t *LabelTemplate) WithTotal(total func() int) *LabelTemplate {
	t.total = total
	return t
}

func (t *LabelTemplate) LabelText(onLeft bool, line int) string {
	var b strings.Builder
	for _, p := range t.parts {
		if p.expr == nil {
			b.WriteString(p.literal)
			continue
		}
		b.WriteString(t.eval(p.expr, onLeft, line))
	}
	return b.String()
}

func (t *LabelTemplate) LabelVisible(line int) bool {
	for _, r := range t.hidden {
		if r.Contains(line) {
			return false
		}
	}
	return true
}

func (t *LabelTemplate) eval(e *expr, onLeft bool, line int) string {
	var s string
	num, isNum := 0, false
	switch e.name {
	case VarLine:
		num, isNum = line, true
	case VarTotal:
		if t.total != nil {
			num = t.total()
		}
		isNum = true
	case VarSide:
		s = gutter.SideRight.String()
		if onLeft {
			s = gutter.SideLeft.String()
		}
	}
	if isNum {
		s = strconv.Itoa(num)
	}
	for _, f := range e.filters {
		switch f.name {
		case "hex":
			s = strconv.FormatInt(int64(num), 16)
		case "HEX":
			s = strings.ToUpper(strconv.FormatInt(int64(num), 16))
		case "oct":
			s = strconv.FormatInt(int64(num), 8)
		case "roman":
			s = Roman(num)
		case "pad":
			// 右对齐补空格，宽度按终端显示宽度计算
			if w := uniseg.StringWidth(s); w < f.arg {
				s = strings.Repeat(" ", f.arg-w) + s
			}
		}
	}
	return s
}

var romanTable = []struct {
	v int
	s string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman 返回 1..3999 的罗马数字，超出范围时退回十进制。
func Roman(n int) string {
	if n < 1 || n > 3999 {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.v {
			b.WriteString(r.s)
			n -= r.v
		}
	}
	return b.String()
}
