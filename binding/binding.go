// Package binding fills ${...} placeholders: scene content from scene
// metadata, and line number labels from compiled templates.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// ${path:-text} 在路径不存在时使用 text；否则未解析的占位符保持原样。
func Interpolate(text string, data any) string {
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		body := strings.TrimSpace(match[2 : len(match)-1])
		path, fallback, hasFallback := strings.Cut(body, ":-")
		if val, ok := Lookup(data, strings.TrimSpace(path)); ok {
			return fmt.Sprint(val)
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// Lookup walks data along a dotted path with optional indexes, eg
// "tags[1]" or "owner.name". Maps keyed by string and []any are supported.
func Lookup(data any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	cur := data
	for _, step := range strings.Split(path, ".") {
		key, rest, _ := strings.Cut(step, "[")
		if key != "" {
			var ok bool
			if cur, ok = field(cur, key); !ok {
				return nil, false
			}
		}
		for rest != "" {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok {
				return nil, false
			}
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, false
			}
			if cur, ok = element(cur, n); !ok {
				return nil, false
			}
			rest = strings.TrimPrefix(tail, "[")
		}
	}
	return cur, true
}

func field(cur any, key string) (any, bool) {
	switch m := cur.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case map[string]string:
		v, ok := m[key]
		return v, ok
	}
	return nil, false
}

func element(cur any, i int) (any, bool) {
	switch s := cur.(type) {
	case []any:
		if i >= 0 && i < len(s) {
			return s[i], true
		}
	case []string:
		if i >= 0 && i < len(s) {
			return s[i], true
		}
	}
	return nil, false
}
