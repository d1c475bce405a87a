package layout

import (
	"math"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// MeasureFunc returns the rendered width of s in pixels.
type MeasureFunc func(s string) float64

// Wrap 使用贪心算法把 content 拆成宽度不超过 width 的行；width<=0 表示不限宽。
// 显式换行始终生效，返回的行只填充 Content 与 Width。
func Wrap(content string, width float64, measure MeasureFunc, wrap string) []TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	switch NormalizeWrap(wrap) {
	case WrapNone:
		// nowrap：仅按显式换行划分，不基于宽度折行
		parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
		lines := make([]TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, TextLine{Content: p, Width: measure(p)})
		}
		return lines
	case WrapBreakWord:
		return wrapClusters(content, limit, measure)
	}

	// 默认（anywhere）：优先在空白处分割，超过限制时在词内拆分
	var lines []TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, TextLine{})
			}
			return
		}
		lines = append(lines, TextLine{Content: builder.String(), Width: currentWidth})
		builder.Reset()
		currentWidth = 0
	}
	appendToken := func(token string, w float64) {
		builder.WriteString(token)
		currentWidth += w
	}

	for _, token := range tokenizeContent(content) {
		if token == "\n" {
			emit(true)
			continue
		}
		tokenWidth := measure(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token, tokenWidth)
			continue
		}
		for _, chunk := range splitTokenByWidth(token, limit, measure) {
			chunkWidth := measure(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk, chunkWidth)
		}
	}

	emit(true)
	return lines
}

// wrapClusters ignores whitespace opportunities and cuts purely by width.
func wrapClusters(content string, limit float64, measure MeasureFunc) []TextLine {
	var lines []TextLine
	var builder strings.Builder
	current := 0.0
	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, TextLine{})
			}
			return
		}
		lines = append(lines, TextLine{Content: builder.String(), Width: current})
		builder.Reset()
		current = 0
	}
	gr := uniseg.NewGraphemes(strings.ReplaceAll(content, "\r", ""))
	for gr.Next() {
		s := gr.Str()
		if s == "\n" {
			emit(true)
			continue
		}
		cw := measure(s)
		if current > 0 && current+cw > limit {
			emit(false)
		}
		builder.WriteString(s)
		current += cw
	}
	emit(true)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// splitTokenByWidth cuts an oversize token at grapheme boundaries so no chunk
// exceeds limit unless a single cluster already does.
func splitTokenByWidth(token string, limit float64, measure MeasureFunc) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	gr := uniseg.NewGraphemes(token)
	for gr.Next() {
		cluster := gr.Str()
		if builder.Len() > 0 && measure(builder.String()+cluster) > limit {
			parts = append(parts, builder.String())
			builder.Reset()
		}
		builder.WriteString(cluster)
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
