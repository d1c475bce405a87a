package layout

// Wrap modes accepted by Typesetter.LayoutLines.
const (
	WrapAnywhere  = "anywhere"
	WrapBreakWord = "break-word"
	WrapNone      = "nowrap"
)

// NormalizeWrap maps author-facing spellings onto the wrap modes above.
func NormalizeWrap(v string) string {
	switch v {
	case "break-word", "word-break:break-word":
		return WrapBreakWord
	case "nowrap", "no-wrap", "none":
		return WrapNone
	default:
		return WrapAnywhere
	}
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 约定：width/fontSize/lineHeight 均为像素。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}
