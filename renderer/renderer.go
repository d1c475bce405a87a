package renderer

import "github.com/ByLCY/linenum/textview"

// Renderer 将文本视图（含行号）输出为最终产物，例如 PNG 图像或终端文本。
// Render 返回生成的字节数据以及可能的错误。
type Renderer interface {
	Render(view *textview.TextView) ([]byte, error)
}
