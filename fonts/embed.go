package fonts

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10italic"
	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// Default 是未声明字体时使用的内置等宽字体。
const Default = "lmmono10regular"

var builtin = map[string][]byte{
	"lmmono10regular":  lmmono10regular.TTF,
	"lmmono10italic":   lmmono10italic.TTF,
	"lmroman10regular": lmroman10regular.TTF,
	"lmroman10italic":  lmroman10italic.TTF,
	"lmroman10bold":    lmroman10bold.TTF,
	"lmsans10regular":  lmsans10regular.TTF,
	"lmsans10bold":     lmsans10bold.TTF,
}

// aliases 允许在场景文件里使用更短的名字。
var aliases = map[string]string{
	"mono":  "lmmono10regular",
	"serif": "lmroman10regular",
	"sans":  "lmsans10regular",
}

// Load 返回字体的字节数据。src 可写为 "embed:lmmono10regular"、"embed:mono"
// 或本地文件路径。
func Load(src string) ([]byte, error) {
	if name, ok := strings.CutPrefix(src, "embed:"); ok {
		return Builtin(name)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件 %s 失败: %w", src, err)
	}
	return data, nil
}

// Builtin 按名称查找内置字体。
func Builtin(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[key]; ok {
		key = target
	}
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("内置字体 %q 不存在，可选: %s", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回所有内置字体名（已排序）。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for k := range builtin {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
