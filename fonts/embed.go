// Package fonts 提供内置字体字节以及外部脚本字体的加载。
package fonts

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-fonts/dejavu/dejavusansbold"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// script-bold 覆盖阿拉伯文，用于 RTL 标题。
var builtin = map[string][]byte{
	"sans-regular": lmsans10regular.TTF,
	"sans-bold":    lmsans10bold.TTF,
	"script-bold":  dejavusansbold.TTF,
}

// IsBuiltin 判断 src 是否指向内置字体（builtin:* 或 built-in:*）。
func IsBuiltin(src string) bool {
	return strings.HasPrefix(src, "builtin:") || strings.HasPrefix(src, "built-in:")
}

// Load 返回字体字节。src 可写为 "builtin:sans-bold" 或字体文件路径。
func Load(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体来源为空")
	}
	if IsBuiltin(src) {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		data, ok := builtin[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置字体资源 builtin:%s", name)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}
