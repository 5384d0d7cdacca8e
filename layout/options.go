package layout

import "log/slog"

// BuildOptions 配置版面阶段所需的依赖，例如测量后端。
type BuildOptions struct {
	Measurer Measurer
	// ScriptFont 为 RTL 标题使用的字体来源（文件路径或 builtin:*）；为空时使用 BuiltinScriptBold。
	ScriptFont string
	Logger     *slog.Logger
}

// Measurer 负责测量单行文本宽度，fontSize 与返回值均为毫米（mm）。
type Measurer interface {
	TextWidth(content string, font FontResource, fontSize float64) (float64, error)
}

// GlyphChecker 是可选能力：判断字体是否包含渲染 content 所需的全部字形。
type GlyphChecker interface {
	Covers(font FontResource, content string) (bool, error)
}

func (o BuildOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
