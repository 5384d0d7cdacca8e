package renderer

import "github.com/ByLCY/tracksheet/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Previewer 是可选能力：将单页栅格化为 PNG，page 从 1 开始，dpmm 为每毫米像素数。
type Previewer interface {
	Preview(result *layout.Result, page int, dpmm float64) ([]byte, error)
}

// Backend 同时负责测量与渲染，排版与输出必须使用同一套字体度量。
type Backend interface {
	Renderer
	layout.Measurer
}
