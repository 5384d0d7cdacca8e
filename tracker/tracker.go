// Package tracker 串联排版与渲染，对外提供生成好的记忆打卡表文档。
package tracker

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/tracksheet/binding"
	"github.com/ByLCY/tracksheet/layout"
	"github.com/ByLCY/tracksheet/renderer"
	canvasrenderer "github.com/ByLCY/tracksheet/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/tracksheet/renderer/fpdf"
)

// DefaultFileTemplate 与下载按钮使用的文件名格式一致。
const DefaultFileTemplate = "${title}-${start}-${end}.pdf"

// Options 配置一次生成。
type Options struct {
	// Backend 负责测量与渲染；为空时使用 canvas 后端。
	Backend renderer.Backend
	// ScriptFont 为 RTL 标题使用的字体文件。
	ScriptFont   string
	FileTemplate string
	FilePrefix   string
	Logger       *slog.Logger
}

// NewBackend 按名称创建渲染后端。
func NewBackend(name string) (renderer.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "canvas":
		return canvasrenderer.NewRenderer(), nil
	case "fpdf", "gofpdf":
		return fpdfrenderer.NewRenderer(), nil
	default:
		return nil, fmt.Errorf("未知的渲染后端：%s", name)
	}
}

// Document 是一次生成的结果：布局、PDF 字节与建议文件名。
type Document struct {
	Config   layout.SheetConfig
	Layout   *layout.Result
	pdf      []byte
	fileName string
	backend  renderer.Backend
}

// Generate 排版并渲染一张表格。配置错误不会中断生成，只得到正文为空的文档。
func Generate(cfg layout.SheetConfig, opts Options) (*Document, error) {
	backend := opts.Backend
	if backend == nil {
		backend = canvasrenderer.NewRenderer()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name, err := SuggestedFileName(opts.FileTemplate, opts.FilePrefix, cfg)
	if err != nil {
		return nil, err
	}
	res, err := layout.Build(cfg, layout.BuildOptions{
		Measurer:   backend,
		ScriptFont: opts.ScriptFont,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("排版失败: %w", err)
	}
	data, err := backend.Render(res)
	if err != nil {
		return nil, fmt.Errorf("渲染失败: %w", err)
	}
	logger.Debug("已生成表格", slog.String("file", name), slog.Int("pages", res.PageCount()), slog.Int("rows", len(res.Rows)))
	return &Document{Config: cfg, Layout: res, pdf: data, fileName: name, backend: backend}, nil
}

// Bytes 返回 PDF 字节。
func (d *Document) Bytes() []byte { return d.pdf }

// FileName 返回建议的下载文件名。
func (d *Document) FileName() string { return d.fileName }

// PageCount 返回页数。
func (d *Document) PageCount() int { return d.Layout.PageCount() }

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(d.pdf).WriteTo(w)
}

// Save 将 PDF 写入 dir 下的建议文件名，返回完整路径。
func (d *Document) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(dir, d.fileName)
	if err := os.WriteFile(path, d.pdf, 0o644); err != nil {
		return "", fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return path, nil
}

// DataURI 返回可直接嵌入预览框的 data URI，格式与 jsPDF 的 datauristring 相同。
func (d *Document) DataURI() string {
	return "data:application/pdf;filename=" + d.fileName + ";base64," + base64.StdEncoding.EncodeToString(d.pdf)
}

// PreviewPNG 栅格化第 page 页（从 1 开始），dpmm 为每毫米像素数。
func (d *Document) PreviewPNG(page int, dpmm float64) ([]byte, error) {
	p, ok := d.backend.(renderer.Previewer)
	if !ok {
		return nil, fmt.Errorf("当前渲染后端不支持预览")
	}
	if dpmm <= 0 {
		dpmm = 4
	}
	return p.Preview(d.Layout, page, dpmm)
}

// SuggestedFileName 展开文件名模板（字段 title、start、end），加上前缀并清理为单个安全的路径元素。
func SuggestedFileName(template, prefix string, cfg layout.SheetConfig) (string, error) {
	if strings.TrimSpace(template) == "" {
		template = DefaultFileTemplate
	}
	fields := map[string]any{"title": cfg.Title, "start": cfg.Start, "end": cfg.End}
	name, err := binding.Expand(template, fields)
	if err != nil {
		return "", err
	}
	name = sanitizeFileName(prefix + name)
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name, nil
}

func sanitizeFileName(name string) string {
	name = norm.NFC.String(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case strings.ContainsRune(`/\<>:"|?*`, r):
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, " .")
	if name == "" {
		return "tracksheet"
	}
	return name
}
