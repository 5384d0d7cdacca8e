// Package fpdfrenderer 使用 github.com/jung-kurt/gofpdf 输出 PDF。
// 内置无衬线字体映射为 PDF 核心字体 Helvetica（不嵌入），其他来源按 UTF-8 TrueType 字体嵌入。
// gofpdf 不做字形整形与双向重排，从右到左的文字会在测量时报错。
package fpdfrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/charmap"

	"github.com/ByLCY/tracksheet/fonts"
	"github.com/ByLCY/tracksheet/layout"
	"github.com/ByLCY/tracksheet/renderer"
)

const coreFamily = "Helvetica"

// ErrRightToLeft 表示 gofpdf 后端无法正确排出从右到左的文字。
var ErrRightToLeft = errors.New("fpdf 后端不支持从右到左的文字（无字形整形），请改用 canvas 后端")

// Renderer draws layout results with gofpdf and measures text with the same font metrics.
type Renderer struct {
	mu      sync.Mutex
	measure *gofpdf.Fpdf
	blobs   map[string][]byte // TTF bytes by source
}

var (
	_ renderer.Renderer   = (*Renderer)(nil)
	_ layout.Measurer     = (*Renderer)(nil)
	_ layout.GlyphChecker = (*Renderer)(nil)
)

// NewRenderer creates a gofpdf-backed renderer.
func NewRenderer() *Renderer {
	return &Renderer{blobs: map[string][]byte{}}
}

// TextWidth 实现 layout.Measurer，fontSize 与返回值均为 mm。
func (r *Renderer) TextWidth(content string, font layout.FontResource, fontSize float64) (float64, error) {
	if layout.IsRightToLeft(content) {
		return 0, fmt.Errorf("测量 %q 失败: %w", content, ErrRightToLeft)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.measure == nil {
		r.measure = gofpdf.New("P", "mm", "A4", "")
	}
	doc := r.measure
	family, style, err := r.useFont(doc, font)
	if err != nil {
		return 0, err
	}
	doc.SetFont(family, style, fontSize*layout.MmToPt)
	w := doc.GetStringWidth(encodeFor(doc, font, content))
	if doc.Err() {
		err := doc.Error()
		// 清除错误状态，避免后续测量全部失败
		r.measure = nil
		return 0, fmt.Errorf("gofpdf 测量失败: %w", err)
	}
	return w, nil
}

// Covers 实现 layout.GlyphChecker。核心字体按 cp1252 可编码判断，嵌入字体查询 cmap。
func (r *Renderer) Covers(font layout.FontResource, content string) (bool, error) {
	if isCoreFont(font) {
		for _, ch := range content {
			if _, ok := charmap.Windows1252.EncodeRune(ch); !ok {
				return false, nil
			}
		}
		return true, nil
	}

	r.mu.Lock()
	data, err := r.fontBytes(font.Src)
	r.mu.Unlock()
	if err != nil {
		return false, err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return false, fmt.Errorf("解析字体 %s 失败: %w", font.Src, err)
	}
	var buf sfnt.Buffer
	for _, ch := range content {
		if unicode.IsSpace(ch) {
			continue
		}
		idx, err := f.GlyphIndex(&buf, ch)
		if err != nil {
			return false, fmt.Errorf("查询字形失败: %w", err)
		}
		if idx == 0 {
			return false, nil
		}
	}
	return true, nil
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	first := result.Pages[0]
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	doc.SetAutoPageBreak(false, 0)
	meta := result.Meta
	doc.SetTitle(meta.Title, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetCreator(meta.Creator, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetKeywords(strings.Join(meta.Keywords, ", "), true)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, page := range result.Pages {
		doc.AddPageFormat("", gofpdf.SizeType{Wd: page.Width, Ht: page.Height})
		if err := r.drawPage(doc, page, result.Resources); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPage(doc *gofpdf.Fpdf, page layout.Page, resources layout.ResourceSet) error {
	drawLines(doc, page.Header.Lines)
	if err := r.drawTexts(doc, page.Header.Texts, resources); err != nil {
		return err
	}

	drawLines(doc, page.Lines)
	for _, rc := range page.Rects {
		setStroke(doc, rc.StrokeColor, rc.StrokeWidth)
		doc.Rect(rc.X, rc.Y, rc.Width, rc.Height, "D")
	}
	for _, c := range page.Circles {
		setStroke(doc, c.StrokeColor, c.StrokeWidth)
		doc.Circle(c.CX, c.CY, c.R, "D")
	}
	if err := r.drawTexts(doc, page.Texts, resources); err != nil {
		return err
	}

	drawLines(doc, page.Footer.Lines)
	if err := r.drawTexts(doc, page.Footer.Texts, resources); err != nil {
		return err
	}
	if doc.Err() {
		return fmt.Errorf("绘制第 %d 页失败: %w", page.Number, doc.Error())
	}
	return nil
}

func (r *Renderer) drawTexts(doc *gofpdf.Fpdf, texts []layout.TextBox, resources layout.ResourceSet) error {
	for _, tb := range texts {
		font, ok := resources.Fonts[tb.Font]
		if !ok {
			return fmt.Errorf("文本 %q 引用了未声明的字体 %s", tb.Content, tb.Font)
		}
		family, style, err := r.useFont(doc, font)
		if err != nil {
			return err
		}
		doc.SetFont(family, style, tb.FontSize*layout.MmToPt)
		doc.SetTextColor(tb.Color.R, tb.Color.G, tb.Color.B)
		content := encodeFor(doc, font, tb.Content)
		x := tb.X
		switch strings.ToLower(tb.Align) {
		case "center":
			x -= doc.GetStringWidth(content) / 2
		case "right", "end":
			x -= doc.GetStringWidth(content)
		}
		doc.Text(x, tb.Y, content)
	}
	return nil
}

// useFont 返回 gofpdf 中的字体族与样式；外部字体在首次使用时注册到 doc。
func (r *Renderer) useFont(doc *gofpdf.Fpdf, font layout.FontResource) (string, string, error) {
	if isCoreFont(font) {
		if strings.Contains(strings.ToLower(font.Style), "bold") {
			return coreFamily, "B", nil
		}
		return coreFamily, "", nil
	}
	family := font.Family
	if family == "" {
		family = font.Name
	}
	if doc.GetFontDesc(family, "").Ascent != 0 {
		return family, "", nil
	}
	data, err := r.fontBytes(font.Src)
	if err != nil {
		return "", "", err
	}
	doc.AddUTF8FontFromBytes(family, "", data)
	if doc.Err() {
		return "", "", fmt.Errorf("注册字体 %s 失败: %w", font.Src, doc.Error())
	}
	return family, "", nil
}

// fontBytes 读取并缓存字体字节，调用方需持有 r.mu。
func (r *Renderer) fontBytes(src string) ([]byte, error) {
	if data, ok := r.blobs[src]; ok {
		return data, nil
	}
	data, err := fonts.Load(src)
	if err != nil {
		return nil, err
	}
	r.blobs[src] = data
	return data, nil
}

// isCoreFont 判断字体是否映射到 Helvetica 核心字体。
func isCoreFont(font layout.FontResource) bool {
	return font.Src == layout.BuiltinSansRegular || font.Src == layout.BuiltinSansBold
}

// encodeFor 将 UTF-8 文本转为核心字体使用的 cp1252 编码；嵌入字体保持 UTF-8。
func encodeFor(doc *gofpdf.Fpdf, font layout.FontResource, s string) string {
	if !isCoreFont(font) {
		return s
	}
	return doc.UnicodeTranslatorFromDescriptor("")(s)
}

func drawLines(doc *gofpdf.Fpdf, lines []layout.Line) {
	for _, ln := range lines {
		setStroke(doc, ln.Color, ln.Width)
		doc.Line(ln.X1, ln.Y1, ln.X2, ln.Y2)
	}
}

func setStroke(doc *gofpdf.Fpdf, c layout.Color, width float64) {
	if width <= 0 {
		width = 0.2
	}
	doc.SetDrawColor(c.R, c.G, c.B)
	doc.SetLineWidth(width)
}
