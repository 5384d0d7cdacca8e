package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/tracksheet/fonts"
	"github.com/ByLCY/tracksheet/layout"
	"github.com/ByLCY/tracksheet/renderer"
)

const defaultStrokeWidth = 0.2

// Renderer draws layout results via github.com/tdewolff/canvas.
// It also serves as the text measurer used while laying out sheets.
type Renderer struct {
	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
	fonts        map[string]*canvas.Font
}

var (
	_ renderer.Renderer   = (*Renderer)(nil)
	_ renderer.Previewer  = (*Renderer)(nil)
	_ layout.Measurer     = (*Renderer)(nil)
	_ layout.GlyphChecker = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// NewRenderer creates a canvas-based renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		fontFamilies: map[string]*fontFamilyEntry{},
		fonts:        map[string]*canvas.Font{},
	}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c, err := r.pageCanvas(page, result.Resources)
		if err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Preview rasterizes one page (1-based) to PNG at dpmm dots per millimeter.
func (r *Renderer) Preview(result *layout.Result, page int, dpmm float64) ([]byte, error) {
	if result == nil || page < 1 || page > len(result.Pages) {
		return nil, fmt.Errorf("预览页码 %d 超出范围", page)
	}
	if dpmm <= 0 {
		dpmm = 4
	}
	p := result.Pages[page-1]
	c, err := r.pageCanvas(p, result.Resources)
	if err != nil {
		return nil, err
	}
	img := rasterizer.Draw(c, canvas.DPMM(dpmm), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码预览图失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) pageCanvas(page layout.Page, resources layout.ResourceSet) (*canvas.Canvas, error) {
	c := canvas.New(page.Width, page.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	// 白色底，保证栅格化预览不透明
	ctx.SetFillColor(canvas.White)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(page.Width, page.Height))

	if err := r.drawPage(ctx, page, resources); err != nil {
		return nil, err
	}
	return c, nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// TextWidth 实现 layout.Measurer。fontSize 与返回值均为毫米（mm），
// 与字体系统交互时在边界做 mm→pt 换算。
func (r *Renderer) TextWidth(content string, font layout.FontResource, fontSize float64) (float64, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Color{})
	if err != nil {
		return 0, err
	}
	if layout.IsRightToLeft(content) {
		// 与绘制一致，经 NewTextLine 做 bidi 分段后再整形
		return canvas.NewTextLine(face, content, canvas.Left).Bounds().W(), nil
	}
	return face.TextWidth(content), nil
}

// Covers 实现 layout.GlyphChecker：除空白外每个字符都需要在字体中有字形。
func (r *Renderer) Covers(font layout.FontResource, content string) (bool, error) {
	f, err := r.loadFont(font)
	if err != nil {
		return false, err
	}
	for _, ch := range content {
		if unicode.IsSpace(ch) {
			continue
		}
		if f.SFNT.GlyphIndex(ch) == 0 {
			return false, nil
		}
	}
	return true, nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	// 页眉：先线后字
	drawLines(ctx, page.Header.Lines)
	if err := r.drawTexts(ctx, page.Header.Texts, resources); err != nil {
		return err
	}

	// 正文：分隔线与记号在标签之前绘制
	drawLines(ctx, page.Lines)
	drawRects(ctx, page.Rects)
	drawCircles(ctx, page.Circles)
	if err := r.drawTexts(ctx, page.Texts, resources); err != nil {
		return err
	}

	drawLines(ctx, page.Footer.Lines)
	return r.drawTexts(ctx, page.Footer.Texts, resources)
}

func (r *Renderer) drawTexts(ctx *canvas.Context, texts []layout.TextBox, resources layout.ResourceSet) error {
	for _, tb := range texts {
		font, ok := resources.Fonts[tb.Font]
		if !ok {
			return fmt.Errorf("文本 %q 引用了未声明的字体 %s", tb.Content, tb.Font)
		}
		if err := r.drawTextBox(ctx, tb, font); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, font layout.FontResource) error {
	// TextBox 的坐标/字号均为 mm；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(font, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}

	var align canvas.TextAlign
	switch strings.ToLower(tb.Align) {
	case "center":
		align = canvas.Center
	case "right", "end":
		align = canvas.Right
	default:
		align = canvas.Left
	}
	// TextBox.X 即对齐锚点，Y 为基线
	ctx.DrawText(tb.X, tb.Y, canvas.NewTextLine(face, tb.Content, align))
	return nil
}

// drawLines 绘制直线列表（毫米单位）
func drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(strokeWidth(ln.Width))
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

// drawRects 绘制只描边的矩形
func drawRects(ctx *canvas.Context, rects []layout.Rect) {
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	for _, rc := range rects {
		ctx.SetStrokeColor(colorFromLayout(rc.StrokeColor))
		ctx.SetStrokeWidth(strokeWidth(rc.StrokeWidth))
		ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
	}
}

// drawCircles 绘制只描边的圆
func drawCircles(ctx *canvas.Context, circles []layout.Circle) {
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	for _, c := range circles {
		ctx.SetStrokeColor(colorFromLayout(c.StrokeColor))
		ctx.SetStrokeWidth(strokeWidth(c.StrokeWidth))
		ctx.DrawPath(c.CX-c.R, c.CY-c.R, canvas.Circle(c.R))
	}
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return defaultStrokeWidth
	}
	return w
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	family := canvas.NewFontFamily(familyName)
	data, err := fonts.Load(font.Src)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("解析字体 %s 失败: %w", font.Src, err)
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFont(font layout.FontResource) (*canvas.Font, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if f, ok := r.fonts[key]; ok {
		return f, nil
	}
	data, err := fonts.Load(font.Src)
	if err != nil {
		return nil, err
	}
	f, err := canvas.LoadFont(data, 0, parseFontStyle(font.Style))
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", font.Src, err)
	}
	r.fonts[key] = f
	return f, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
