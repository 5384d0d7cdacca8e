package layout

import "fmt"

// 字体资源名称。
const (
	FontBody   = "Body"
	FontBold   = "Bold"
	FontScript = "Script"
)

// 默认绘图状态：正文 12pt、线宽 0.3mm、黑色描边。
var (
	defaultFontSize  = 12 * PtToMm
	defaultLineWidth = 0.3
	black            = Color{}
)

type drawLayer int

const (
	layerBody drawLayer = iota
	layerHeader
	layerFooter
)

// pen 为当前绘图状态，图元在写入时拷贝其中的样式。
type pen struct {
	font      string
	fontSize  float64 // mm
	lineWidth float64 // mm
	stroke    Color
	layer     drawLayer
}

func defaultPen() pen {
	return pen{font: FontBody, fontSize: defaultFontSize, lineWidth: defaultLineWidth, stroke: black}
}

type pageCollector struct {
	width  float64
	height float64
	margin Margin
	pages  []*Page
}

func newPageCollector(width, height float64, margin Margin) *pageCollector {
	return &pageCollector{width: width, height: height, margin: margin}
}

func (pc *pageCollector) newPage() *Page {
	p := &Page{
		Number: len(pc.pages) + 1,
		Width:  pc.width,
		Height: pc.height,
		Margin: pc.margin,
	}
	pc.pages = append(pc.pages, p)
	return p
}

func (pc *pageCollector) curr() *Page {
	if len(pc.pages) == 0 {
		return pc.newPage()
	}
	return pc.pages[len(pc.pages)-1]
}

func (pc *pageCollector) allPages() []Page {
	out := make([]Page, len(pc.pages))
	for i, p := range pc.pages {
		out[i] = *p
	}
	return out
}

// surface 是排版阶段的绘图面：封装页面集合、绘图状态与文本测量。
// 测量失败会被记录为首个错误，后续绘制照常进行，由调用方在结束时检查 err。
type surface struct {
	collector *pageCollector
	measurer  Measurer
	fonts     map[string]FontResource
	pen       pen
	saved     []pen
	err       error
}

func newSurface(pc *pageCollector, m Measurer, fonts map[string]FontResource) *surface {
	return &surface{collector: pc, measurer: m, fonts: fonts, pen: defaultPen()}
}

func (s *surface) save() { s.saved = append(s.saved, s.pen) }

func (s *surface) restore() {
	n := len(s.saved)
	if n == 0 {
		s.pen = defaultPen()
		return
	}
	s.pen = s.saved[n-1]
	s.saved = s.saved[:n-1]
}

func (s *surface) setFont(name string, sizePt float64) {
	s.pen.font = name
	s.pen.fontSize = sizePt * PtToMm
}

func (s *surface) setFontSize(sizePt float64) { s.pen.fontSize = sizePt * PtToMm }

func (s *surface) setLineWidth(w float64) { s.pen.lineWidth = w }

func (s *surface) setStrokeColor(c Color) { s.pen.stroke = c }

func (s *surface) setLayer(l drawLayer) { s.pen.layer = l }

func (s *surface) pageWidth() float64  { return s.collector.width }
func (s *surface) pageHeight() float64 { return s.collector.height }
func (s *surface) margin() Margin      { return s.collector.margin }
func (s *surface) pageCount() int      { return len(s.collector.pages) }

func (s *surface) addPage() { s.collector.newPage() }

func (s *surface) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// textWidth 以当前字体与字号测量文本宽度（mm）。
func (s *surface) textWidth(content string) float64 {
	if s.measurer == nil {
		s.fail(ErrNoMeasurer)
		return 0
	}
	font, ok := s.fonts[s.pen.font]
	if !ok {
		s.fail(fmt.Errorf("未声明的字体资源：%s", s.pen.font))
		return 0
	}
	w, err := s.measurer.TextWidth(content, font, s.pen.fontSize)
	if err != nil {
		s.fail(fmt.Errorf("测量文本 %q 失败: %w", content, err))
		return 0
	}
	return w
}

func (s *surface) text(content string, x, y float64, align string) {
	tb := TextBox{
		Content:  content,
		X:        x,
		Y:        y,
		Width:    s.textWidth(content),
		Font:     s.pen.font,
		FontSize: s.pen.fontSize,
		Color:    black,
		Align:    align,
	}
	p := s.collector.curr()
	switch s.pen.layer {
	case layerHeader:
		p.Header.Texts = append(p.Header.Texts, tb)
	case layerFooter:
		p.Footer.Texts = append(p.Footer.Texts, tb)
	default:
		p.Texts = append(p.Texts, tb)
	}
}

func (s *surface) line(x1, y1, x2, y2 float64) {
	ln := Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: s.pen.stroke, Width: s.pen.lineWidth}
	p := s.collector.curr()
	switch s.pen.layer {
	case layerHeader:
		p.Header.Lines = append(p.Header.Lines, ln)
	case layerFooter:
		p.Footer.Lines = append(p.Footer.Lines, ln)
	default:
		p.Lines = append(p.Lines, ln)
	}
}

func (s *surface) circle(cx, cy, r float64) {
	p := s.collector.curr()
	p.Circles = append(p.Circles, Circle{CX: cx, CY: cy, R: r, StrokeColor: s.pen.stroke, StrokeWidth: s.pen.lineWidth})
}

func (s *surface) rect(x, y, w, h float64) {
	p := s.collector.curr()
	p.Rects = append(p.Rects, Rect{X: x, Y: y, Width: w, Height: h, StrokeColor: s.pen.stroke, StrokeWidth: s.pen.lineWidth})
}
