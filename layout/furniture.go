package layout

import "strconv"

// 页面固定装饰：标题、标题下方分隔线、页码与页脚线，在每一页以相同方式绘制。

const (
	titleFontSize  = 16.0 // pt
	footerFontSize = 10.0 // pt
	furnitureRule  = 0.5  // mm
	titleRuleGap   = 5.0  // 标题基线到分隔线的距离（mm）
	footerTextGap  = 5.0  // 页脚线与页码之间的空隙（mm）
	// headerOffset 为正文起始位置相对上边距的偏移。
	headerOffset = 20.0
)

var (
	separatorColor = Color{R: 0xee, G: 0xee, B: 0xee}
	separatorWidth = 0.1
)

// drawTitle 在 y 处居中绘制标题，并在其下方绘制一条贯穿版心的分隔线。
// RTL 标题改用脚本字体；返回前恢复调用前的绘图状态。
func drawTitle(s *surface, title string, rtl bool, y float64) {
	s.save()
	defer s.restore()

	s.setLayer(layerHeader)
	s.setLineWidth(furnitureRule)
	s.setFont(FontBold, titleFontSize)
	if rtl {
		s.setFont(FontScript, titleFontSize)
	}
	m := s.margin()
	s.text(title, s.pageWidth()/2, y, "center")
	s.line(m.Left, y+titleRuleGap, s.pageWidth()-m.Right, y+titleRuleGap)
}

// drawFooter 在页面底部右对齐绘制当前页码，并从左边距画线至页码前。
// 页脚不随 RTL 镜像：两种方向下页码都在右侧，这是水平镜像的唯一例外。
func drawFooter(s *surface) {
	s.save()
	defer s.restore()

	s.setLayer(layerFooter)
	s.setFontSize(footerFontSize)
	s.setLineWidth(furnitureRule)

	m := s.margin()
	w, h := s.pageWidth(), s.pageHeight()
	y := h - m.Bottom
	label := strconv.Itoa(s.pageCount())
	s.text(label, w-m.Right, y, "right")
	textWidth := s.textWidth(label)
	s.line(m.Left, y, w-m.Right-textWidth-footerTextGap, y)
}

// drawThinSeparator 在 y 处绘制一条浅灰细线。
func drawThinSeparator(s *surface, y float64) {
	s.save()
	defer s.restore()

	s.setLineWidth(separatorWidth)
	s.setStrokeColor(separatorColor)
	m := s.margin()
	s.line(m.Left, y, s.pageWidth()-m.Right, y)
}

// openPage 追加一页并绘制标题与页脚，返回正文起始纵坐标。
func openPage(s *surface, title string, rtl bool) float64 {
	s.addPage()
	m := s.margin()
	drawTitle(s, title, rtl, m.Top)
	drawFooter(s)
	return m.Top + headerOffset
}
