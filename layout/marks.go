package layout

const (
	markSpacing   = 7.0 // 相邻记号中心距（mm）
	circleRadius  = 2.5
	squareSide    = 5.0
	labelFontSize = 14.0 // pt

	circleBreakShift = 2.0 // 分页重绘标签后圆形行的上移量
	squareBreakShift = 4.0
	squareTrailing   = 2.0
)

// marksPerRow 计算一行可容纳的记号数，至少为 1。
func marksPerRow(available, spaceDecrement float64) int {
	n := int((available - spaceDecrement) / markSpacing)
	if n < 1 {
		return 1
	}
	return n
}

// emitLabel 以 14pt 在方向锚点处绘制行标签。
func (w *sheetWriter) emitLabel(label string, y float64, marks int, continued bool) {
	w.s.save()
	w.s.setFontSize(labelFontSize)
	w.s.text(label, w.dir.AnchorX, y, w.dir.Align)
	w.s.restore()
	w.rows = append(w.rows, RowRecord{Label: label, Page: w.cur.page, Y: y, Marks: marks, Continued: continued})
}

// placeMarks 从 (x, y) 起沿阅读方向放置 count 个记号，超出宽度时换行，
// 换行后放不下时分页并重绘行标签。返回最后一行的纵坐标（方形额外加上尾部间距）。
func (w *sheetWriter) placeMarks(shape Shape, x, y, spaceDecrement float64, count int, label string) float64 {
	if count <= 0 {
		return y
	}
	m := w.s.margin()
	available := w.s.pageWidth() - m.Left - m.Right
	perRow := marksPerRow(available, spaceDecrement)

	shift := circleBreakShift
	if shape == ShapeSquare {
		shift = squareBreakShift
	}

	currentX, currentY := x, y
	for i := 0; i < count; i++ {
		if i > 0 && i%perRow == 0 {
			currentX = x
			currentY += markSpacing
			if w.overflows(currentY) {
				currentY = w.breakPage()
				w.emitLabel(label, currentY, count, true)
				currentY -= shift
			}
		}
		switch shape {
		case ShapeSquare:
			w.s.rect(currentX-squareSide/2, currentY, squareSide, squareSide)
		default:
			w.s.circle(currentX, currentY, circleRadius)
		}
		currentX += w.dir.AdvanceSign * markSpacing
	}
	w.cur.y = currentY
	if shape == ShapeSquare {
		return currentY + squareTrailing
	}
	return currentY
}
