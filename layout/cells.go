package layout

import "strconv"

const (
	cellPadding = 3.0 // 标签四周留白（mm）
	// capHeightRatio 近似大写字母高度与字号之比，用于垂直居中。
	capHeightRatio = 0.7
)

// placeLabeledCells 将 [start, end] 内的整数依次画成等大的带编号方格。
// 方格边长由最大编号的测量宽度决定；放不下时先换行，换行后仍放不下则分页。
func (w *sheetWriter) placeLabeledCells(y float64, start, end int) float64 {
	if start > end {
		return y
	}
	m := w.s.margin()
	cellSize := w.s.textWidth(strconv.Itoa(end)) + 2*cellPadding
	left, right := m.Left, w.s.pageWidth()-m.Right

	// 方格的内侧边：LTR 为左边，RTL 为右边。
	origin := w.dir.AnchorX
	x, currentY := origin, y
	for n := start; n <= end; n++ {
		if x != origin && w.cellOverflowsWidth(x, cellSize, left, right) {
			x = origin
			currentY += cellSize
			if w.overflows(currentY + cellSize) {
				currentY = w.breakPage()
			}
		}
		cellX := x
		if w.dir.RTL() {
			cellX = x - cellSize
		}
		label := strconv.Itoa(n)
		baseline := currentY + cellSize/2 + w.s.pen.fontSize*capHeightRatio/2
		w.s.text(label, cellX+cellSize/2, baseline, "center")
		w.s.rect(cellX, currentY, cellSize, cellSize)
		x += w.dir.AdvanceSign * cellSize
	}
	w.cur.y = currentY + cellSize
	return w.cur.y
}

func (w *sheetWriter) cellOverflowsWidth(x, size, left, right float64) bool {
	if w.dir.RTL() {
		return x-size < left
	}
	return x+size > right
}
