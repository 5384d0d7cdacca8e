package layout

// rowHeight 为分页判断时为下一行预留的高度（mm）。
const rowHeight = 10.0

// wouldOverflow 判断从 y 开始的一行是否会越过页面可用区域的底部。
func wouldOverflow(y, rowHeight, pageHeight, bottomMargin float64) bool {
	return y > pageHeight-bottomMargin-rowHeight
}

// cursor 跟踪当前页与纵向书写位置，仅在一次渲染内有效。
type cursor struct {
	page int
	y    float64
}

// moveTo 把光标放到 page 页的 y 处。
func (c *cursor) moveTo(page int, y float64) {
	c.page, c.y = page, y
}

// overflows 使用统一的分页策略判断当前位置是否放不下下一行。
func (w *sheetWriter) overflows(y float64) bool {
	return wouldOverflow(y, rowHeight, w.s.pageHeight(), w.s.margin().Bottom)
}

// breakPage 开新页并重绘页面装饰，返回重置后的纵坐标。
// 每次溢出只调用一次。
func (w *sheetWriter) breakPage() float64 {
	y := openPage(w.s, w.title, w.dir.RTL())
	w.cur.moveTo(w.s.pageCount(), y)
	w.log.Debug("分页", "page", w.cur.page, "y", w.cur.y)
	return w.cur.y
}
