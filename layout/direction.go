package layout

import "golang.org/x/text/unicode/bidi"

// IsRightToLeft 判断文本是否包含阿拉伯文区块（U+0600–U+06FF）内的字符。
func IsRightToLeft(text string) bool {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

// Direction 是整张表格共用的书写方向，由标题一次性决定。
type Direction struct {
	Dir bidi.Direction
	// AdvanceSign 为记号横向推进的符号：+1 从左向右，-1 从右向左。
	AdvanceSign float64
	// AnchorX 为行标签的锚点（左边距或右边距处）。
	AnchorX float64
	Align   string
}

// ResolveDirection 根据标题与页面宽度计算方向参数。
func ResolveDirection(title string, pageWidth float64, margin Margin) Direction {
	if IsRightToLeft(title) {
		return Direction{
			Dir:         bidi.RightToLeft,
			AdvanceSign: -1,
			AnchorX:     pageWidth - margin.Right,
			Align:       "right",
		}
	}
	return Direction{
		Dir:         bidi.LeftToRight,
		AdvanceSign: 1,
		AnchorX:     margin.Left,
		Align:       "left",
	}
}

// RTL 报告是否为从右向左排版。
func (d Direction) RTL() bool { return d.Dir == bidi.RightToLeft }

// Inset 返回距锚点 offset 毫米处的横坐标（沿阅读方向向内）。
func (d Direction) Inset(offset float64) float64 {
	return d.AnchorX + d.AdvanceSign*offset
}
