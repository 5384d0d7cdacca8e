package layout

// 该文件定义布局结果与资源描述，供版面计算、渲染与调试 JSON 共用。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
	// Rows 按绘制顺序记录每一行标签（包含分页后重绘的标签），便于调试与校验。
	Rows []RowRecord `json:"rows"`
}

// PageCount 返回页数。
func (r *Result) PageCount() int {
	if r == nil {
		return 0
	}
	return len(r.Pages)
}

// ResourceSet 记录排版中引用到的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:* 形式。
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  string `json:"style"`
	Family string `json:"family"` // 渲染器使用的 Family 名称
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸、边距与最终可以直接渲染的元素。
// Header/Footer 保存页面固定装饰（标题、分隔线、页码），坐标均为页面坐标（单位：mm）。
type Page struct {
	Number  int          `json:"number"`
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Margin  Margin       `json:"margin"`
	Texts   []TextBox    `json:"texts"`
	Lines   []Line       `json:"lines,omitempty"`
	Rects   []Rect       `json:"rects,omitempty"`
	Circles []Circle     `json:"circles,omitempty"`
	Header  HeaderFooter `json:"header"`
	Footer  HeaderFooter `json:"footer"`
}

// HeaderFooter 描述页眉/页脚区域的元素集合。
type HeaderFooter struct {
	Texts []TextBox `json:"texts"`
	Lines []Line    `json:"lines,omitempty"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextBox 表示一个已经排好坐标的单行文本。
// Y 为基线位置；X 为对齐锚点（left 时为左端，right 时为右端，center 时为中心）。
type TextBox struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Font     string  `json:"font"`
	FontSize float64 `json:"fontSize"` // mm
	Color    Color   `json:"color"`
	Align    string  `json:"align,omitempty"` // left/center/right（默认 left）
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形（不包含圆角）。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"` // mm
}

// Circle 表示一个圆。
type Circle struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	R           float64 `json:"r"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"` // mm
}

// RowRecord 记录一次行标签绘制。
type RowRecord struct {
	Label string  `json:"label"`
	Page  int     `json:"page"`
	Y     float64 `json:"y"`
	// Marks 为该行的记号总数；分页后重绘的标签记为 Continued。
	Marks     int  `json:"marks"`
	Continued bool `json:"continued,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
