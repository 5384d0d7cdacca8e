package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// ErrNoMeasurer 表示调用方未提供文本测量后端。
var ErrNoMeasurer = errors.New("layout: 缺少文本测量后端 Measurer")

const (
	defaultMargin = 20.0
	// markIndent 为行标签与第一个记号之间的固定缩进。
	markIndent = 20.0
	// 分组行的最小额外缩进，以及最宽分组标签与记号之间保留的空隙。
	groupExtraMin = 10.0
	groupLabelGap = 14.0
	rowGap        = 8.0  // 记号末行到分隔线
	rowAdvance    = 10.0 // 分隔线到下一行标签基线
	gridTopOffset = 10.0
)

// 内置字体来源，由渲染后端解析。
const (
	BuiltinSansRegular = "builtin:sans-regular"
	BuiltinSansBold    = "builtin:sans-bold"
	// BuiltinScriptBold 覆盖阿拉伯文字形，是 RTL 标题的默认字体。
	BuiltinScriptBold = "builtin:script-bold"
)

// sheetWriter 持有一次渲染的全部可变状态，不在多次渲染之间共享。
type sheetWriter struct {
	s     *surface
	title string
	dir   Direction
	cur   cursor
	rows  []RowRecord
	log   *slog.Logger
	cfg   SheetConfig
}

// Build 根据配置选择排版方式并生成完整的多页布局。
func Build(cfg SheetConfig, opts BuildOptions) (*Result, error) {
	cfg = cfg.withDefaults()
	switch {
	case cfg.Kind == KindGrid:
		return BuildLabeledGrid(cfg, opts)
	case cfg.Grouped:
		return BuildGrouped(cfg, opts)
	default:
		return BuildSeparate(cfg, opts)
	}
}

// BuildSeparate 为 [Start, End] 内每个编号生成一行记号。
func BuildSeparate(cfg SheetConfig, opts BuildOptions) (*Result, error) {
	cfg = cfg.withDefaults()
	w, err := newSheetWriter(cfg, opts)
	if err != nil {
		return nil, err
	}
	if w.skipBody() {
		return w.finish()
	}

	y := w.cur.y
	for i := cfg.Start; i <= cfg.End; i++ {
		y = w.drawRow(strconv.Itoa(i), y, markIndent)
		y = w.afterRow(y, i == cfg.End)
	}
	return w.finish()
}

// Group 是一段连续编号。
type Group struct {
	Start int
	End   int
}

// Label 返回 "start - end" 形式的行标签。
func (g Group) Label() string { return fmt.Sprintf("%d - %d", g.Start, g.End) }

// SplitGroups 将 [start, end] 切分为每组 size 个的连续分组，最后一组可以更短。
func SplitGroups(start, end, size int) []Group {
	if size < 1 || start > end {
		return nil
	}
	groups := make([]Group, 0, (end-start)/size+1)
	for first := start; first <= end; first += size {
		groups = append(groups, Group{Start: first, End: min(first+size-1, end)})
	}
	return groups
}

// BuildGrouped 为每个连续分组生成一行记号。
func BuildGrouped(cfg SheetConfig, opts BuildOptions) (*Result, error) {
	cfg = cfg.withDefaults()
	w, err := newSheetWriter(cfg, opts)
	if err != nil {
		return nil, err
	}
	if w.skipBody() {
		return w.finish()
	}

	groups := SplitGroups(cfg.Start, cfg.End, cfg.GroupSize)
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label()
	}
	indent := w.groupIndent(labels)

	y := w.cur.y
	for i, label := range labels {
		y = w.drawRow(label, y, indent)
		y = w.afterRow(y, i == len(labels)-1)
	}
	return w.finish()
}

// BuildLabeledGrid 将 [Start, End] 画成带编号的方格。
func BuildLabeledGrid(cfg SheetConfig, opts BuildOptions) (*Result, error) {
	cfg = cfg.withDefaults()
	cfg.Kind = KindGrid
	w, err := newSheetWriter(cfg, opts)
	if err != nil {
		return nil, err
	}
	if w.skipBody() {
		return w.finish()
	}
	w.placeLabeledCells(w.s.margin().Top+gridTopOffset, cfg.Start, cfg.End)
	return w.finish()
}

func newSheetWriter(cfg SheetConfig, opts BuildOptions) (*sheetWriter, error) {
	if opts.Measurer == nil {
		return nil, ErrNoMeasurer
	}
	width, height, err := PageSize(cfg.PageSize, cfg.Orientation)
	if err != nil {
		return nil, err
	}
	margin := Margin{Top: defaultMargin, Right: defaultMargin, Bottom: defaultMargin, Left: defaultMargin}
	title := cfg.FullTitle()
	fonts := sheetFonts(opts.ScriptFont)

	w := &sheetWriter{
		s:     newSurface(newPageCollector(width, height, margin), opts.Measurer, fonts),
		title: title,
		dir:   ResolveDirection(title, width, margin),
		log:   opts.logger().With(slog.String("sheet", title)),
		cfg:   cfg,
	}
	if w.dir.RTL() {
		if err := w.checkScript(opts.Measurer, fonts[FontScript]); err != nil {
			return nil, err
		}
	}
	w.cur.moveTo(1, openPage(w.s, title, w.dir.RTL()))
	return w, nil
}

func sheetFonts(script string) map[string]FontResource {
	if script == "" {
		script = BuiltinScriptBold
	}
	return map[string]FontResource{
		FontBody:   {Name: FontBody, Src: BuiltinSansRegular, Style: "regular", Family: "tracksheet-sans"},
		FontBold:   {Name: FontBold, Src: BuiltinSansBold, Style: "bold", Family: "tracksheet-sans"},
		FontScript: {Name: FontScript, Src: script, Style: "bold", Family: "tracksheet-script"},
	}
}

// checkScript 确认脚本字体能渲染标题；缺字只记录警告，字体本身损坏则返回错误。
func (w *sheetWriter) checkScript(m Measurer, font FontResource) error {
	gc, ok := m.(GlyphChecker)
	if !ok {
		return nil
	}
	covered, err := gc.Covers(font, w.title)
	if err != nil {
		return fmt.Errorf("加载脚本字体 %s 失败: %w", font.Src, err)
	}
	if !covered {
		w.log.Warn("脚本字体缺少标题所需字形", "font", font.Src)
	}
	return nil
}

// skipBody 在配置无法排版时记录警告并返回 true，此时只输出页面装饰。
func (w *sheetWriter) skipBody() bool {
	problem := w.cfg.bodyProblem()
	if problem == "" {
		return false
	}
	w.log.Warn("配置无效，正文留空", "problem", problem,
		"start", w.cfg.Start, "end", w.cfg.End,
		"repetitions", w.cfg.Repetitions, "groupSize", w.cfg.GroupSize)
	return true
}

// drawRow 绘制行标签及其记号，返回分隔线所在的纵坐标。
func (w *sheetWriter) drawRow(label string, y, indent float64) float64 {
	w.emitLabel(label, y, max(w.cfg.Repetitions, 0), false)
	shift := circleBreakShift
	if w.cfg.Shape == ShapeSquare {
		shift = squareBreakShift
	}
	return w.placeMarks(w.cfg.Shape, w.dir.Inset(indent), y-shift, indent, w.cfg.Repetitions, label) + rowGap
}

// afterRow 在非末行后绘制分隔线，并在下一行放不下时分页。
func (w *sheetWriter) afterRow(separatorY float64, last bool) float64 {
	if !last {
		drawThinSeparator(w.s, separatorY)
	}
	y := separatorY + rowAdvance
	if !last && w.overflows(y) {
		y = w.breakPage()
	}
	w.cur.y = y
	return y
}

// groupIndent 按最宽分组标签的实测宽度计算记号缩进。
func (w *sheetWriter) groupIndent(labels []string) float64 {
	w.s.save()
	defer w.s.restore()
	w.s.setFontSize(labelFontSize)

	widest := 0.0
	for _, l := range labels {
		widest = math.Max(widest, w.s.textWidth(l))
	}
	return math.Max(markIndent+groupExtraMin, widest+groupLabelGap)
}

func (w *sheetWriter) finish() (*Result, error) {
	if w.s.err != nil {
		return nil, w.s.err
	}
	return &Result{
		Pages:     w.s.collector.allPages(),
		Resources: ResourceSet{Fonts: w.s.fonts},
		Meta: DocumentMeta{
			Title:    w.title,
			Subject:  "memorization tracker",
			Creator:  "tracksheet",
			Keywords: []string{w.cfg.Title},
		},
		Rows: w.rows,
	}, nil
}
