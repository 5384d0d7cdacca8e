package dsl

import (
	"fmt"
	"strings"

	"github.com/ByLCY/tracksheet/binding"
	"github.com/ByLCY/tracksheet/layout"
)

// BaseDefaults 与录入表单的默认值一致。
func BaseDefaults() layout.SheetConfig {
	return layout.SheetConfig{
		Repetitions: 5,
		GroupSize:   1,
		Orientation: layout.Portrait,
		Shape:       layout.ShapeCircle,
		Kind:        layout.KindRows,
	}
}

// Sheets 将文档中的 sheet 声明转换为渲染配置。defaults 块按出现顺序累积，
// 只影响其后的 sheet。标题中的 ${path} 占位符使用 data 替换。
func (d *Document) Sheets(base layout.SheetConfig, data any) ([]layout.SheetConfig, error) {
	if d == nil {
		return nil, fmt.Errorf("文档为空")
	}
	defaults := base
	var out []layout.SheetConfig
	for _, sec := range d.Sections {
		switch {
		case sec.Defaults != nil:
			if err := applyBlock(&defaults, sec.Defaults.Block); err != nil {
				return nil, err
			}
		case sec.Sheet != nil:
			cfg := defaults
			cfg.Title = binding.Interpolate(string(sec.Sheet.Title), data)
			if err := applyBlock(&cfg, sec.Sheet.Block); err != nil {
				return nil, err
			}
			out = append(out, cfg)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("文档中缺少 sheet 声明")
	}
	return out, nil
}

func applyBlock(cfg *layout.SheetConfig, block *Block) error {
	if block == nil {
		return nil
	}
	for _, a := range block.Entries {
		if err := apply(cfg, a); err != nil {
			return fmt.Errorf("%s: %w", a.Pos, err)
		}
	}
	return nil
}

func apply(cfg *layout.SheetConfig, a *Assignment) error {
	v := a.Value
	switch strings.ToLower(a.Key) {
	case "range":
		if v.Number == nil || v.Number.To == nil {
			return fmt.Errorf("range 需要写成 起始 - 结束")
		}
		cfg.Start, cfg.End = v.Number.From, *v.Number.To
	case "from", "start":
		n, err := number(a)
		if err != nil {
			return err
		}
		cfg.Start = n
	case "to", "end", "last":
		n, err := number(a)
		if err != nil {
			return err
		}
		cfg.End = n
	case "repetitions", "reps":
		n, err := number(a)
		if err != nil {
			return err
		}
		cfg.Repetitions = n
	case "group", "per-group":
		n, err := number(a)
		if err != nil {
			return err
		}
		cfg.GroupSize = n
		cfg.Grouped = true
	case "grouped":
		if v.Bool == nil {
			return fmt.Errorf("grouped 需要 true 或 false")
		}
		cfg.Grouped = bool(*v.Bool)
	case "orientation":
		o, err := layout.ParseOrientation(word(v))
		if err != nil {
			return err
		}
		cfg.Orientation = o
	case "shape":
		s, err := layout.ParseShape(word(v))
		if err != nil {
			return err
		}
		cfg.Shape = s
	case "layout":
		switch k := layout.SheetKind(strings.ToLower(word(v))); k {
		case layout.KindRows, layout.KindGrid:
			cfg.Kind = k
		default:
			return fmt.Errorf("未知的排版方式：%s", word(v))
		}
	case "page":
		cfg.PageSize = word(v)
	default:
		return fmt.Errorf("未知属性 %s", a.Key)
	}
	return nil
}

func number(a *Assignment) (int, error) {
	if a.Value.Number == nil || a.Value.Number.To != nil {
		return 0, fmt.Errorf("%s 需要一个整数", a.Key)
	}
	return a.Value.Number.From, nil
}

// word 返回标识符或字符串形式的值。
func word(v *Value) string {
	switch {
	case v.Ident != nil:
		return *v.Ident
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return fmt.Sprint(v.Number.From)
	default:
		return ""
	}
}
