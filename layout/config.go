package layout

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Orientation 为纸张方向。
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// ParseOrientation 解析方向字符串，空字符串视为纵向。
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portrait", "p":
		return Portrait, nil
	case "landscape", "l":
		return Landscape, nil
	default:
		return "", fmt.Errorf("未知的纸张方向：%s", s)
	}
}

// Shape 为计数记号的形状。
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeSquare Shape = "square"
)

// ParseShape 解析记号形状，空字符串视为圆形。
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "circle":
		return ShapeCircle, nil
	case "square":
		return ShapeSquare, nil
	default:
		return "", fmt.Errorf("未知的记号形状：%s", s)
	}
}

// SheetKind 选择排版方式。
type SheetKind string

const (
	KindRows SheetKind = "rows" // 每个条目或分组一行计数记号
	KindGrid SheetKind = "grid" // 带编号的方格
)

// Default upstream limits taken from the entry form.
const (
	MinTitleLen  = 3
	MaxTitleLen  = 20
	DefaultMaxNo = 300
)

// SheetConfig 是一次渲染的只读输入。
type SheetConfig struct {
	Title       string      `json:"title" yaml:"title"`
	Start       int         `json:"start" yaml:"start"`
	End         int         `json:"end" yaml:"end"`
	Repetitions int         `json:"repetitions" yaml:"repetitions"`
	Grouped     bool        `json:"isGrouped" yaml:"grouped"`
	GroupSize   int         `json:"groupSize" yaml:"group_size"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	Shape       Shape       `json:"shape" yaml:"shape"`
	Kind        SheetKind   `json:"kind" yaml:"kind"`
	PageSize    string      `json:"pageSize,omitempty" yaml:"page_size"`
}

// FullTitle 返回页眉标题，例如 "Al-Mulk: 1 - 30"。
func (c SheetConfig) FullTitle() string {
	return fmt.Sprintf("%s: %d - %d", c.Title, c.Start, c.End)
}

// withDefaults 填充方向、形状与类型的默认值。
func (c SheetConfig) withDefaults() SheetConfig {
	if c.Orientation == "" {
		c.Orientation = Portrait
	}
	if c.Shape == "" {
		c.Shape = ShapeCircle
	}
	if c.Kind == "" {
		c.Kind = KindRows
	}
	return c
}

// bodyProblem 返回导致正文为空的配置问题；返回空字符串表示可以排版。
func (c SheetConfig) bodyProblem() string {
	switch {
	case c.Start > c.End:
		return "起始编号大于结束编号"
	case c.Kind != KindGrid && c.Repetitions < 0:
		return "重复次数为负数"
	case c.Kind != KindGrid && c.Grouped && c.GroupSize < 1:
		return "分组大小必须为正数"
	}
	return ""
}

// ConfigError 汇总配置校验发现的问题。
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "配置无效: " + strings.Join(e.Problems, "; ")
}

// IsConfigError 判断 err 是否为配置错误。
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Validate 执行上游表单规则：标题 3–20 个字符、编号在 1..maxNo 内且起始小于结束、分组与重复次数为正。
// maxNo <= 0 时使用 DefaultMaxNo。
func (c SheetConfig) Validate(maxNo int) error {
	if maxNo <= 0 {
		maxNo = DefaultMaxNo
	}
	var problems []string
	n := utf8.RuneCountInString(strings.TrimSpace(c.Title))
	if n < MinTitleLen || n > MaxTitleLen {
		problems = append(problems, fmt.Sprintf("标题长度须在 %d-%d 个字符之间", MinTitleLen, MaxTitleLen))
	}
	if c.Start < 1 || c.Start > maxNo {
		problems = append(problems, fmt.Sprintf("起始编号须在 1-%d 之间", maxNo))
	}
	if c.End < 1 || c.End > maxNo {
		problems = append(problems, fmt.Sprintf("结束编号须在 1-%d 之间", maxNo))
	}
	if c.Start >= c.End {
		problems = append(problems, "起始编号必须小于结束编号")
	}
	if c.Kind != KindGrid {
		if c.Repetitions < 1 {
			problems = append(problems, "重复次数至少为 1")
		}
		if c.Grouped && c.GroupSize < 1 {
			problems = append(problems, "每组数量至少为 1")
		}
	}
	if _, _, err := PageSize(c.PageSize, c.Orientation); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}
