package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths and the page size presets.

// Unit represents the unit a length was written in.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToMM converts the length to millimeters. Unit-less values are taken as mm.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT converts the length to points.
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

// ParseLength parses strings such as "20mm", "1in" or "12pt".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// pagePresets 以纵向尺寸（mm）记录支持的纸张。
var pagePresets = map[string][2]float64{
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
}

// minCustomSide 是自定义纸张每边的最小长度（mm），保证页眉、页脚与至少一行记号放得下。
const minCustomSide = 100.0

// PageSize 返回纸张在给定方向下的宽高（mm）；空名称视为 A4。
// 除预设名称外也接受 "宽x高" 形式的自定义尺寸，例如 "150mm x 8in"，按纵向给出。
func PageSize(name string, orientation Orientation) (float64, float64, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		key = "A4"
	}
	base, ok := pagePresets[key]
	if !ok {
		var err error
		if base, err = customPageSize(name); err != nil {
			return 0, 0, err
		}
	}
	width, height := base[0], base[1]
	if orientation == Landscape {
		width, height = height, width
	}
	return width, height, nil
}

func customPageSize(name string) ([2]float64, error) {
	w, h, ok := strings.Cut(strings.ToLower(name), "x")
	if !ok {
		return [2]float64{}, fmt.Errorf("暂不支持的纸张尺寸：%s", name)
	}
	width, err := ParseLength(w)
	if err != nil {
		return [2]float64{}, err
	}
	height, err := ParseLength(h)
	if err != nil {
		return [2]float64{}, err
	}
	size := [2]float64{width.ToMM(), height.ToMM()}
	if size[0] < minCustomSide || size[1] < minCustomSide {
		return [2]float64{}, fmt.Errorf("纸张尺寸过小：%s（每边至少 %gmm）", name, minCustomSide)
	}
	return size, nil
}
