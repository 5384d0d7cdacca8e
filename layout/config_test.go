package layout

import (
	"errors"
	"testing"

	"golang.org/x/text/unicode/bidi"
)

func TestIsRightToLeft(t *testing.T) {
	cases := map[string]bool{
		"Al-Mulk":         false,
		"سورة الملك":      true,
		"Juz ٣":           true,
		"":                false,
		"Test: 1 - 12":    false,
		"Surah البقرة 2": true,
	}
	for in, want := range cases {
		if got := IsRightToLeft(in); got != want {
			t.Fatalf("IsRightToLeft(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestResolveDirection(t *testing.T) {
	m := Margin{Top: 20, Right: 20, Bottom: 20, Left: 20}
	ltr := ResolveDirection("Test", 210, m)
	if ltr.Dir != bidi.LeftToRight || ltr.AdvanceSign != 1 || ltr.AnchorX != 20 || ltr.Align != "left" {
		t.Fatalf("LTR 方向参数错误: %+v", ltr)
	}
	rtl := ResolveDirection("الملك", 210, m)
	if !rtl.RTL() || rtl.AdvanceSign != -1 || rtl.AnchorX != 190 || rtl.Align != "right" {
		t.Fatalf("RTL 方向参数错误: %+v", rtl)
	}
	if got := rtl.Inset(20); got != 170 {
		t.Fatalf("RTL 缩进应为 170，实际 %g", got)
	}
}

func TestValidate(t *testing.T) {
	ok := SheetConfig{Title: "Al-Mulk", Start: 1, End: 30, Repetitions: 5}
	if err := ok.Validate(0); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}

	bad := SheetConfig{Title: "ab", Start: 30, End: 30, Repetitions: 0, Grouped: true, GroupSize: 0}
	err := bad.Validate(0)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("期望 ConfigError，实际 %v", err)
	}
	if len(ce.Problems) != 4 {
		t.Fatalf("期望 4 个问题，实际 %d: %v", len(ce.Problems), ce.Problems)
	}
	if !IsConfigError(err) {
		t.Fatalf("IsConfigError 应返回 true")
	}

	limit := SheetConfig{Title: "Al-Baqarah", Start: 1, End: 286, Repetitions: 1}
	if err := limit.Validate(200); err == nil {
		t.Fatalf("超过上限应报错")
	}
	grid := SheetConfig{Title: "Pages", Start: 1, End: 604, Kind: KindGrid}
	if err := grid.Validate(604); err != nil {
		t.Fatalf("方格不需要重复次数: %v", err)
	}
}

func TestParseEnums(t *testing.T) {
	if o, err := ParseOrientation(""); err != nil || o != Portrait {
		t.Fatalf("默认方向应为纵向: %v %v", o, err)
	}
	if o, err := ParseOrientation("Landscape"); err != nil || o != Landscape {
		t.Fatalf("解析横向失败: %v %v", o, err)
	}
	if _, err := ParseOrientation("diagonal"); err == nil {
		t.Fatalf("非法方向应报错")
	}
	if s, err := ParseShape("square"); err != nil || s != ShapeSquare {
		t.Fatalf("解析方形失败: %v %v", s, err)
	}
	if _, err := ParseShape("star"); err == nil {
		t.Fatalf("非法形状应报错")
	}
}
