package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestParseLength 覆盖常见单位到 mm 的换算。
func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1in", 25.4},
		{"2.54cm", 25.4},
		{"12pt", 12 * PtToMm},
		{"20mm", 20},
		{" 15 ", 15},
	}
	for _, c := range cases {
		l, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", c.in, err)
		}
		if got := l.ToMM(); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%q 转 mm 期望 %g，实际 %g", c.in, c.want, got)
		}
	}
	if _, err := ParseLength("abc"); err == nil {
		t.Fatalf("非法长度应返回错误")
	}
	if got := (Length{Value: 10, Unit: UnitMM}).ToPT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm 转 pt 期望 %g，实际 %g", 10*MmToPt, got)
	}
}

func TestPageSize(t *testing.T) {
	w, h, err := PageSize("", Portrait)
	if err != nil || w != 210 || h != 297 {
		t.Fatalf("默认应为 A4 纵向，实际 %gx%g err=%v", w, h, err)
	}
	w, h, err = PageSize("a5", Landscape)
	if err != nil || w != 210 || h != 148 {
		t.Fatalf("A5 横向错误: %gx%g err=%v", w, h, err)
	}
	if _, _, err := PageSize("B3", Portrait); err == nil {
		t.Fatalf("未知纸张应返回错误")
	}
}

func TestCustomPageSize(t *testing.T) {
	w, h, err := PageSize("150mm x 8in", Portrait)
	if err != nil {
		t.Fatalf("自定义尺寸解析失败: %v", err)
	}
	if w != 150 || math.Abs(h-203.2) > 1e-9 {
		t.Fatalf("自定义尺寸错误: %gx%g", w, h)
	}
	w, _, _ = PageSize("15cmx20cm", Landscape)
	if w != 200 {
		t.Fatalf("横向应交换宽高，实际宽 %g", w)
	}
	for _, bad := range []string{"50mm x 200mm", "wide x tall", "150mm"} {
		if _, _, err := PageSize(bad, Portrait); err == nil {
			t.Fatalf("%q 应返回错误", bad)
		}
	}
}
