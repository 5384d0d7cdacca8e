package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"surah": map[string]any{"name": "Al-Mulk", "tags": []any{"juz29", "daily"}},
		"week":  float64(3),
	}
	got := Interpolate("${surah.name} (${ surah.tags[1] }) w${week}", data)
	if got != "Al-Mulk (daily) w3" {
		t.Fatalf("替换结果不符: %q", got)
	}
	if got := Interpolate("${missing} ok", data); got != "${missing} ok" {
		t.Fatalf("未知路径应保留占位符: %q", got)
	}
	if got := Interpolate("${x}", nil); got != "${x}" {
		t.Fatalf("空数据应原样返回: %q", got)
	}
}

func TestExpandReportsMissingFields(t *testing.T) {
	fields := map[string]any{"title": "Al-Mulk", "start": 1, "end": 30}
	got, err := Expand("${title}-${start}-${end}.pdf", fields)
	if err != nil {
		t.Fatalf("展开失败: %v", err)
	}
	if got != "Al-Mulk-1-30.pdf" {
		t.Fatalf("文件名不符: %q", got)
	}
	if _, err := Expand("${title}-${page}.pdf", fields); err == nil {
		t.Fatalf("缺失字段应报错")
	}
}

func TestLookupIndexes(t *testing.T) {
	data := map[string]any{"rows": []any{[]any{"a", "b"}}}
	v, ok := Lookup(data, "rows[0][1]")
	if !ok || v != "b" {
		t.Fatalf("下标查找失败: %v %v", v, ok)
	}
	if _, ok := Lookup(data, "rows[3]"); ok {
		t.Fatalf("越界下标应失败")
	}
	if _, ok := Lookup(data, "rows[x]"); ok {
		t.Fatalf("非法下标应失败")
	}
}
