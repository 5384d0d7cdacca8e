package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TRACKSHEET_CONFIG", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("TRACKSHEET_LOG_FILE", "")
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestInlineFlags(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "", "--title", "Test", "--from", "1", "--to", "12", "--group", "5", "--out", dir, "--preview", "--debug", filepath.Join(dir, "debug"))
	if err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	if !strings.Contains(out, "Test-1-12.pdf") {
		t.Fatalf("输出缺少文件路径: %q", out)
	}
	for _, name := range []string{"Test-1-12.pdf", "Test-1-12.png", filepath.Join("debug", "Test-1-12.json")} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("缺少 %s: %v", name, err)
		}
	}
}

func TestJSONFromStdin(t *testing.T) {
	dir := t.TempDir()
	in := `{"title": "Al-Mulk", "startAyah": 1, "lastAyah": 30, "shape": "square"}`
	out, err := execute(t, in, "--json", "-", "--out", dir, "--data-uri")
	if err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	if !strings.HasPrefix(out, "data:application/pdf;filename=separate-ayahs-Al-Mulk-1-30.pdf;base64,") {
		t.Fatalf("data URI 不符: %.80s", out)
	}
}

func TestTallyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "week.tally")
	tally := `tracker v1 {
  defaults { reps: 3 }
  sheet "${name}" { range: 1 - 10 }
  sheet "Grid" { range: 1 - 40  layout: grid }
}`
	if err := os.WriteFile(src, []byte(tally), 0o644); err != nil {
		t.Fatalf("写入 tally 失败: %v", err)
	}
	if _, err := execute(t, "", src, "--data", `{"name": "Yasin"}`, "--out", dir, "--backend", "fpdf"); err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	for _, name := range []string{"Yasin-1-10.pdf", "Grid-1-40.pdf"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("缺少 %s: %v", name, err)
		}
	}
}

func TestInputSourceRules(t *testing.T) {
	if _, err := execute(t, ""); err == nil {
		t.Fatalf("没有输入时应报错")
	}
	if _, err := execute(t, "", "x.tally", "--title", "Test"); err == nil {
		t.Fatalf("多个输入来源应报错")
	}
	if _, err := execute(t, "", "--title", "Test", "--from", "5", "--to", "1", "--out", t.TempDir()); err == nil {
		t.Fatalf("起始大于结束应被校验拒绝")
	}
}
