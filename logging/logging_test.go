package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracksheet.log")
	var console bytes.Buffer
	InitWriter(Options{Level: "debug", Format: "json", File: path}, &console)
	t.Cleanup(func() { _ = Close() })

	WithComponent("layout").Debug("分页", slog.Int("page", 2))
	if err := Close(); err != nil {
		t.Fatalf("关闭日志文件失败: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	var last string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("日志行不是 JSON: %v", err)
	}
	if m["app"] != "tracksheet" || m["component"] != "layout" || m["msg"] != "分页" {
		t.Fatalf("字段不符: %v", m)
	}
	if m["page"] != float64(2) {
		t.Fatalf("page 字段不符: %v", m["page"])
	}
	if !strings.Contains(console.String(), `"component":"layout"`) {
		t.Fatalf("控制台应同样输出 JSON: %q", console.String())
	}
}

func TestConsoleLevelFilter(t *testing.T) {
	var console bytes.Buffer
	InitWriter(Options{Level: "warn"}, &console)
	L().Info("忽略")
	L().Warn("保留")
	out := console.String()
	if strings.Contains(out, "忽略") || !strings.Contains(out, "保留") {
		t.Fatalf("级别过滤不正确: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, " WARN ": slog.LevelWarn, "warning": slog.LevelWarn,
		"error": slog.LevelError, "": slog.LevelInfo, "verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
