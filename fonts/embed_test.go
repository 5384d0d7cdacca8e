package fonts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	for _, src := range []string{"builtin:sans-regular", "built-in:sans-bold", "builtin:script-bold"} {
		data, err := Load(src)
		if err != nil {
			t.Fatalf("加载 %s 失败: %v", src, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s 字节为空", src)
		}
	}
	if _, err := Load("builtin:comic-sans"); err == nil {
		t.Fatalf("未知内置字体应报错")
	}
	if _, err := Load(""); err == nil {
		t.Fatalf("空来源应报错")
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.ttf")
	if err := os.WriteFile(path, []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := Load(path)
	if err != nil || string(data) != "fake" {
		t.Fatalf("按路径加载失败: %q %v", data, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Fatalf("缺失文件应报错")
	}
}
