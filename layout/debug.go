package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EncodeDebugJSON 将布局结果以缩进 JSON 写入 w，便于调试或可视化。
func EncodeDebugJSON(w io.Writer, res *Result) error {
	if res == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteDebugJSON 将布局结果写入 path，必要时创建目录。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
