// Package config 读取 tracksheet.yaml，并叠加环境变量覆盖。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile 是未指定路径时在当前目录查找的配置文件名。
const DefaultFile = "tracksheet.yaml"

type RenderConfig struct {
	Backend    string `yaml:"backend"`     // canvas | fpdf
	PageSize   string `yaml:"page_size"`   // A4 | A5 | LETTER
	ScriptFont string `yaml:"script_font"` // RTL 标题使用的 TTF 路径
	PreviewDPM int    `yaml:"preview_dpmm"`
}

type OutputConfig struct {
	Dir          string `yaml:"dir"`
	FileTemplate string `yaml:"file_template"`
}

type LimitsConfig struct {
	MaxNumber int `yaml:"max_number"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// AppConfig 是持久化到 YAML 的应用配置。config_version 在结构不兼容变化时递增。
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Render        RenderConfig  `yaml:"render"`
	Output        OutputConfig  `yaml:"output"`
	Limits        LimitsConfig  `yaml:"limits"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Render:        RenderConfig{Backend: "canvas", PageSize: "A4", PreviewDPM: 4},
		Output:        OutputConfig{Dir: ".", FileTemplate: "${title}-${start}-${end}.pdf"},
		Limits:        LimitsConfig{MaxNumber: 300},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// 环境变量覆盖。
const (
	EnvConfig     = "TRACKSHEET_CONFIG"
	EnvBackend    = "TRACKSHEET_BACKEND"
	EnvScriptFont = "TRACKSHEET_SCRIPT_FONT"
	EnvOutputDir  = "TRACKSHEET_OUTPUT_DIR"
	EnvMaxNumber  = "TRACKSHEET_MAX_NUMBER"
	EnvLogLevel   = "TRACKSHEET_LOG_LEVEL"
	EnvLogFormat  = "TRACKSHEET_LOG_FORMAT"
	EnvLogFile    = "TRACKSHEET_LOG_FILE"
)

// ResolvePath 返回配置文件路径：显式参数优先，其次 TRACKSHEET_CONFIG，最后为当前目录下的 DefaultFile。
func ResolvePath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p
	}
	return DefaultFile
}

// Load 读取 path（不存在时只用默认值），合并文件内容并应用环境变量覆盖。
// 文件存在但无法解析时返回错误。
func Load(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	ApplyEnv(&cfg)
	return cfg, nil
}

// Save 将配置写入 path，必要时创建目录。
func Save(path string, cfg AppConfig) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	setLower(&dst.Render.Backend, src.Render.Backend)
	if v := strings.TrimSpace(src.Render.PageSize); v != "" {
		dst.Render.PageSize = strings.ToUpper(v)
	}
	setTrim(&dst.Render.ScriptFont, src.Render.ScriptFont)
	if src.Render.PreviewDPM > 0 {
		dst.Render.PreviewDPM = src.Render.PreviewDPM
	}
	setTrim(&dst.Output.Dir, src.Output.Dir)
	setTrim(&dst.Output.FileTemplate, src.Output.FileTemplate)
	if src.Limits.MaxNumber > 0 {
		dst.Limits.MaxNumber = src.Limits.MaxNumber
	}
	setLower(&dst.Logging.Level, src.Logging.Level)
	setLower(&dst.Logging.Format, src.Logging.Format)
	setTrim(&dst.Logging.File, src.Logging.File)
}

// ApplyEnv 用环境变量覆盖 cfg。
func ApplyEnv(cfg *AppConfig) {
	setLower(&cfg.Render.Backend, os.Getenv(EnvBackend))
	setTrim(&cfg.Render.ScriptFont, os.Getenv(EnvScriptFont))
	setTrim(&cfg.Output.Dir, os.Getenv(EnvOutputDir))
	if v := strings.TrimSpace(os.Getenv(EnvMaxNumber)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limits.MaxNumber = n
		}
	}
	setLower(&cfg.Logging.Level, os.Getenv(EnvLogLevel))
	setLower(&cfg.Logging.Format, os.Getenv(EnvLogFormat))
	setTrim(&cfg.Logging.File, os.Getenv(EnvLogFile))
}

func setTrim(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setLower(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = strings.ToLower(v)
	}
}
