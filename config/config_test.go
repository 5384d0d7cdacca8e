package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{EnvBackend, EnvScriptFont, EnvOutputDir, EnvMaxNumber, EnvLogLevel, EnvLogFormat, EnvLogFile} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMergesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tracksheet.yaml")
	yml := `config_version: 1
render:
  backend: FPDF
  page_size: a5
output:
  dir: out
limits:
  max_number: 604
logging:
  level: DEBUG
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := Defaults()
	want.Render.Backend = "fpdf"
	want.Render.PageSize = "A5"
	want.Output.Dir = "out"
	want.Limits.MaxNumber = 604
	want.Logging.Level = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("merged config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("render: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("malformed YAML should fail")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBackend, " fpdf ")
	t.Setenv(EnvScriptFont, "/fonts/Amiri.ttf")
	t.Setenv(EnvMaxNumber, "286")
	t.Setenv(EnvLogFormat, "JSON")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Render.Backend != "fpdf" || cfg.Render.ScriptFont != "/fonts/Amiri.ttf" {
		t.Fatalf("render overrides not applied: %#v", cfg.Render)
	}
	if cfg.Limits.MaxNumber != 286 || cfg.Logging.Format != "json" {
		t.Fatalf("overrides not applied: %#v %#v", cfg.Limits, cfg.Logging)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tracksheet.yaml")
	cfg := Defaults()
	cfg.Output.FileTemplate = "${title}.pdf"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Output.FileTemplate != "${title}.pdf" {
		t.Fatalf("template = %q", got.Output.FileTemplate)
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfig, "")
	if got := ResolvePath(""); got != DefaultFile {
		t.Fatalf("ResolvePath() = %q", got)
	}
	t.Setenv(EnvConfig, "/etc/tracksheet.yaml")
	if got := ResolvePath(""); got != "/etc/tracksheet.yaml" {
		t.Fatalf("ResolvePath() = %q", got)
	}
	if got := ResolvePath("local.yaml"); got != "local.yaml" {
		t.Fatalf("explicit path should win, got %q", got)
	}
}
