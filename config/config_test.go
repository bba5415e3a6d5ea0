package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Mode != "token-role" || cfg.Parser.Kind != ParserSpacy || cfg.Server.Addr != ":8050" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
mode: noun-phrase
repository: /tmp/mindmap.db
parser:
  kind: remote
  cache: true
  remote:
    url: http://localhost:9000/annotate
    timeout: 5s
log:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Mode != "noun-phrase" || cfg.Repository != "/tmp/mindmap.db" {
		t.Errorf("unexpected config %+v", cfg)
	}

	if cfg.Parser.Remote.URL != "http://localhost:9000/annotate" || cfg.Parser.Remote.Timeout != 5*time.Second {
		t.Errorf("unexpected remote config %+v", cfg.Parser.Remote)
	}

	// defaults not in the file survive
	if cfg.Parser.Remote.Burst != 5 || cfg.Parser.Spacy.Model != "en_core_web_sm" {
		t.Errorf("expected defaults to be kept, got %+v", cfg.Parser)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "mode: noun-phrase\n")

	t.Setenv("MINDMAP_MODE", "dependency")
	t.Setenv("MINDMAP_SPACY_COMMAND", "python3.11 /opt/worker.py")
	t.Setenv("MINDMAP_CORS_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("MINDMAP_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Mode != "dependency" || cfg.Log.Level != "warn" {
		t.Errorf("env did not override: %+v", cfg)
	}

	if strings.Join(cfg.Parser.Spacy.Command, "|") != "python3.11|/opt/worker.py" {
		t.Errorf("unexpected command %v", cfg.Parser.Spacy.Command)
	}

	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("unexpected origins %v", cfg.Server.CORSOrigins)
	}
}

func TestEnvInvalidValue(t *testing.T) {
	t.Setenv("MINDMAP_CACHE", "maybe")

	if _, err := Load(""); err == nil {
		t.Errorf("expected invalid bool error")
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"parser kind": func(c *Config) { c.Parser.Kind = "stanza" },
		"remote url":  func(c *Config) { c.Parser.Kind = ParserRemote },
		"log level":   func(c *Config) { c.Log.Level = "trace" },
		"log format":  func(c *Config) { c.Log.Format = "xml" },
		"cache":       func(c *Config) { c.Parser.Cache = true },
	}

	for name, mutate := range tests {
		cfg := Default()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "mode: [\n")

	if _, err := Load(path); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("MINDMAP_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	if got := Path(); got != filepath.Join("/xdg", "mindmap", "config.yml") {
		t.Errorf("unexpected path %q", got)
	}

	t.Setenv("MINDMAP_CONFIG", "/etc/mindmap.yml")
	if got := Path(); got != "/etc/mindmap.yml" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandTilde("~/maps"); got != filepath.Join(home, "maps") {
		t.Errorf("unexpected expansion %q", got)
	}

	if got := ExpandTilde("/abs/~"); got != "/abs/~" {
		t.Errorf("unexpected expansion %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !logger.Core().Enabled(-1) {
		t.Errorf("expected debug level to be enabled")
	}

	if _, err := NewLogger(LogConfig{Level: "loud"}); err == nil {
		t.Errorf("expected invalid level error")
	}
}
