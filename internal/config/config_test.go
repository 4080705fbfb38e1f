package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/run-bigpig/roundtable/internal/models"
)

// isolate 把配置目录指到临时目录，避免读到真实用户配置
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("OPENAI_MODEL", "")
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Backends) != 2 {
		t.Fatalf("expected 2 default backends, got %d", len(cfg.Backends))
	}
	if cfg.Backends[0].ModelName != DefaultModel || cfg.Backends[1].ModelName != DefaultFallbackModel {
		t.Errorf("default chain = %s, %s", cfg.Backends[0].ModelName, cfg.Backends[1].ModelName)
	}
	if cfg.Backends[0].APIKey != "test-key" {
		t.Error("env key not applied to gemini backend")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadOpenAIFallback(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "gk")
	t.Setenv("OPENAI_API_KEY", "ok")
	t.Setenv("OPENAI_BASE_URL", "https://proxy.example/v1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Backends) != 3 {
		t.Fatalf("expected 3 backends with openai fallback, got %d", len(cfg.Backends))
	}
	last := cfg.Backends[2]
	if last.Provider != models.AIProviderOpenAI || last.APIKey != "ok" || last.BaseURL != "https://proxy.example/v1" {
		t.Errorf("openai backend = %+v", last)
	}
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)

	dir := filepath.Dir(FilePath())
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := `{"backends":[{"provider":"gemini","modelName":"gemini-custom","apiKey":"file-key"}],"historyLimit":5}`
	if err := os.WriteFile(FilePath(), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Backends) != 1 || cfg.Backends[0].ModelName != "gemini-custom" {
		t.Errorf("backends = %+v", cfg.Backends)
	}
	if cfg.Backends[0].APIKey != "file-key" {
		t.Error("file key should survive empty env")
	}
	if cfg.HistoryLimit != 5 {
		t.Errorf("historyLimit = %d", cfg.HistoryLimit)
	}
}

func TestValidateNoKeys(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error with no api keys")
	}
}
