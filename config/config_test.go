package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sweetpotato0/ai-uigen/contrib/provider/gemini"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY",
		"UIGEN_GEMINI_API_KEY",
		"UIGEN_GEMINI_MODEL",
		"UIGEN_GEMINI_BASE_URL",
		"UIGEN_GEMINI_TIMEOUT",
		"UIGEN_RETRY_MAX_ATTEMPTS",
		"UIGEN_RETRY_BASE_DELAY",
		"UIGEN_SERVER_ADDR",
		"UIGEN_TELEMETRY_DISABLE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Errorf("APIKey = %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != gemini.DefaultModel || cfg.Gemini.BaseURL != gemini.DefaultBaseURL {
		t.Errorf("unexpected gemini defaults %+v", cfg.Gemini)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.BaseDelay != time.Second {
		t.Errorf("unexpected retry defaults %+v", cfg.Retry)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "uigen.yaml")
	content := `gemini:
  api_key: from-file
  model: gemini-test
retry:
  base_delay: 250ms
server:
  addr: 0.0.0.0:9000
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("UIGEN_SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("UIGEN_RETRY_MAX_ATTEMPTS", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Gemini.APIKey != "from-file" || cfg.Gemini.Model != "gemini-test" {
		t.Errorf("unexpected gemini config %+v", cfg.Gemini)
	}
	if cfg.Retry.BaseDelay != 250*time.Millisecond || cfg.Retry.MaxAttempts != 3 {
		t.Errorf("unexpected retry config %+v", cfg.Retry)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Errorf("Addr = %q, want env override", cfg.Server.Addr)
	}

	pc := cfg.Gemini.GeminiProviderConfig()
	if pc.APIKey != "from-file" || pc.Model != "gemini-test" {
		t.Errorf("unexpected provider config %+v", pc)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	clearEnv(t)
	_, err := Load("")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "gemini.api_key") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
