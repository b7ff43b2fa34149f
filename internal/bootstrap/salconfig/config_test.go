package salconfig

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func boolPtr(v bool) *bool {
	return &v
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sal.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromPathMergesYAML(t *testing.T) {
	t.Setenv("SAL_ENV", "")
	path := writeConfig(t, `
server:
  addr: 0.0.0.0:9000
  maxBodyBytes: 2048
  shutdownTimeout: 12s
rateLimit:
  rps: 5
  burst: 10
metrics:
  enabled: false
log:
  level: debug
mock:
  error: backend offline
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Fatalf("expected addr from file, got %q", cfg.Addr)
	}
	if cfg.MaxBodyBytes != 2048 {
		t.Fatalf("expected maxBodyBytes=2048, got %d", cfg.MaxBodyBytes)
	}
	if cfg.ShutdownTimeout != 12*time.Second {
		t.Fatalf("expected shutdownTimeout=12s, got %s", cfg.ShutdownTimeout)
	}
	if cfg.ReadHeaderTimeout != 5*time.Second {
		t.Fatalf("expected default readHeaderTimeout, got %s", cfg.ReadHeaderTimeout)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 || !cfg.RateLimitEnabled {
		t.Fatalf("unexpected rate limit config: %+v", cfg)
	}
	if cfg.MetricsEnabled {
		t.Fatal("expected metrics disabled by file")
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug level, got %s", cfg.LogLevel)
	}
	if cfg.MockError != "backend offline" {
		t.Fatalf("expected mock error from file, got %q", cfg.MockError)
	}
}

func TestLoadFromPathExplicitMissingFileFails(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadFromPathInvalidLevelFails(t *testing.T) {
	path := writeConfig(t, "log:\n  level: chatty\n")
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestMergeDoesNotOverwriteBoolDefaultsWhenUnset(t *testing.T) {
	dst := DefaultConfig()
	if err := Merge(&dst, FileConfig{Server: FileServerConfig{Addr: "127.0.0.1:1"}}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !dst.RateLimitEnabled || !dst.MetricsEnabled {
		t.Fatalf("unset bools must keep defaults: %+v", dst)
	}

	if err := Merge(&dst, FileConfig{RateLimit: FileRateLimitConfig{Enabled: boolPtr(false)}}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if dst.RateLimitEnabled {
		t.Fatal("explicit false must disable rate limiting")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SAL_RPC_ADDR", "127.0.0.1:7070")
	t.Setenv("SAL_RATE_LIMIT_ENABLED", "off")
	t.Setenv("SAL_RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("SAL_RATE_LIMIT_BURST", "3")
	t.Setenv("SAL_METRICS_ENABLED", "false")
	t.Setenv("SAL_LOG_LEVEL", "WARN")
	t.Setenv("SAL_MOCK_ERROR", "boom")

	cfg := DefaultConfig()
	if err := ApplyEnvOverrides(&cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7070" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if cfg.RateLimitEnabled {
		t.Fatal("expected rate limit disabled by env")
	}
	if cfg.RateLimitRPS != 30 {
		t.Fatalf("invalid rps must be ignored, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 3 {
		t.Fatalf("expected burst=3, got %d", cfg.RateLimitBurst)
	}
	if cfg.MetricsEnabled {
		t.Fatal("expected metrics disabled by env")
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Fatalf("expected warn level, got %s", cfg.LogLevel)
	}
	if cfg.MockError != "boom" {
		t.Fatalf("expected mock error boom, got %q", cfg.MockError)
	}
}

func TestTestEnvDisablesRateLimitByDefault(t *testing.T) {
	t.Setenv("SAL_ENV", "test")
	cfg := DefaultConfig()
	if err := ApplyEnvOverrides(&cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.RateLimitEnabled {
		t.Fatal("expected rate limit disabled in test env")
	}
}
