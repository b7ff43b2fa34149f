package salconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultAddr = "127.0.0.1:8080"

// Config is the resolved runtime configuration of the backend server.
type Config struct {
	Addr              string
	MaxBodyBytes      int64
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	MetricsEnabled bool

	LogLevel slog.Level

	// MockError switches the built-in mock backend into failure mode when set.
	MockError string
}

// FileConfig mirrors the YAML layout. Pointer fields distinguish "unset" from
// an explicit zero value.
type FileConfig struct {
	Server    FileServerConfig    `yaml:"server"`
	RateLimit FileRateLimitConfig `yaml:"rateLimit"`
	Metrics   FileMetricsConfig   `yaml:"metrics"`
	Log       FileLogConfig       `yaml:"log"`
	Mock      FileMockConfig      `yaml:"mock"`
}

type FileServerConfig struct {
	Addr              string        `yaml:"addr"`
	MaxBodyBytes      int64         `yaml:"maxBodyBytes"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
}

type FileRateLimitConfig struct {
	Enabled *bool   `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

type FileMetricsConfig struct {
	Enabled *bool `yaml:"enabled"`
}

type FileLogConfig struct {
	Level string `yaml:"level"`
}

type FileMockConfig struct {
	Error *string `yaml:"error"`
}

func DefaultConfig() Config {
	return Config{
		Addr:              DefaultAddr,
		MaxBodyBytes:      1 << 20,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		RateLimitEnabled:  true,
		RateLimitRPS:      30,
		RateLimitBurst:    60,
		MetricsEnabled:    true,
		LogLevel:          slog.LevelInfo,
	}
}

// LoadFromPath reads configPath, or the first readable default candidate when
// configPath is empty, merges it onto the defaults and applies SAL_*
// environment overrides. Only an explicit path that cannot be read or parsed
// is an error.
func LoadFromPath(configPath string) (Config, error) {
	cfg := DefaultConfig()

	candidates := []string{"configs/sal.yaml", "sal/configs/sal.yaml"}
	if configPath != "" {
		candidates = []string{configPath}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if configPath != "" {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Default().Warn("config candidate unreadable", "path", path, "error", err)
			}
			continue
		}
		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			if configPath != "" {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
			slog.Default().Warn("config candidate invalid", "path", path, "error", err)
			continue
		}
		if err := Merge(&cfg, parsed); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
		break
	}

	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Merge(dst *Config, src FileConfig) error {
	if src.Server.Addr != "" {
		dst.Addr = src.Server.Addr
	}
	if src.Server.MaxBodyBytes > 0 {
		dst.MaxBodyBytes = src.Server.MaxBodyBytes
	}
	if src.Server.ReadHeaderTimeout > 0 {
		dst.ReadHeaderTimeout = src.Server.ReadHeaderTimeout
	}
	if src.Server.ShutdownTimeout > 0 {
		dst.ShutdownTimeout = src.Server.ShutdownTimeout
	}
	if src.RateLimit.Enabled != nil {
		dst.RateLimitEnabled = *src.RateLimit.Enabled
	}
	if src.RateLimit.RPS > 0 {
		dst.RateLimitRPS = src.RateLimit.RPS
	}
	if src.RateLimit.Burst > 0 {
		dst.RateLimitBurst = src.RateLimit.Burst
	}
	if src.Metrics.Enabled != nil {
		dst.MetricsEnabled = *src.Metrics.Enabled
	}
	if src.Log.Level != "" {
		level, err := ParseLevel(src.Log.Level)
		if err != nil {
			return err
		}
		dst.LogLevel = level
	}
	if src.Mock.Error != nil {
		dst.MockError = *src.Mock.Error
	}
	return nil
}

func ApplyEnvOverrides(cfg *Config) error {
	if addr := strings.TrimSpace(os.Getenv("SAL_RPC_ADDR")); addr != "" {
		cfg.Addr = addr
	}
	if v, ok := parseBoolEnv("SAL_RATE_LIMIT_ENABLED"); ok {
		cfg.RateLimitEnabled = v
	} else if isTestEnv() {
		cfg.RateLimitEnabled = false
	}
	if raw := strings.TrimSpace(os.Getenv("SAL_RATE_LIMIT_RPS")); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			cfg.RateLimitRPS = parsed
		}
	}
	if raw := strings.TrimSpace(os.Getenv("SAL_RATE_LIMIT_BURST")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			cfg.RateLimitBurst = parsed
		}
	}
	if v, ok := parseBoolEnv("SAL_METRICS_ENABLED"); ok {
		cfg.MetricsEnabled = v
	}
	if raw := strings.TrimSpace(os.Getenv("SAL_LOG_LEVEL")); raw != "" {
		level, err := ParseLevel(raw)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	if msg, ok := os.LookupEnv("SAL_MOCK_ERROR"); ok {
		cfg.MockError = msg
	}
	return nil
}

func ParseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}

func parseBoolEnv(name string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func isTestEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SAL_ENV"))) {
	case "test", "testing":
		return true
	default:
		return false
	}
}
