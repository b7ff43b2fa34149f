package salserver

import (
	"io"
	"log/slog"
	"time"

	"foldy/sal/internal/adapters/mockbackend"
	"foldy/sal/internal/adapters/rpc"
	"foldy/sal/internal/bootstrap/salconfig"
	"foldy/sal/internal/domains/contracts"
	"foldy/sal/internal/platform/privacylog"
	"foldy/sal/internal/platform/ratelimiter"
)

// NewLogger builds the process logger: JSON lines on out, filtered through the
// privacy sanitizer.
func NewLogger(out io.Writer, level slog.Level) *slog.Logger {
	base := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(privacylog.WrapHandler(base))
}

// BuildBackend returns the backend served by this process. Only the mock is
// built in; real simulation backends plug in through NewRPCServer.
func BuildBackend(cfg salconfig.Config) contracts.Backend {
	if cfg.MockError != "" {
		return mockbackend.Failing(cfg.MockError)
	}
	return mockbackend.New()
}

// NewRPCServer wires cfg, logger and backend into the HTTP transport.
func NewRPCServer(cfg salconfig.Config, logger *slog.Logger, backend contracts.Backend) *rpc.Server {
	opts := rpc.Options{
		Addr:              cfg.Addr,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.ShutdownTimeout,
		Logger:            logger,
	}
	if cfg.MetricsEnabled {
		opts.Metrics = rpc.NewMetrics()
	}
	if cfg.RateLimitEnabled {
		opts.Limiter = ratelimiter.New(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	}
	logger.Info("rpc server configured",
		"addr", cfg.Addr,
		"metrics", cfg.MetricsEnabled,
		"rate_limit", cfg.RateLimitEnabled,
		"backend_failing", cfg.MockError != "")
	return rpc.NewServer(backend, opts)
}
