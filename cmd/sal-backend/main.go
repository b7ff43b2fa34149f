package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"foldy/sal/internal/bootstrap/salconfig"
	"foldy/sal/internal/composition/salserver"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "Path to sal.yaml (optional)")
	rpcAddr := flag.String("rpc-addr", "", "HTTP listen address override")
	logLevel := flag.String("log-level", "", "Log level override: debug | info | warn | error")
	mockError := flag.String("mock-error", "", "Serve a mock backend that fails every call with this message")
	flag.Parse()
	if *showVersion {
		fmt.Printf("sal-backend version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	cfg, err := salconfig.LoadFromPath(*configPath)
	if err != nil {
		log.Fatalf("sal-backend failed to load config: %v", err)
	}
	if *rpcAddr != "" {
		cfg.Addr = *rpcAddr
	}
	if *logLevel != "" {
		level, err := salconfig.ParseLevel(*logLevel)
		if err != nil {
			log.Fatalf("sal-backend: %v", err)
		}
		cfg.LogLevel = level
	}
	if *mockError != "" {
		cfg.MockError = *mockError
	}

	logger := salserver.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := salserver.NewRPCServer(cfg, logger, salserver.BuildBackend(cfg))
	logger.Info("sal-backend starting", "version", version, "commit", commit)
	if err := srv.Run(ctx); err != nil {
		logger.Error("sal-backend failed", "error", err)
		os.Exit(1)
	}
	logger.Info("sal-backend stopped")
}
