// Package main is the entry point for the Glade walking scene.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glade/internal/config"
	"github.com/Faultbox/glade/internal/debugserver"
	"github.com/Faultbox/glade/internal/game"
	"github.com/Faultbox/glade/internal/logger"
	"github.com/Faultbox/glade/internal/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "glade: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logOpts := logger.Options{Level: cfg.Logging.Level, Console: cfg.Logging.Console}
	if cfg.Logging.LogFile != "" {
		logOpts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.Init(logOpts); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("=== Glade ===")
	logger.Sugar.Debugf("config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.InitTelemetry(ctx, observability.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		// Tracing is optional; keep running without it.
		logger.Warn("telemetry disabled", zap.Error(err))
		shutdownTelemetry = func(context.Context) error { return nil }
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	g, err := game.New(cfg)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	defer g.Close()

	if cfg.Debug.Addr != "" {
		metrics := debugserver.NewMetrics(g.Tracker())
		srv := debugserver.New(g.Tracker(), metrics)
		addr, err := srv.Start(cfg.Debug.Addr)
		if err != nil {
			logger.Warn("debug server not started", zap.String("addr", cfg.Debug.Addr), zap.Error(err))
		} else {
			logger.Info("debug server listening", zap.String("addr", addr))
			g.SetFrameObserver(metrics)
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := srv.Shutdown(sctx); err != nil {
					logger.Warn("debug server shutdown", zap.Error(err))
				}
			}()
		}
	}

	if err := g.Run(ctx); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	logger.Info("game closed normally")
	return nil
}
