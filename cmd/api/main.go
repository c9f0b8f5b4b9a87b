// Package main provides the entry point for the Pantry API server
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/container"
)

func main() {
	configPath := flag.String("config", os.Getenv("PANTRY_CONFIG"), "path to the configuration file")
	flag.Parse()

	var cfg *config.Config
	app := fx.New(
		fx.Supply(container.ConfigPath(*configPath)),
		fx.WithLogger(func(log *zap.Logger, cfg *config.Config) fxevent.Logger {
			if !cfg.App.Debug {
				return fxevent.NopLogger
			}
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		container.Module,
		fx.Populate(&cfg),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	exitCode := 0
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		exitCode = sig.ExitCode
	}

	timeout := 30 * time.Second
	if cfg != nil && cfg.Server.ShutdownTimeout > 0 {
		timeout = cfg.Server.ShutdownTimeout
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), timeout)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Fatalf("Failed to stop application gracefully: %v", err)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
