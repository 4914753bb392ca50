// Package cli holds the start-up helpers shared by cmd/upidash and cmd/txtool.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"upidash/internal/config"
	"upidash/internal/dataset"
	applog "upidash/internal/log"
	"upidash/internal/sheets"
)

// SetupLogger builds the process logger at level and installs it as the
// slog default.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(level)
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig exits the process when the configuration is invalid.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// GracefulShutdown runs cleanup with a timeout-bound context on SIGINT or
// SIGTERM. The returned context is cancelled once cleanup has finished.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		cancel()
	}()

	return ctx
}

// RemoteReaders returns the extra dataset readers path needs. A Google
// Sheets client is created only when the source or path asks for one.
func RemoteReaders(ctx context.Context, st dataset.SourceType, path string, logger *applog.Logger) (map[dataset.SourceType]dataset.ReaderFunc, error) {
	if st != dataset.SourceSheets && !(st == dataset.SourceAuto && dataset.DetectSource(path) == dataset.SourceSheets) {
		return nil, nil
	}
	client, err := sheets.NewFromEnv(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("google sheets: %w", err)
	}
	return client.Readers(), nil
}
