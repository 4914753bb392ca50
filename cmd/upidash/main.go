package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"upidash/internal/amqp"
	"upidash/internal/cli"
	"upidash/internal/dataset"
	apphttp "upidash/internal/http"
	applog "upidash/internal/log"
	"upidash/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	source, err := dataset.ParseSourceType(cfg.DataSource)
	if err != nil {
		logger.Error("Invalid data source", applog.FieldError, err)
		os.Exit(1)
	}

	readers, err := cli.RemoteReaders(context.Background(), source, cfg.DataPath, logger)
	if err != nil {
		logger.Error("Failed to configure data source", applog.FieldError, err)
		os.Exit(1)
	}

	loader := dataset.NewLoader(dataset.LoaderOptions{
		Source:    source,
		CacheSize: cfg.DatasetCacheSize,
		Logger:    logger,
		Readers:   readers,
	})
	dashboard := services.NewDashboard(loader, cfg.DataPath, cfg.TopMerchants, logger)

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.DialWithRetry(context.Background(), 3, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			logger.Error("Failed to connect to AMQP", applog.FieldError, err)
			os.Exit(1)
		}
		dashboard.SetPublisher(events)
	}

	// A dataset that cannot be loaded at startup is fatal.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	err = dashboard.Warmup(warmCtx)
	warmCancel()
	if err != nil {
		logger.Error("Failed to load dataset",
			applog.NewFields().WithError(err).WithOperation(applog.OpStartup).ToSlice()...)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:            ":" + cfg.Port,
		Dashboard:       dashboard,
		Cache:           loader,
		CurrencySymbol:  cfg.CurrencySymbol,
		RequestTimeout:  cfg.RequestTimeout,
		ReloadPerMinute: cfg.ReloadRateLimit,
		TrustedProxies:  cfg.TrustedProxies,
		Logger:          logger,
	})
	if err != nil {
		logger.Error("Failed to create server", applog.FieldError, err)
		os.Exit(1)
	}

	done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if events != nil {
			_ = events.Close()
		}
	})

	logger.Info("Starting dashboard server",
		"port", cfg.Port,
		applog.FieldDataPath, cfg.DataPath,
		applog.FieldSource, source.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done.Done()
	logger.Info("Server stopped gracefully")
}
