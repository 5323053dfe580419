package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/buildmat/buildmat/cmd/buildmat/cli"
	"github.com/buildmat/buildmat/internal/app"
	"github.com/buildmat/buildmat/internal/observability"
	"github.com/buildmat/buildmat/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		jobsCLI := cli.NewJobsCLI(cfg.RedisAddr)
		code := jobsCLI.Run(ctx, os.Args[2:], cli.Options{})
		if err := jobsCLI.Close(); err != nil {
			logger.Warn("jobs cli close", slog.Any("error", err))
		}
		stop()
		os.Exit(code)
	}

	services, closeStore, err := app.OpenServices(ctx, cfg, logger)
	if err != nil {
		logger.Error("open services", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	catalogHandler, supplierHandler, priceHandler := app.NewHandlers(logger, services)
	metrics := observability.NewMetrics()

	var jobHandler *jobs.Handler
	if cfg.JobsEnabled {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		inspector := asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobClient := jobs.NewClient(redisOpts)
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, jobClient, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		CatalogHandler:  catalogHandler,
		SupplierHandler: supplierHandler,
		PriceHandler:    priceHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
