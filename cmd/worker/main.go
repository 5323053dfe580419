package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/buildmat/buildmat/internal/app"
	jobmetrics "github.com/buildmat/buildmat/internal/jobs"
	"github.com/buildmat/buildmat/internal/observability"
	"github.com/buildmat/buildmat/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	services, closeStore, err := app.OpenServices(ctx, cfg, logger)
	if err != nil {
		logger.Error("open services", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	metrics := observability.NewMetrics()
	jobMetrics := jobmetrics.NewMetrics(metrics.Registerer())

	auditJob := jobs.NewCatalogAuditJob(services.Catalog, logger, jobMetrics)
	digestJob := jobs.NewPriceDigestJob(services.Prices, services.Suppliers, logger, jobMetrics)

	auditTask, err := jobs.NewCatalogAuditTask(jobs.CatalogAuditPayload{})
	if err != nil {
		logger.Error("build audit task", slog.Any("error", err))
		os.Exit(1)
	}
	digestTask, err := jobs.NewPriceDigestTask(jobs.PriceDigestPayload{StaleAfterDays: cfg.StaleQuoteDays})
	if err != nil {
		logger.Error("build digest task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCatalogAudit, Handler: auditJob.Handle},
			{Type: jobs.TaskPriceDigest, Handler: digestJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.CatalogAuditCron, Task: auditTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.PriceDigestCron, Task: digestTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:              cfg.WorkerMetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving worker metrics", slog.String("addr", cfg.WorkerMetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("worker metrics server", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
