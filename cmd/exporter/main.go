package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"community-export/internal/config"
	"community-export/internal/domain/entity"
	"community-export/internal/infra/apiclient"
	"community-export/internal/infra/csvwriter"
	"community-export/internal/observability/logging"
	"community-export/internal/observability/metrics"
	"community-export/internal/usecase/export"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Optional .env for local runs; absence is not an error.
	_ = godotenv.Load()

	logger := initLogger()
	slog.SetDefault(logger)

	cfg, warnings, err := config.Load()
	for _, w := range warnings {
		logger.Warn("configuration fallback applied", slog.String("detail", w))
	}
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		return 1
	}
	logger.Info("configuration loaded",
		slog.String("base_url", cfg.BaseURL),
		slog.String("output_path", cfg.OutputPath),
		slog.Int("max_concurrency", cfg.MaxConcurrency),
		slog.Int("post_limit", cfg.PostLimit),
		slog.Int("comment_limit", cfg.CommentLimit),
		slog.Duration("export_timeout", cfg.ExportTimeout),
		slog.Bool("run_once", cfg.RunOnce))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clientCfg := apiclient.DefaultConfig(cfg.BaseURL)
	clientCfg.RateLimitRPS = cfg.RateLimitRPS
	clientCfg.RateLimitBurst = cfg.RateLimitBurst
	client, err := apiclient.New(clientCfg, logger)
	if err != nil {
		logger.Error("failed to create data source client", slog.Any("error", err))
		return 1
	}

	svc := export.NewService(client, export.Config{
		MaxConcurrency: cfg.MaxConcurrency,
		PostLimit:      cfg.PostLimit,
		CommentLimit:   cfg.CommentLimit,
	}, logger)
	writer := csvwriter.New(cfg.OutputPath)

	startMetricsServer(ctx, logger, cfg.MetricsPort)

	if cfg.RunOnce {
		if err := runExport(ctx, logger, cfg, svc, writer); err != nil {
			return 1
		}
		return 0
	}
	return runScheduled(ctx, logger, cfg, svc, writer)
}

// initLogger creates the process logger. LOG_FORMAT=text selects the
// human-readable handler for local runs; the default is JSON.
func initLogger() *slog.Logger {
	if os.Getenv("LOG_FORMAT") == "text" {
		return logging.NewTextLogger()
	}
	return logging.NewLogger()
}

// runExport executes one complete export run under the configured timeout:
// fetch, validate, select, flatten and write the CSV artifact. A users fetch
// failure or a write failure is returned as an error; branch-level fetch
// failures are absorbed by the pipeline and only reflected in the counters.
func runExport(ctx context.Context, logger *slog.Logger, cfg config.Config, svc *export.Service, writer *csvwriter.Writer) error {
	start := time.Now()
	runLogger := logging.WithRunID(logger, uuid.NewString())
	runLogger.Info("export started")

	runCtx, cancel := context.WithTimeout(ctx, cfg.ExportTimeout)
	defer cancel()
	runCtx = logging.WithLogger(runCtx, runLogger)

	result, err := svc.Run(runCtx)
	if err != nil {
		runLogger.Error("export failed", slog.Any("error", err))
		metrics.RecordExportRun(false, time.Since(start))
		return err
	}

	records := make([][]string, len(result.Rows))
	for i, row := range result.Rows {
		records[i] = row.Strings()
	}
	written, err := writer.Write(entity.Header(), records)
	if err != nil {
		runLogger.Error("csv write failed",
			slog.String("path", writer.Path()),
			slog.Any("error", err))
		metrics.RecordExportRun(false, time.Since(start))
		return err
	}

	metrics.RecordRowsWritten(written)
	metrics.RecordExportRun(true, time.Since(start))
	runLogger.Info("export completed",
		slog.String("path", writer.Path()),
		slog.Int("rows", written),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// runScheduled runs exports on the configured cron schedule until the
// context is canceled. A tick that arrives while the previous run is still
// in flight is skipped.
func runScheduled(ctx context.Context, logger *slog.Logger, cfg config.Config, svc *export.Service, writer *csvwriter.Writer) int {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	var running atomic.Bool
	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.CronSchedule, func() {
		if !running.CompareAndSwap(false, true) {
			logger.Warn("previous export still running, skipping tick")
			return
		}
		defer running.Store(false)
		_ = runExport(ctx, logger, cfg, svc, writer)
	})
	if err != nil {
		logger.Error("failed to register cron job", slog.Any("error", err))
		return 1
	}

	c.Start()
	logger.Info("exporter started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("shutdown requested, waiting for in-flight run")
	<-c.Stop().Done()
	logger.Info("exporter stopped")
	return 0
}
