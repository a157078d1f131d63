package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/noah-isme/backend-crm/internal/app"
	"github.com/noah-isme/backend-crm/internal/cache"
	"github.com/noah-isme/backend-crm/internal/config"
	"github.com/noah-isme/backend-crm/internal/jobs"
	"github.com/noah-isme/backend-crm/internal/lock"
	"github.com/noah-isme/backend-crm/internal/obs"
	"github.com/noah-isme/backend-crm/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel).With().
		Str("env", cfg.AppEnv).
		Str("component", "worker").
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Obs.EnablePrometheus {
		obs.MustRegisterDomainMetrics(cfg.Obs.MetricsNamespace, nil)
	}

	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	redisClient, err := app.OpenRedis(startCtx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	asynqOpt, err := app.AsynqRedis(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("configure task queue")
	}

	handler := &jobs.Handler{
		Reports: &report.Service{Cache: cache.New(redisClient, cfg.ReportCacheTTL)},
		Locker:  lock.Locker{R: redisClient, RetryBackoff: cfg.LockRetryBackoff, MaxWait: cfg.LockTTL},
		LockTTL: cfg.LockTTL,
		Logger:  &logger,
	}
	mux := asynq.NewServeMux()
	handler.Register(mux)

	srv := asynq.NewServer(asynqOpt, asynq.Config{
		Concurrency:     cfg.WorkerConcurrency,
		Queues:          map[string]int{jobs.DefaultQueue: 1},
		Logger:          obs.AsynqLogger{Logger: logger},
		ShutdownTimeout: 20 * time.Second,
	})
	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start worker")
	}
	logger.Info().Int("concurrency", cfg.WorkerConcurrency).Str("queue", jobs.DefaultQueue).Msg("worker starting")

	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}
