package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/noah-isme/backend-crm/internal/app"
	"github.com/noah-isme/backend-crm/internal/audit"
	"github.com/noah-isme/backend-crm/internal/auth"
	"github.com/noah-isme/backend-crm/internal/cache"
	"github.com/noah-isme/backend-crm/internal/common"
	"github.com/noah-isme/backend-crm/internal/config"
	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
	"github.com/noah-isme/backend-crm/internal/customer"
	"github.com/noah-isme/backend-crm/internal/events"
	"github.com/noah-isme/backend-crm/internal/health"
	"github.com/noah-isme/backend-crm/internal/jobs"
	"github.com/noah-isme/backend-crm/internal/obs"
	"github.com/noah-isme/backend-crm/internal/presale"
	"github.com/noah-isme/backend-crm/internal/pricing"
	"github.com/noah-isme/backend-crm/internal/product"
	"github.com/noah-isme/backend-crm/internal/ratelimit"
	"github.com/noah-isme/backend-crm/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel).With().
		Str("env", cfg.AppEnv).
		Str("component", "api").
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Obs.EnablePrometheus {
		obs.MustRegisterDomainMetrics(cfg.Obs.MetricsNamespace, nil)
	}
	if cfg.Obs.EnableTracing {
		shutdown, err := obs.InitTracer(ctx, cfg.Obs, cfg.AppEnv, "api")
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			cfg.Obs.EnableTracing = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	if cfg.MigrateOnStart {
		if err := app.RunMigrations(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
		logger.Info().Str("source", cfg.MigrationsPath).Msg("migrations applied")
	}

	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := app.OpenPostgres(startCtx, cfg, "crm-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()

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
	taskClient := asynq.NewClient(asynqOpt)
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task client")
		}
	}()

	queries := dbgen.New(pool)
	bus := &events.Bus{
		Store:     queries,
		Scheduler: &jobs.Scheduler{Client: taskClient, Queue: jobs.DefaultQueue, MaxRetry: 5},
		Notifiers: []events.Notifier{events.LogNotifier(logger)},
	}

	authService, err := auth.NewService(auth.Config{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
		ClockSkew: 30 * time.Second,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}

	allower, err := app.NewAllower(cfg, redisClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter")
	}

	productService := product.NewService(product.ServiceConfig{
		Pool:   pool,
		Cache:  cache.New(redisClient, cfg.ProductCacheTTL),
		Events: bus,
		Logger: &logger,
	})
	presaleService := presale.NewService(presale.ServiceConfig{
		Repo:             presale.NewPgRepository(pool),
		Events:           bus,
		TaxBps:           cfg.TaxRateBps,
		StockConcurrency: cfg.StockConcurrency,
		Logger:           &logger,
	})
	reportService := &report.Service{
		Q:            queries,
		Cache:        cache.New(redisClient, cfg.ReportCacheTTL),
		DefaultRange: cfg.ReportRangeDays,
	}
	auditService := &audit.Service{Store: queries, Enabled: cfg.Audit.Enabled, SamplingRate: cfg.Audit.SamplingRate}

	var httpMetrics *obs.HTTPMetrics
	if cfg.Obs.EnablePrometheus {
		httpMetrics = obs.NewHTTPMetrics(cfg.Obs.MetricsNamespace, obs.ParseBucketsCSV(cfg.Obs.MetricsBuckets), nil)
	}

	handler := newRouter(routerDeps{
		Logger:         logger,
		HTTPMetrics:    httpMetrics,
		Tracing:        cfg.Obs.EnableTracing,
		HSTS:           cfg.IsProduction(),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		BodyLimit:      cfg.BodyLimitBytes,
		Auth:           auth.Middleware{Service: authService},
		RateLimit: ratelimit.Handler{
			Limiter: allower,
			Config:  ratelimit.Config{Key: ratelimit.ByUser, Window: cfg.RateLimit.Window, Max: cfg.RateLimit.Max},
			Logger:  &logger,
		},
		Idem:  common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL},
		Audit: audit.HTTPRecorder{Service: auditService, Logger: &logger},
		Health: health.Handler{Probes: map[string]health.Probe{
			"db":    health.DBProbe(pool),
			"redis": health.RedisProbe(redisClient),
		}},
		Pricing:  pricing.NewHandler(pricing.HandlerConfig{TaxBps: cfg.TaxRateBps}),
		Presales: presale.NewHandler(presale.HandlerConfig{Service: presaleService}),
		Products: product.NewHandler(product.HandlerConfig{Service: productService}),
		Customer: customer.NewHandler(customer.NewService(queries)),
		Reports:  &report.Handler{Svc: reportService},
		AuditLog: audit.Handler{Service: auditService},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("currency", cfg.CurrencyCode).Int64("tax_bps", cfg.TaxRateBps).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	<-ctx.Done()
	health.SetReady(false)
	logger.Info().Msg("shutdown requested")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
