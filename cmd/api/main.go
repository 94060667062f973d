package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/devaakutty/Shashi-backend/internal/app"
	"github.com/devaakutty/Shashi-backend/internal/auth"
	"github.com/devaakutty/Shashi-backend/internal/cache"
	"github.com/devaakutty/Shashi-backend/internal/common"
	"github.com/devaakutty/Shashi-backend/internal/config"
	"github.com/devaakutty/Shashi-backend/internal/customer"
	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/events"
	"github.com/devaakutty/Shashi-backend/internal/expense"
	"github.com/devaakutty/Shashi-backend/internal/health"
	"github.com/devaakutty/Shashi-backend/internal/inventory"
	"github.com/devaakutty/Shashi-backend/internal/invoice"
	"github.com/devaakutty/Shashi-backend/internal/obs"
	"github.com/devaakutty/Shashi-backend/internal/payment"
	"github.com/devaakutty/Shashi-backend/internal/product"
	"github.com/devaakutty/Shashi-backend/internal/ratelimit"
	"github.com/devaakutty/Shashi-backend/internal/report"
	"github.com/devaakutty/Shashi-backend/internal/security"
)

const serviceName = "shashi-api"

func main() {
	cfg := config.MustLoad()
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)

	tracingEnabled := cfg.EnableTracing
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   serviceName,
			Endpoint:      cfg.OTLPEndpoint,
			SamplingRatio: cfg.TracingSamplingRatio,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	if cfg.AutoMigrate {
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = serviceName

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	store := db.NewStore(pool)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if cfg.EnablePrometheus {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	tokens, err := auth.NewTokens(auth.Config{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
		ClockSkew: 30 * time.Second,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth")
	}
	authMiddleware := auth.Middleware{Tokens: tokens}

	writeLimiter, err := ratelimit.NewRedisLimiter(redisClient, int64(cfg.WriteRateLimit), cfg.WriteRateWindow)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter")
	}

	validate := common.NewValidator()
	reportCache := cache.NewJSON(redisClient, cfg.ReportCacheTTL)
	productCache := cache.NewJSON(redisClient, cfg.ProductCacheTTL)
	bus := &events.Bus{
		Store: store,
		Notifiers: []events.Notifier{
			events.LogNotifier{Logger: logger},
			cache.Invalidator{Products: productCache, Reports: reportCache, Location: cfg.Location},
		},
	}

	headers := security.Headers{
		Enable: true,
		HSTS: security.HSTS{
			Enable:            cfg.HSTSEnabled,
			MaxAge:            cfg.HSTSMaxAge,
			IncludeSubdomains: cfg.HSTSIncludeSubdomains,
		},
		TrustForwardedProto: cfg.TrustForwardedProto,
	}

	deps := app.Deps{
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequireAuth:    authMiddleware.RequireAuth,
		Tracing:        tracingEnabled,
		Headers:        headers,
		BodyLimit:      security.BodyLimit{Max: cfg.MaxBodyBytes},
		WriteLimit:     ratelimit.Handler{Limiter: writeLimiter, WritesOnly: true},
		Idempotency:    common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL},
		Health: health.Handler{
			Checker:      health.Deps{DB: pool, Redis: redisClient},
			DBTimeout:    500 * time.Millisecond,
			RedisTimeout: 300 * time.Millisecond,
		},
		Products:  &product.Handler{Svc: &product.Service{Store: store, Cache: productCache, Validate: validate}},
		Customers: &customer.Handler{Svc: &customer.Service{Store: store, Validate: validate}},
		Invoices: &invoice.Handler{Svc: &invoice.Service{
			Store:    store,
			Ledger:   inventory.Ledger{LowStockThreshold: cfg.LowStockThreshold},
			Events:   bus,
			DueAfter: cfg.InvoiceDueAfter(),
			Validate: validate,
		}},
		Payments: &payment.Handler{Svc: &payment.Service{Store: store, Events: bus, Validate: validate}},
		Expenses: &expense.Handler{Svc: &expense.Service{Store: store, Validate: validate}},
		Reports:  &report.Handler{Svc: &report.Service{Q: store, Cache: reportCache, Location: cfg.Location}},
	}
	if cfg.EnablePrometheus {
		deps.HTTPMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, nil, nil)
		deps.Metrics = app.DefaultMetricsHandler()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           app.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop, release := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer release()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	<-stop.Done()
	health.SetReady(false)
	logger.Info().Msg("draining")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown server")
	}
}
