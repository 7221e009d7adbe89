package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/astrovault/natalcore/internal/featureflags"
	"github.com/astrovault/natalcore/internal/handler"
	"github.com/astrovault/natalcore/internal/infrastructure/logger"
	"github.com/astrovault/natalcore/internal/infrastructure/mongodb"
	"github.com/astrovault/natalcore/internal/infrastructure/redis"
	"github.com/astrovault/natalcore/internal/lookup"
	"github.com/astrovault/natalcore/internal/observability/metrics"
	"github.com/astrovault/natalcore/internal/observability/tracing"
	"github.com/astrovault/natalcore/internal/provider/jhora"
	"github.com/astrovault/natalcore/internal/reliability/retry"
	"github.com/astrovault/natalcore/internal/repository"
	"github.com/astrovault/natalcore/internal/security/audit"
	"github.com/astrovault/natalcore/internal/security/auth"
	"github.com/astrovault/natalcore/internal/security/middleware"
	"github.com/astrovault/natalcore/internal/security/ratelimit"
	"github.com/astrovault/natalcore/internal/service"
	"github.com/astrovault/natalcore/internal/tenantconfig"
	"github.com/astrovault/natalcore/internal/worker"
	"github.com/astrovault/natalcore/pkg/cache"
	"github.com/astrovault/natalcore/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting natalcore server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing
	shutdownTracing, err := tracing.Init(ctx, log, "natalcore", cfg.Environment)
	if err != nil {
		log.Warn("tracing disabled", slog.String("error", err.Error()))
		shutdownTracing = func(context.Context) error { return nil }
	}

	// 4. Connect infrastructure; the entity store is required, so dials
	// retry briefly before giving up.
	mongoClient, err := retry.Do(ctx, retry.DefaultConfig(), log, "mongodb connect",
		func(ctx context.Context) (*mongodb.Client, error) {
			return mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		})
	if err != nil {
		log.Error("failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer mongoClient.Close(context.Background())

	if err := mongoClient.EnsureIndexes(ctx); err != nil {
		log.Error("failed to ensure indexes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisClient, err := retry.Do(ctx, retry.DefaultConfig(), log, "redis connect",
		func(ctx context.Context) (*redis.Client, error) {
			return redis.NewClient(cfg.RedisURL)
		})
	if err != nil {
		// The chain degrades without the shared tier; startup proceeds.
		log.Warn("redis unavailable, shared cache tier disabled", slog.String("error", err.Error()))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// 5. Initialize repositories
	horoscopeRepo := repository.NewHoroscopeRepository(mongoClient, log)
	planetRepo := repository.NewPlanetRepository(mongoClient, log)
	chartRepo := repository.NewChartRepository(mongoClient, log)
	dashaRepo := repository.NewDashaRepository(mongoClient, log)
	conditionRepo := repository.NewConditionRepository(mongoClient, log)
	strengthRepo := repository.NewStrengthRepository(mongoClient, log)
	pointRepo := repository.NewPointRepository(mongoClient, log)

	// 6. Build the lookup chain: optional in-process tier, shared Redis
	// tier, entity store as the terminal tier.
	memCache := cache.New()
	var tiers []lookup.Tier
	if featureflags.EnabledDefault("memory_cache", true) {
		tiers = append(tiers, lookup.NewMemoryTier(memCache, cfg.MemoryCacheTTL))
		log.Info("in-process cache tier enabled", slog.Duration("ttl", cfg.MemoryCacheTTL))
	}
	if redisClient != nil {
		tiers = append(tiers, lookup.NewRedisTier(redisClient, cfg.CacheTTL, log))
	}
	tiers = append(tiers, lookup.NewStoreTier(horoscopeRepo, log))
	chain := lookup.NewChain(log, tiers...)

	// 7. Initialize services
	configCache := cache.New()
	configResolver := tenantconfig.NewResolver(mongoClient, configCache, cfg.CacheTTL, cfg.PluginID, log)
	providerClient := jhora.NewClient(cfg.ProviderURL, cfg.ProviderTimeout, log)

	ingestionService := service.NewIngestionService(
		mongoClient, horoscopeRepo, planetRepo, chartRepo, dashaRepo,
		conditionRepo, strengthRepo, pointRepo, log,
	)
	aggregationService := service.NewAggregationService(
		horoscopeRepo, planetRepo, chartRepo, dashaRepo,
		conditionRepo, strengthRepo, pointRepo, log,
	)
	horoscopeService := service.NewHoroscopeService(
		chain, configResolver, providerClient, ingestionService, aggregationService, log,
	)
	chartService := service.NewChartService(horoscopeRepo, chartRepo, log)
	dashaService := service.NewDashaService(horoscopeRepo, dashaRepo, log)

	// 8. Initialize handlers
	generateHandler := handler.NewGenerateHandler(horoscopeService, log)
	horoscopeHandler := handler.NewHoroscopeHandler(horoscopeService, log)
	chartHandler := handler.NewChartHandler(chartService, log)
	dashaHandler := handler.NewDashaHandler(dashaService, log)

	var redisPinger handler.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	healthHandler := handler.NewHealthHandler(mongoClient, redisPinger, log)

	// 8a. Initialize security components
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "natalcore")
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	auditLogger := audit.NewLogger(log)

	// 9. Setup HTTP routes
	mux := http.NewServeMux()
	mux.Handle("POST /api/horoscopes/generate", generateHandler)
	mux.Handle("GET /api/horoscopes/{birthHash}", horoscopeHandler)
	mux.Handle("GET /api/horoscopes/{birthHash}/charts/{division}", chartHandler)
	mux.Handle("GET /api/horoscopes/{birthHash}/dashas/current", dashaHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> metrics -> JWT -> rate limit -> audit -> CORS+mux
	rootHandler := middleware.RequestIDMiddleware(
		metrics.HTTPMetricsMiddleware(
			middleware.JWTMiddleware(tokenManager, auditLogger, log)(
				middleware.RateLimitMiddleware(rateLimiter, log)(
					middleware.AuditMiddleware(auditLogger)(handlerWithCORS),
				),
			),
		),
	)

	// 10. Start cache sweeper in background
	sweeper := worker.NewSweeper(log, cfg.SweepInterval, memCache, configCache)
	go sweeper.Start(ctx)

	// 11. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Int("rate_limit", cfg.RateLimitPerMinute),
		slog.String("rate_limit_window", "1m"),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // stop the sweeper
	rateLimiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
