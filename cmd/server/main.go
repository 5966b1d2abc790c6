// Package main is the entry point for the ledgerlens API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"ledgerlens/internal/domain/analysis"
	"ledgerlens/internal/domain/auth"
	"ledgerlens/internal/domain/ledger"
	"ledgerlens/internal/domain/narrative"
	"ledgerlens/internal/infrastructure/cache"
	v1 "ledgerlens/internal/infrastructure/http/v1"
	"ledgerlens/internal/infrastructure/ratelimit"
	"ledgerlens/internal/infrastructure/storage/postgres"
	"ledgerlens/internal/infrastructure/storage/postgres/analysis_repo"
	"ledgerlens/internal/infrastructure/storage/postgres/ledger_repo"
	"ledgerlens/pkg/logger"
)

func main() {
	// .env is optional; real deployments inject environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting ledgerlens server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	poolCfg := postgres.DefaultPoolConfig(dsn)
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- Redis (optional: analysis cache + rate limiting) ---
	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warnw("redis unreachable, falling back to in-memory cache", "error", err)
			redisClient = nil
		} else {
			log.Infow("redis connection established", "addr", addr)
		}
	}

	var analysisCache analysis.Cache
	var limiter *ratelimit.Limiter
	if redisClient != nil {
		analysisCache = cache.NewRedis(redisClient)
		limiter = ratelimit.NewLimiter(redisClient, ratelimit.Config{
			Limit:  getEnvInt("RATE_LIMIT_PER_MINUTE", ratelimit.DefaultConfig().Limit),
			Window: time.Minute,
		})
	} else {
		analysisCache = cache.NewMemory()
	}

	// --- Services ---
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))

	ledgerService := ledger.NewService(ledger_repo.NewLedgerRepo(pool))

	cacheTTL := getEnvDuration("ANALYSIS_CACHE_TTL", analysis.DefaultCacheTTL)
	analysisService := analysis.NewService(
		analysis_repo.NewAnalysisRepo(pool),
		analysis.WithCache(analysisCache, cacheTTL),
	)

	// --- AI narrative (optional) ---
	provider, err := narrative.NewProvider(narrative.Config{
		Provider: getEnv("AI_PROVIDER", "deepseek"),
		Model:    os.Getenv("AI_MODEL"),
		APIKey:   os.Getenv("AI_API_KEY"),
		BaseURL:  os.Getenv("AI_BASE_URL"),
	})
	if err != nil {
		log.Fatalw("invalid AI provider configuration", "error", err)
	}

	var narrativeManager *narrative.Manager
	if provider != nil {
		narrativeManager = narrative.NewManager(provider)
		log.Infow("narrative generation enabled", "provider", provider.Name())
	} else {
		log.Info("narrative generation disabled (no API key)")
	}

	// --- Audit trail ---
	audit, err := postgres.NewAuditService(pool)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		JWTValidator:     jwtService,
		LedgerService:    ledgerService,
		AnalysisService:  analysisService,
		NarrativeManager: narrativeManager,
		Audit:            audit,
		Limiter:          limiter,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
