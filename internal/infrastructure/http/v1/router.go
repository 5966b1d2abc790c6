// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"ledgerlens/internal/domain/analysis"
	"ledgerlens/internal/domain/ledger"
	"ledgerlens/internal/domain/narrative"
	"ledgerlens/internal/infrastructure/http/v1/handlers"
	"ledgerlens/internal/infrastructure/http/v1/middleware"
	"ledgerlens/internal/infrastructure/ratelimit"
	"ledgerlens/internal/infrastructure/storage/postgres"
	"ledgerlens/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	LedgerService   *ledger.Service
	AnalysisService *analysis.Service

	// NarrativeManager may be nil when no AI provider is configured.
	NarrativeManager *narrative.Manager

	// Audit may be nil; analysis requests are then not recorded.
	Audit *postgres.AuditService

	// Limiter may be nil; requests are then not throttled.
	Limiter *ratelimit.Limiter
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	ledgerHandler := handlers.NewLedgerHandler(base, cfg.LedgerService)
	analysisHandler := handlers.NewAnalysisHandler(base, cfg.AnalysisService, cfg.NarrativeManager, cfg.Audit)
	narrativeHandler := handlers.NewNarrativeHandler(base, cfg.AnalysisService, cfg.NarrativeManager)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTValidator))
	v1.Use(middleware.RateLimit(cfg.Limiter))
	v1.Use(middleware.RequireCompanyAccess())
	{
		ledgerGroup := v1.Group("/ledger")
		{
			ledgerGroup.GET("/statement", ledgerHandler.GetStatement)
			ledgerGroup.GET("/statement/export", ledgerHandler.ExportStatement)
		}

		analysisGroup := v1.Group("/analysis")
		{
			analysisGroup.GET("", analysisHandler.Get)
			analysisGroup.POST("/narrative", narrativeHandler.Submit)
			analysisGroup.GET("/narrative/:id", narrativeHandler.Status)
		}
	}

	return router
}
