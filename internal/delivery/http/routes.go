package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kendall-wood/blackbuy-backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/scan", handler.Scan)
		v1.POST("/search", handler.Search)
		v1.GET("/catalog/featured", handler.FeaturedCatalog)
		v1.POST("/feedback", handler.SubmitFeedback)
	}

	return router
}

// SetupDegradedRouter serves a minimal surface when required configuration
// is missing in production: health reports the state and every API route
// answers 503 instead of the process crashing.
func SetupDegradedRouter(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "not_configured",
			"service": "blackbuy-backend",
		})
	})

	notConfigured := func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not configured"})
	}
	v1 := router.Group("/api/v1")
	{
		v1.POST("/scan", notConfigured)
		v1.POST("/search", notConfigured)
		v1.GET("/catalog/featured", notConfigured)
		v1.POST("/feedback", notConfigured)
	}

	return router
}
