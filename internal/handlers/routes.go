package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"mathexp-api/internal/config"
	"mathexp-api/internal/middleware"
	"mathexp-api/internal/services"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	CalculatorService services.CalculatorService
	MetricsHandler    http.Handler
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	calculatorHandler := NewCalculatorHandler(config.CalculatorService)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "mathexp-api",
			"version":   "1.0.0",
			"timestamp": time.Now().UTC(),
		})
	})

	if config.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(config.MetricsHandler))
	}

	v1 := router.Group("/api/v1")
	{
		// Every verb reaches the handler; only POST is evaluated
		v1.Any("/calculate", calculatorHandler.Calculate)
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, cfg config.HTTPConfig) {
	// Request ID and correlation ID
	router.Use(middleware.RequestID())
	router.Use(middleware.CorrelationID())

	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(cfg.MaxRequestBytes))
	router.Use(middleware.ContentTypeValidation("application/json"))
	router.Use(middleware.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// Structured logging
	router.Use(middleware.StructuredLogger())

	// Performance monitoring (log requests over 1 second)
	router.Use(middleware.PerformanceMonitor(time.Second))

	router.Use(middleware.ErrorTracker())
}
