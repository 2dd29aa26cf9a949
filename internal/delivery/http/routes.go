package http

import (
	"github.com/dagligdags/backend/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		deals := v1.Group("/deals")
		{
			deals.POST("/rank", handler.RankDeals)
		}

		basket := v1.Group("/basket")
		{
			basket.POST("/optimize", handler.OptimizeBasket)
		}

		profiles := v1.Group("/profiles")
		{
			profiles.GET("/:userID", handler.GetProfile)
			profiles.PUT("/:userID", handler.PutProfile)
		}
	}

	return router
}
