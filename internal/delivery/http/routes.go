package http

import (
	"github.com/gin-gonic/gin"
	"github.com/shopkart/storefront/config"
	"github.com/shopkart/storefront/internal/storage"
)

// SetupRouter creates and configures the Gin router for the reference
// backend.
func SetupRouter(cfg *config.Config, handler *Handler, store *storage.MemStore) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", handler.ListProducts)
		v1.GET("/products/search", handler.SearchProducts)

		cart := v1.Group("/cart")
		cart.Use(AuthMiddleware(store))
		{
			cart.GET("", handler.GetCart)
			cart.POST("", handler.UpsertCart)
		}

		auth := v1.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/login", handler.Login)
		}
	}

	return router
}
