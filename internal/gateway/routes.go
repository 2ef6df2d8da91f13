// Package gateway exposes the Manifold lookups over HTTP.
package gateway

import (
	"github.com/Sternrassler/manifold-client/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router. mode is a gin mode
// (debug, release, test).
func SetupRouter(mode string, handler *Handler) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())

	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/exact", handler.ExactSearch)
		v1.POST("/exact/batch", handler.ExactSearchBatch)

		sa := v1.Group("/synthetic-accessibility/:algorithm")
		{
			sa.POST("", handler.Score)
			sa.POST("/batch", handler.ScoreBatch)
		}

		v1.GET("/runs/:id", handler.GetRun)
	}

	return router
}
