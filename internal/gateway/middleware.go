package gateway

import (
	"time"

	"github.com/Sternrassler/manifold-client/pkg/logging"
	"github.com/gin-gonic/gin"
)

// LoggerMiddleware logs each request through zerolog.
func LoggerMiddleware() gin.HandlerFunc {
	logger := logging.NewLogger("manifold-gateway")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= 500 {
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Gateway request")
	}
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}
