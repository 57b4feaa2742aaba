// README: Request logging middleware.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/logging"
)

func Logging(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http_request", c.Request.Method+" "+c.Request.URL.Path, map[string]any{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}
