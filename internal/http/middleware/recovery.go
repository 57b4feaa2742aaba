// README: Panic recovery middleware.
package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/logging"
)

func Recovery(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic_recovered", "handler panicked", fmt.Errorf("%v", r), map[string]any{
					"path": c.Request.URL.Path,
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
		}()
		c.Next()
	}
}
