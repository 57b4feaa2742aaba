// README: Maintenance-mode guard for non-admin mutations.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/modules/profile"
)

// MaintenanceFlag reports whether the operator has switched writes off.
type MaintenanceFlag interface {
	MaintenanceMode(ctx context.Context) (bool, error)
}

// Maintenance refuses non-admin mutating requests while the flag is set.
// Reads stay available so dashboards keep rendering. A flag lookup failure
// fails open; pricing and dispatch must not depend on the settings table
// being reachable.
func Maintenance(flag MaintenanceFlag) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		if p := CurrentProfile(c); p != nil && p.Role == profile.RoleAdmin {
			c.Next()
			return
		}
		on, err := flag.MaintenanceMode(c.Request.Context())
		if err == nil && on {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "maintenance in progress"})
			return
		}
		c.Next()
	}
}
