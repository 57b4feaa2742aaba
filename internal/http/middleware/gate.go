// README: Redirect-based access gate for the dashboard subtree.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/auth"
	"vdeliveries/internal/modules/profile"
	"vdeliveries/internal/types"
)

const LoginPath = "/login"

// DashboardGate enforces the page-level access rules:
// unauthenticated → sign-in page; wrong role → own role's home; identity
// without a profile row → denied (sign-in page), never defaulted to a role.
func DashboardGate(mgr *auth.Manager, profiles *profile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := mgr.Parse(TokenFrom(c))
		if err != nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		p, err := profiles.Get(c.Request.Context(), types.ID(claims.Subject))
		if err != nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		if !strings.HasPrefix(c.Request.URL.Path, p.Role.Home()) {
			c.Redirect(http.StatusFound, p.Role.Home())
			c.Abort()
			return
		}

		c.Set(profileKey, p)
		c.Next()
	}
}
