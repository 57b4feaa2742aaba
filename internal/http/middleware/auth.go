// README: Request authentication — token to profile resolution for API routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/auth"
	"vdeliveries/internal/modules/profile"
	"vdeliveries/internal/types"
)

const (
	// SessionCookie carries the token for dashboard page navigation, where
	// setting an Authorization header is not an option.
	SessionCookie = "vdel_session"

	profileKey = "vdel_profile"
)

// TokenFrom extracts the bearer token from the Authorization header, falling
// back to the session cookie.
func TokenFrom(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// Authenticate resolves the caller's profile and stores it in the gin context.
// API routes answer 401 JSON; redirects are the dashboard gate's job.
func Authenticate(mgr *auth.Manager, profiles *profile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := mgr.Parse(TokenFrom(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		p, err := profiles.Get(c.Request.Context(), types.ID(claims.Subject))
		if err != nil {
			// A valid token without a profile row is denied outright; we never
			// default a missing profile to some role.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "profile not found"})
			return
		}
		c.Set(profileKey, p)
		c.Next()
	}
}

// RequireRole permits only the given role past this point.
func RequireRole(role profile.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentProfile(c)
		if p == nil || p.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentProfile returns the authenticated profile, or nil when the request
// did not pass Authenticate.
func CurrentProfile(c *gin.Context) *profile.Profile {
	v, ok := c.Get(profileKey)
	if !ok {
		return nil
	}
	p, _ := v.(*profile.Profile)
	return p
}
