// README: Maintenance guard tests.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"vdeliveries/internal/modules/profile"
)

type flagFunc func() (bool, error)

func (f flagFunc) MaintenanceMode(context.Context) (bool, error) { return f() }

func maintenanceRouter(flag MaintenanceFlag, role profile.Role) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(profileKey, &profile.Profile{Role: role})
		}
		c.Next()
	})
	r.Use(Maintenance(flag))
	r.GET("/read", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/write", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestMaintenanceBlocksWrites(t *testing.T) {
	on := flagFunc(func() (bool, error) { return true, nil })
	r := maintenanceRouter(on, profile.RoleClient)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMaintenanceAllowsReads(t *testing.T) {
	on := flagFunc(func() (bool, error) { return true, nil })
	r := maintenanceRouter(on, profile.RoleClient)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/read", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaintenanceAdminBypasses(t *testing.T) {
	on := flagFunc(func() (bool, error) { return true, nil })
	r := maintenanceRouter(on, profile.RoleAdmin)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaintenanceFailsOpen(t *testing.T) {
	broken := flagFunc(func() (bool, error) { return false, errors.New("settings unreachable") })
	r := maintenanceRouter(broken, profile.RoleClient)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
