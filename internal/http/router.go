// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vdeliveries/internal/auth"
	"vdeliveries/internal/geocode"
	"vdeliveries/internal/http/handlers"
	"vdeliveries/internal/http/middleware"
	"vdeliveries/internal/logging"
	"vdeliveries/internal/modules/order"
	"vdeliveries/internal/modules/payroll"
	"vdeliveries/internal/modules/presence"
	"vdeliveries/internal/modules/pricing"
	"vdeliveries/internal/modules/profile"
	"vdeliveries/internal/modules/settings"
	"vdeliveries/internal/realtime"
)

type RouterDeps struct {
	Orders   *order.Service
	Pricing  *pricing.Service
	Presence *presence.Service
	Profiles *profile.Service
	Settings *settings.Service
	Payroll  *payroll.Service
	Geocode  *geocode.Service
	Feed     realtime.Feed
	Tokens   *auth.Manager
	Log      *logging.Logger

	AllowOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = logging.New("api")
	}

	r := gin.New()
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.Logging(deps.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	authHandler := handlers.NewAuthHandler(deps.Profiles, deps.Tokens)
	clientHandler := handlers.NewClientHandler(deps.Orders, deps.Pricing)
	driverHandler := handlers.NewDriverHandler(deps.Orders, deps.Presence, deps.Payroll)
	adminHandler := handlers.NewAdminHandler(deps.Orders, deps.Profiles, deps.Presence, deps.Settings, deps.Payroll)
	geocodingHandler := handlers.NewGeocodingHandler(deps.Geocode, deps.Log)
	wsHandler := handlers.NewWSHandler(deps.Feed, deps.Log)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Public
	r.POST("/api/auth/signup", authHandler.Signup)
	r.POST("/api/auth/login", authHandler.Login)
	r.POST("/api/auth/logout", authHandler.Logout)
	r.GET("/api/geocoding", geocodingHandler.Handle)

	r.GET("/ws", middleware.Authenticate(deps.Tokens, deps.Profiles), wsHandler.Handle)

	// Authenticated API
	api := r.Group("/api", middleware.Authenticate(deps.Tokens, deps.Profiles), middleware.Maintenance(deps.Settings))

	client := api.Group("", middleware.RequireRole(profile.RoleClient))
	client.POST("/orders", clientHandler.Create)
	client.GET("/orders", clientHandler.ListOwn)
	client.POST("/orders/:id/cancel", clientHandler.Cancel)
	client.POST("/quote", clientHandler.Quote)

	driver := api.Group("/driver", middleware.RequireRole(profile.RoleDriver))
	driver.GET("/pool", driverHandler.PendingPool)
	driver.POST("/orders/:id/claim", driverHandler.Claim)
	driver.POST("/orders/:id/pickup", driverHandler.Pickup)
	driver.POST("/orders/:id/complete", driverHandler.Complete)
	driver.GET("/active", driverHandler.ActiveOrder)
	driver.GET("/history", driverHandler.History)
	driver.POST("/presence/online", driverHandler.GoOnline)
	driver.POST("/presence/offline", driverHandler.GoOffline)
	driver.PUT("/presence/position", driverHandler.UpdatePosition)
	driver.GET("/stats/today", driverHandler.TodayStats)

	admin := api.Group("/admin", middleware.RequireRole(profile.RoleAdmin))
	admin.POST("/orders", adminHandler.CreateOrder)
	admin.GET("/orders", adminHandler.ListOrders)
	admin.POST("/orders/:id/assign", adminHandler.Assign)
	admin.POST("/orders/:id/cancel", adminHandler.CancelOrder)
	admin.GET("/drivers", adminHandler.ListDrivers)
	admin.GET("/fleet", adminHandler.Fleet)
	admin.GET("/settings", adminHandler.GetSettings)
	admin.PUT("/settings", adminHandler.SaveSettings)
	admin.GET("/payroll", adminHandler.Payroll)
	admin.GET("/payroll/export", adminHandler.PayrollCSV)
	admin.GET("/overview", adminHandler.Overview)

	registerPages(r, deps)

	return r
}
