// README: Minimal server-rendered pages behind the dashboard gate.
package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/http/middleware"
)

const loginPage = `<!doctype html>
<html>
<head><title>VDeliveries — Sign in</title></head>
<body>
<h1>Sign in</h1>
<form method="post" action="/api/auth/login">
<input name="phone" placeholder="Phone" autocomplete="tel">
<input name="password" type="password" placeholder="Password">
<button type="submit">Sign in</button>
</form>
</body>
</html>`

func registerPages(r *gin.Engine, deps RouterDeps) {
	r.GET(middleware.LoginPath, func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, loginPage)
	})

	dash := r.Group("/dashboard", middleware.DashboardGate(deps.Tokens, deps.Profiles))
	dash.GET("/:role", dashboardPage)
	dash.GET("/:role/*rest", dashboardPage)
}

func dashboardPage(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, fmt.Sprintf(
		"<!doctype html><html><head><title>VDeliveries</title></head><body><h1>%s dashboard</h1><p>Signed in as %s.</p></body></html>",
		p.Role, p.FullName,
	))
}
