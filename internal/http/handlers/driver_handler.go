// README: Driver endpoints — pending pool, claim, status advance, presence, stats.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/http/middleware"
	"vdeliveries/internal/modules/order"
	"vdeliveries/internal/modules/payroll"
	"vdeliveries/internal/modules/presence"
	"vdeliveries/internal/types"
)

type DriverHandler struct {
	orders   *order.Service
	presence *presence.Service
	payroll  *payroll.Service
}

func NewDriverHandler(orders *order.Service, presenceSvc *presence.Service, payrollSvc *payroll.Service) *DriverHandler {
	return &DriverHandler{orders: orders, presence: presenceSvc, payroll: payrollSvc}
}

func (h *DriverHandler) PendingPool(c *gin.Context) {
	orders, err := h.orders.PendingPool(c.Request.Context())
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Claim races against every other online driver; a lost race is a 409 with
// the "no longer available" message, which clients treat as a notice, not an
// error.
func (h *DriverHandler) Claim(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	o, err := h.orders.Claim(c.Request.Context(), order.ClaimCommand{
		OrderID:  types.ID(c.Param("id")),
		DriverID: p.ID,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *DriverHandler) Pickup(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	err := h.orders.Pickup(c.Request.Context(), order.PickupCommand{
		OrderID:  types.ID(c.Param("id")),
		DriverID: p.ID,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": order.StatusPickedUp})
}

func (h *DriverHandler) Complete(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	err := h.orders.Complete(c.Request.Context(), order.CompleteCommand{
		OrderID:  types.ID(c.Param("id")),
		DriverID: p.ID,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": order.StatusDelivered})
}

func (h *DriverHandler) ActiveOrder(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	o, err := h.orders.ActiveForDriver(c.Request.Context(), p.ID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

func (h *DriverHandler) History(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	orders, err := h.orders.List(c.Request.Context(), order.Filter{DriverID: &p.ID})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *DriverHandler) GoOnline(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	if err := h.presence.GoOnline(c.Request.Context(), p.ID); err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_online": true})
}

func (h *DriverHandler) GoOffline(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	if err := h.presence.GoOffline(c.Request.Context(), p.ID); err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_online": false})
}

type positionReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *DriverHandler) UpdatePosition(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	var req positionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.presence.UpdatePosition(c.Request.Context(), p.ID, types.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *DriverHandler) TodayStats(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	stats, err := h.payroll.DriverToday(c.Request.Context(), p.ID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
