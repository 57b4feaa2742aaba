// README: Client-facing order endpoints (create, list own, cancel, quote).
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/http/middleware"
	"vdeliveries/internal/modules/order"
	"vdeliveries/internal/modules/pricing"
	"vdeliveries/internal/types"
)

type ClientHandler struct {
	orders  *order.Service
	pricing *pricing.Service
}

func NewClientHandler(orders *order.Service, pricingSvc *pricing.Service) *ClientHandler {
	return &ClientHandler{orders: orders, pricing: pricingSvc}
}

type createOrderReq struct {
	PickupAddress   string     `json:"pickup_address"`
	PickupLat       float64    `json:"pickup_lat"`
	PickupLng       float64    `json:"pickup_lng"`
	DropoffAddress  string     `json:"dropoff_address"`
	DropoffLat      float64    `json:"dropoff_lat"`
	DropoffLng      float64    `json:"dropoff_lng"`
	VehicleClass    string     `json:"vehicle_class"`
	ReceiverName    string     `json:"receiver_name"`
	ReceiverPhone   string     `json:"receiver_phone"`
	ItemDescription string     `json:"item_description"`
	Notes           string     `json:"notes"`
	ScheduledFor    *time.Time `json:"scheduled_for"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	o, err := h.orders.Create(c.Request.Context(), order.CreateCommand{
		ClientID:        &p.ID,
		ActorType:       "client",
		CustomerName:    p.FullName,
		PickupAddress:   req.PickupAddress,
		Pickup:          types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		DropoffAddress:  req.DropoffAddress,
		Dropoff:         types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
		VehicleClass:    req.VehicleClass,
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		ItemDescription: req.ItemDescription,
		Notes:           req.Notes,
		ScheduledFor:    req.ScheduledFor,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *ClientHandler) ListOwn(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	orders, err := h.orders.List(c.Request.Context(), order.Filter{ClientID: &p.ID})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *ClientHandler) Cancel(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	err := h.orders.Cancel(c.Request.Context(), order.CancelCommand{
		OrderID:   types.ID(c.Param("id")),
		ActorType: "client",
		ActorID:   p.ID,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": order.StatusCancelled})
}

type quoteReq struct {
	PickupLat    float64 `json:"pickup_lat"`
	PickupLng    float64 `json:"pickup_lng"`
	DropoffLat   float64 `json:"dropoff_lat"`
	DropoffLng   float64 `json:"dropoff_lng"`
	VehicleClass string  `json:"vehicle_class"`
}

// Quote previews the price before the booking is confirmed.
func (h *ClientHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	m, err := h.pricing.Quote(c.Request.Context(),
		types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
		req.VehicleClass,
	)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": m})
}
