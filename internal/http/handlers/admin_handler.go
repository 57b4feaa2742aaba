// README: Admin endpoints — order management, fleet, settings, payroll, overview.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/http/middleware"
	"vdeliveries/internal/modules/order"
	"vdeliveries/internal/modules/payroll"
	"vdeliveries/internal/modules/presence"
	"vdeliveries/internal/modules/profile"
	"vdeliveries/internal/modules/settings"
	"vdeliveries/internal/types"
)

type AdminHandler struct {
	orders   *order.Service
	profiles *profile.Service
	presence *presence.Service
	settings *settings.Service
	payroll  *payroll.Service
}

func NewAdminHandler(
	orders *order.Service,
	profiles *profile.Service,
	presenceSvc *presence.Service,
	settingsSvc *settings.Service,
	payrollSvc *payroll.Service,
) *AdminHandler {
	return &AdminHandler{
		orders:   orders,
		profiles: profiles,
		presence: presenceSvc,
		settings: settingsSvc,
		payroll:  payrollSvc,
	}
}

type adminCreateOrderReq struct {
	CustomerName    string     `json:"customer_name"`
	PickupAddress   string     `json:"pickup_address"`
	PickupLat       float64    `json:"pickup_lat"`
	PickupLng       float64    `json:"pickup_lng"`
	DropoffAddress  string     `json:"dropoff_address"`
	DropoffLat      float64    `json:"dropoff_lat"`
	DropoffLng      float64    `json:"dropoff_lng"`
	Price           int64      `json:"price_zmw"`
	VehicleClass    string     `json:"vehicle_class"`
	ReceiverName    string     `json:"receiver_name"`
	ReceiverPhone   string     `json:"receiver_phone"`
	ItemDescription string     `json:"item_description"`
	Notes           string     `json:"notes"`
	ScheduledFor    *time.Time `json:"scheduled_for"`
}

// CreateOrder takes a manual price; admin bookings are often phoned in with a
// negotiated fee.
func (h *AdminHandler) CreateOrder(c *gin.Context) {
	var req adminCreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	o, err := h.orders.Create(c.Request.Context(), order.CreateCommand{
		ActorType:       "admin",
		CustomerName:    req.CustomerName,
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
		PriceOverride:   &types.Money{Amount: req.Price, Currency: "ZMW"},
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	var f order.Filter
	if statuses, ok := c.GetQueryArray("status"); ok {
		for _, s := range statuses {
			st := order.Status(s)
			if !st.Valid() {
				writeError(c, http.StatusBadRequest, "unknown status "+s)
				return
			}
			f.Statuses = append(f.Statuses, st)
		}
	}
	orders, err := h.orders.List(c.Request.Context(), f)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type assignReq struct {
	DriverID string `json:"driver_id"`
}

func (h *AdminHandler) Assign(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil || req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "driver_id required")
		return
	}
	err := h.orders.DirectAssign(c.Request.Context(), order.AssignCommand{
		OrderID:  types.ID(c.Param("id")),
		DriverID: types.ID(req.DriverID),
		AdminID:  p.ID,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": order.StatusAssigned})
}

func (h *AdminHandler) CancelOrder(c *gin.Context) {
	p := middleware.CurrentProfile(c)
	err := h.orders.Cancel(c.Request.Context(), order.CancelCommand{
		OrderID:   types.ID(c.Param("id")),
		ActorType: "admin",
		ActorID:   p.ID,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": order.StatusCancelled})
}

func (h *AdminHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.profiles.Drivers(c.Request.Context())
	if err != nil {
		writeProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

func (h *AdminHandler) Fleet(c *gin.Context) {
	online, err := h.presence.ListOnline(c.Request.Context())
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": online})
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	all, err := h.settings.All(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": all})
}

func (h *AdminHandler) SaveSettings(c *gin.Context) {
	var req []settings.Setting
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.settings.Save(c.Request.Context(), req); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) Payroll(c *gin.Context) {
	stats, err := h.payroll.DriverTotals(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payroll": stats})
}

func (h *AdminHandler) PayrollCSV(c *gin.Context) {
	data, err := h.payroll.ExportCSV(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="payroll.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// Overview returns order counts per status for the admin landing page.
func (h *AdminHandler) Overview(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), order.Filter{})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	counts := map[order.Status]int{}
	for _, o := range orders {
		counts[o.Status]++
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts, "total": len(orders)})
}
