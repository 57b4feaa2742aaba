// README: Geocoding proxy endpoint.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/geocode"
	"vdeliveries/internal/logging"
)

type GeocodingHandler struct {
	geo *geocode.Service
	log *logging.Logger
}

func NewGeocodingHandler(geo *geocode.Service, log *logging.Logger) *GeocodingHandler {
	if log == nil {
		log = logging.New("geocoding")
	}
	return &GeocodingHandler{geo: geo, log: log}
}

// Handle serves GET /api/geocoding?type=forward&q=... and
// GET /api/geocoding?type=reverse&lat=...&lon=...
func (h *GeocodingHandler) Handle(c *gin.Context) {
	kind := c.DefaultQuery("type", "forward")

	switch kind {
	case "forward":
		q := c.Query("q")
		if q == "" {
			writeError(c, http.StatusBadRequest, "missing parameters")
			return
		}
		results, err := h.geo.Forward(c.Request.Context(), q)
		if err != nil {
			h.log.Error("geocode_forward", "forward geocoding failed", err, map[string]any{"q": q})
			writeError(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if results == nil {
			results = []geocode.Result{}
		}
		c.JSON(http.StatusOK, results)

	case "reverse":
		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
		if latErr != nil || lonErr != nil {
			writeError(c, http.StatusBadRequest, "missing parameters")
			return
		}
		address, err := h.geo.Reverse(c.Request.Context(), lat, lon)
		if err != nil {
			h.log.Error("geocode_reverse", "reverse geocoding failed", err, map[string]any{"lat": lat, "lon": lon})
			writeError(c, http.StatusInternalServerError, "internal server error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": address})

	default:
		writeError(c, http.StatusBadRequest, "missing parameters")
	}
}
