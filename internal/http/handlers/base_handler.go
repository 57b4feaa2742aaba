// README: Shared handler utilities (JSON error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/modules/order"
	"vdeliveries/internal/modules/presence"
	"vdeliveries/internal/modules/pricing"
	"vdeliveries/internal/modules/profile"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrBadRequest), errors.Is(err, pricing.ErrInvalidParams):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrForbidden):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, order.ErrOrderTaken),
		errors.Is(err, order.ErrStaleState),
		errors.Is(err, order.ErrInvalidState),
		errors.Is(err, order.ErrNotAssignee),
		errors.Is(err, order.ErrDriverOffline),
		errors.Is(err, presence.ErrOffline):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profile.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, profile.ErrPhoneTaken):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, profile.ErrBadCredentials):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, profile.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
