// README: Signup and login endpoints issuing session tokens.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vdeliveries/internal/auth"
	"vdeliveries/internal/http/middleware"
	"vdeliveries/internal/modules/profile"
)

type AuthHandler struct {
	profiles *profile.Service
	tokens   *auth.Manager
}

func NewAuthHandler(profiles *profile.Service, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{profiles: profiles, tokens: tokens}
}

type signupReq struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	VehicleClass string `json:"vehicle_class"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	p, err := h.profiles.Signup(c.Request.Context(), profile.SignupCommand{
		FullName:     req.FullName,
		Phone:        req.Phone,
		Password:     req.Password,
		Role:         profile.Role(req.Role),
		VehicleClass: req.VehicleClass,
	})
	if err != nil {
		writeProfileError(c, err)
		return
	}

	h.issueSession(c, p)
	c.JSON(http.StatusCreated, gin.H{"profile": p})
}

type loginReq struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	p, err := h.profiles.Authenticate(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		writeProfileError(c, err)
		return
	}

	token := h.issueSession(c, p)
	c.JSON(http.StatusOK, gin.H{"token": token, "profile": p, "home": p.Role.Home()})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) issueSession(c *gin.Context, p *profile.Profile) string {
	token, err := h.tokens.Sign(p.ID)
	if err != nil {
		return ""
	}
	c.SetCookie(middleware.SessionCookie, token, 86400, "/", "", false, true)
	return token
}
