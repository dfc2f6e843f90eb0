package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/middleware"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/skyline/air-reservation/internal/services"
	"github.com/skyline/air-reservation/internal/utils"
)

// AuthHandler serves the public pages, registration and login
type AuthHandler struct {
	auth   *services.AuthService
	logger *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// Home handles GET /
func (h *AuthHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome! Search upcoming flights or log in to book.",
		"links": gin.H{
			"search":   "/search",
			"register": "/register",
			"login":    "/login",
		},
	})
}

// RegisterOptions handles GET /register
func (h *AuthHandler) RegisterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_types": []models.PrincipalType{models.PrincipalCustomer, models.PrincipalAgent, models.PrincipalStaff},
		"links": gin.H{
			"customer": "/register/customer",
			"agent":    "/register/agent",
			"staff":    "/register/staff",
		},
	})
}

// RegisterCustomer handles POST /register/customer
func (h *AuthHandler) RegisterCustomer(c *gin.Context) {
	var req models.CustomerRegistrationRequest
	if !bind(c, &req, "/register/customer") {
		return
	}

	if err := h.auth.RegisterCustomer(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, err, "/register/customer")
		return
	}
	respondMessage(c, http.StatusCreated, "Customer registered. Please log in.", "/login", nil)
}

// RegisterAgent handles POST /register/agent
func (h *AuthHandler) RegisterAgent(c *gin.Context) {
	var req models.AgentRegistrationRequest
	if !bind(c, &req, "/register/agent") {
		return
	}

	if err := h.auth.RegisterAgent(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, err, "/register/agent")
		return
	}
	respondMessage(c, http.StatusCreated, "Booking agent registered. Please log in.", "/login", nil)
}

// StaffRegistrationForm handles GET /register/staff. The form needs the
// list of airlines to pick from.
func (h *AuthHandler) StaffRegistrationForm(c *gin.Context) {
	airlines, err := h.auth.ListAirlines(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "/register")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"airlines": airlines,
		"roles":    []models.StaffRole{models.StaffRoleAdmin, models.StaffRoleOperator, models.StaffRoleBoth},
	})
}

// RegisterStaff handles POST /register/staff
func (h *AuthHandler) RegisterStaff(c *gin.Context) {
	var req models.StaffSignupRequest
	if !bind(c, &req, "/register/staff") {
		return
	}

	if err := h.auth.RegisterStaff(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, err, "/register/staff")
		return
	}
	respondMessage(c, http.StatusCreated, "Staff registered. Please log in.", "/login", nil)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bind(c, &req, "/login") {
		return
	}

	userAgent := utils.GetUserAgent(c)
	resp, err := h.auth.Login(c.Request.Context(), &req, models.ClientInfo{
		IPAddress:  utils.GetRealIP(c),
		UserAgent:  userAgent,
		DeviceType: utils.DeviceType(userAgent),
	})
	if err != nil {
		respondError(c, h.logger, err, "/login")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout handles GET|POST /logout. It always succeeds; a missing or stale
// token simply has nothing to revoke.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		respondError(c, h.logger, err, "/")
		return
	}
	respondMessage(c, http.StatusOK, "Logged out.", "/", nil)
}
