package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/middleware"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/skyline/air-reservation/internal/services"
)

// StaffHandler serves the airline staff pages
type StaffHandler struct {
	staff   *services.StaffService
	reports *services.ReportService
	logger  *logrus.Logger
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staff *services.StaffService, reports *services.ReportService, logger *logrus.Logger) *StaffHandler {
	return &StaffHandler{
		staff:   staff,
		reports: reports,
		logger:  logger,
	}
}

func staffActor(c *gin.Context) services.StaffActor {
	user := middleware.MustGetUserContext(c)
	return services.StaffActor{
		Username:    user.ID,
		AirlineName: user.AirlineName,
		Role:        user.StaffRole,
	}
}

// CustomerHistoryRequest is the /staff/customer_history payload
type CustomerHistoryRequest struct {
	CustomerEmail string `json:"customer_email" form:"customer_email"`
}

// Dashboard handles GET /staff
func (h *StaffHandler) Dashboard(c *gin.Context) {
	actor := staffActor(c)

	dashboard, err := h.reports.StaffDashboard(c.Request.Context(), actor.AirlineName, actor.Role)
	if err != nil {
		respondError(c, h.logger, err, "/staff")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// Passengers handles GET /staff/passengers/:airline/:flight_num
func (h *StaffHandler) Passengers(c *gin.Context) {
	airline, flightNum, ok := flightParams(c, "/staff")
	if !ok {
		return
	}

	passengers, err := h.staff.Passengers(c.Request.Context(), staffActor(c), airline, flightNum)
	if err != nil {
		respondError(c, h.logger, err, "/staff")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"airline_name": airline,
		"flight_num":   flightNum,
		"passengers":   passengers,
	})
}

// CustomerHistory handles POST /staff/customer_history
func (h *StaffHandler) CustomerHistory(c *gin.Context) {
	var req CustomerHistoryRequest
	if !bind(c, &req, "/staff") {
		return
	}

	flights, err := h.staff.CustomerHistory(c.Request.Context(), staffActor(c), req.CustomerEmail)
	if err != nil {
		respondError(c, h.logger, err, "/staff")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customer_email": req.CustomerEmail,
		"flights":        flights,
	})
}

// Analytics handles GET /staff/analytics
func (h *StaffHandler) Analytics(c *gin.Context) {
	actor := staffActor(c)

	analytics, err := h.reports.StaffAnalytics(c.Request.Context(), actor.AirlineName)
	if err != nil {
		respondError(c, h.logger, err, "/staff")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// CreateFlight handles POST /staff/create_flight
func (h *StaffHandler) CreateFlight(c *gin.Context) {
	var req models.CreateFlightRequest
	if !bind(c, &req, "/staff") {
		return
	}

	flight, err := h.staff.CreateFlight(c.Request.Context(), staffActor(c), &req)
	if err != nil {
		respondError(c, h.logger, err, "/staff")
		return
	}
	respondMessage(c, http.StatusCreated, "Flight created.", "/staff", gin.H{"flight": flight})
}

// UpdateStatus handles POST /staff/update_status
func (h *StaffHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if !bind(c, &req, "/staff") {
		return
	}

	if err := h.staff.UpdateStatus(c.Request.Context(), staffActor(c), &req); err != nil {
		respondError(c, h.logger, err, "/staff")
		return
	}
	respondMessage(c, http.StatusOK, "Flight status updated successfully.", "/staff", nil)
}

// AddAirplane handles POST /staff/add_airplane
func (h *StaffHandler) AddAirplane(c *gin.Context) {
	var req models.AddAirplaneRequest
	if !bind(c, &req, "/staff") {
		return
	}

	if err := h.staff.AddAirplane(c.Request.Context(), staffActor(c), &req); err != nil {
		respondError(c, h.logger, err, "/staff")
		return
	}
	respondMessage(c, http.StatusCreated, "Airplane added.", "/staff", nil)
}

// AddAirport handles POST /staff/add_airport
func (h *StaffHandler) AddAirport(c *gin.Context) {
	var req models.Airport
	if !bind(c, &req, "/staff") {
		return
	}

	if err := h.staff.AddAirport(c.Request.Context(), staffActor(c), &req); err != nil {
		respondError(c, h.logger, err, "/staff")
		return
	}
	respondMessage(c, http.StatusCreated, "Airport added.", "/staff", nil)
}

// AddAgentAuth handles POST /staff/add_agent_auth
func (h *StaffHandler) AddAgentAuth(c *gin.Context) {
	var req models.AddAgentAuthRequest
	if !bind(c, &req, "/staff") {
		return
	}

	if err := h.staff.AddAgentAuth(c.Request.Context(), staffActor(c), &req); err != nil {
		respondError(c, h.logger, err, "/staff")
		return
	}
	respondMessage(c, http.StatusCreated, "Agent successfully authorized for this airline.", "/staff", nil)
}
