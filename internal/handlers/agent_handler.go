package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/middleware"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/skyline/air-reservation/internal/services"
)

// AgentHandler serves the booking agent pages
type AgentHandler struct {
	tickets *services.TicketService
	reports *services.ReportService
	logger  *logrus.Logger
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(tickets *services.TicketService, reports *services.ReportService, logger *logrus.Logger) *AgentHandler {
	return &AgentHandler{
		tickets: tickets,
		reports: reports,
		logger:  logger,
	}
}

// Dashboard handles GET /agent
func (h *AgentHandler) Dashboard(c *gin.Context) {
	user := middleware.MustGetUserContext(c)

	dashboard, err := h.reports.AgentDashboard(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err, "/agent")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// PurchasePage handles GET /agent/purchase/:airline/:flight_num
func (h *AgentHandler) PurchasePage(c *gin.Context) {
	user := middleware.MustGetUserContext(c)
	airline, flightNum, ok := flightParams(c, "/agent")
	if !ok {
		return
	}

	options, err := h.tickets.AgentPurchaseOptions(c.Request.Context(), user.ID, airline, flightNum)
	if err != nil {
		respondError(c, h.logger, err, "/agent")
		return
	}
	c.JSON(http.StatusOK, options)
}

// Purchase handles POST /agent/purchase/:airline/:flight_num on behalf of a customer
func (h *AgentHandler) Purchase(c *gin.Context) {
	user := middleware.MustGetUserContext(c)
	airline, flightNum, ok := flightParams(c, "/agent")
	if !ok {
		return
	}
	page := c.Request.URL.Path

	var req models.PurchaseRequest
	if !bind(c, &req, page) {
		return
	}

	agentEmail := user.ID
	result, err := h.tickets.Purchase(c.Request.Context(), services.PurchaseInput{
		AirlineName:   airline,
		FlightNum:     flightNum,
		SeatClassID:   req.SeatClassID,
		CustomerEmail: req.CustomerEmail,
		AgentEmail:    &agentEmail,
	})
	if err != nil {
		respondError(c, h.logger, err, page)
		return
	}

	respondMessage(c, http.StatusCreated, "Ticket purchased!", "/agent", gin.H{"ticket": result})
}

// Bookings handles GET|POST /agent/bookings. POST applies the filter form.
func (h *AgentHandler) Bookings(c *gin.Context) {
	user := middleware.MustGetUserContext(c)

	var req *models.AgentBookingsRequest
	if c.Request.Method == http.MethodPost {
		req = &models.AgentBookingsRequest{}
		if !bind(c, req, "/agent/bookings") {
			return
		}
	}

	bookings, err := h.reports.AgentBookings(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, h.logger, err, "/agent/bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
