package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/middleware"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/skyline/air-reservation/internal/services"
)

// CustomerHandler serves the customer pages
type CustomerHandler struct {
	tickets *services.TicketService
	reports *services.ReportService
	logger  *logrus.Logger
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(tickets *services.TicketService, reports *services.ReportService, logger *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{
		tickets: tickets,
		reports: reports,
		logger:  logger,
	}
}

// Dashboard handles GET|POST /customer. POST submits either the flight
// filter or the custom spending form.
func (h *CustomerHandler) Dashboard(c *gin.Context) {
	user := middleware.MustGetUserContext(c)

	var req *models.CustomerDashboardRequest
	if c.Request.Method == http.MethodPost {
		req = &models.CustomerDashboardRequest{}
		if !bind(c, req, "/customer") {
			return
		}
	}

	dashboard, err := h.reports.CustomerDashboard(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, h.logger, err, "/customer")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// PurchasePage handles GET /customer/purchase/:airline/:flight_num
func (h *CustomerHandler) PurchasePage(c *gin.Context) {
	airline, flightNum, ok := flightParams(c, "/customer")
	if !ok {
		return
	}

	options, err := h.tickets.PurchaseOptions(c.Request.Context(), airline, flightNum)
	if err != nil {
		respondError(c, h.logger, err, "/customer")
		return
	}
	c.JSON(http.StatusOK, options)
}

// Purchase handles POST /customer/purchase/:airline/:flight_num
func (h *CustomerHandler) Purchase(c *gin.Context) {
	user := middleware.MustGetUserContext(c)
	airline, flightNum, ok := flightParams(c, "/customer")
	if !ok {
		return
	}
	page := c.Request.URL.Path

	var req models.PurchaseRequest
	if !bind(c, &req, page) {
		return
	}

	result, err := h.tickets.Purchase(c.Request.Context(), services.PurchaseInput{
		AirlineName:   airline,
		FlightNum:     flightNum,
		SeatClassID:   req.SeatClassID,
		CustomerEmail: user.ID,
	})
	if err != nil {
		respondError(c, h.logger, err, page)
		return
	}

	respondMessage(c, http.StatusCreated, "Your ticket has been purchased!", "/customer", gin.H{"ticket": result})
}

// PurchasedFlights handles GET /customer/purchased_flights
func (h *CustomerHandler) PurchasedFlights(c *gin.Context) {
	user := middleware.MustGetUserContext(c)

	flights, err := h.tickets.PurchasedFlights(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.logger, err, "/customer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": flights})
}

// BoardingPass handles GET /customer/tickets/:ticket_id/boarding_pass
func (h *CustomerHandler) BoardingPass(c *gin.Context) {
	user := middleware.MustGetUserContext(c)

	ticketID, err := strconv.Atoi(c.Param("ticket_id"))
	if err != nil || ticketID <= 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "not_found",
			"message":  "Ticket not found.",
			"redirect": "/customer/purchased_flights",
		})
		return
	}

	png, err := h.tickets.BoardingPass(c.Request.Context(), user.ID, ticketID)
	if err != nil {
		respondError(c, h.logger, err, "/customer/purchased_flights")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
