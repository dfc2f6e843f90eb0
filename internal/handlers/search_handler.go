package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/middleware"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/skyline/air-reservation/internal/services"
)

// SearchHandler handles HTTP requests for flight search
type SearchHandler struct {
	service *services.SearchService
	logger  *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *services.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// PublicSearch handles GET|POST /search and POST /customer/search_flights.
// GET without criteria lists every upcoming flight.
func (h *SearchHandler) PublicSearch(c *gin.Context) {
	var req models.FlightSearchRequest
	if !bind(c, &req, "/search") {
		return
	}

	flights, err := h.service.Search(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "/search")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flights": flights,
		"count":   len(flights),
	})
}

// AgentSearch handles GET|POST /agent/search. Results only cover airlines
// the agent is authorized for.
func (h *SearchHandler) AgentSearch(c *gin.Context) {
	user := middleware.MustGetUserContext(c)

	var req models.FlightSearchRequest
	if !bind(c, &req, "/agent/search") {
		return
	}

	flights, err := h.service.SearchForAgent(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, h.logger, err, "/agent/search")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flights": flights,
		"count":   len(flights),
	})
}
