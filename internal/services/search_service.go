package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/cache"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/skyline/air-reservation/internal/models"
)

// SearchService handles business logic for flight search
type SearchService struct {
	flights *database.FlightRepository
	auths   *database.AuthorizationRepository
	cache   cache.SearchCache
	logger  *logrus.Logger
}

// NewSearchService creates a new search service. A nil cache disables caching.
func NewSearchService(
	flights *database.FlightRepository,
	auths *database.AuthorizationRepository,
	searchCache cache.SearchCache,
	logger *logrus.Logger,
) *SearchService {
	if searchCache == nil {
		searchCache = cache.NoopSearchCache{}
	}
	return &SearchService{
		flights: flights,
		auths:   auths,
		cache:   searchCache,
		logger:  logger,
	}
}

// Search returns upcoming flights of every airline matching the request
func (s *SearchService) Search(ctx context.Context, req *models.FlightSearchRequest) ([]models.Flight, error) {
	filter, err := parseSearch(req)
	if err != nil {
		return nil, err
	}
	return s.search(ctx, filter)
}

// SearchForAgent restricts the search to airlines the agent may sell
func (s *SearchService) SearchForAgent(ctx context.Context, agentEmail string, req *models.FlightSearchRequest) ([]models.Flight, error) {
	filter, err := parseSearch(req)
	if err != nil {
		return nil, err
	}

	airlines, err := s.auths.ListAirlines(ctx, agentEmail)
	if err != nil {
		return nil, err
	}
	if len(airlines) == 0 {
		return []models.Flight{}, nil
	}
	filter.Airlines = airlines
	return s.search(ctx, filter)
}

// InvalidateCache drops every cached search. Failures are logged only, the
// entries still expire on their TTL.
func (s *SearchService) InvalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate flight search cache")
	}
}

func (s *SearchService) search(ctx context.Context, filter models.FlightSearchFilter) ([]models.Flight, error) {
	startTime := time.Now()
	key := filter.CacheKey()

	if flights, ok := s.cache.GetFlights(ctx, key); ok {
		s.logger.WithFields(logrus.Fields{
			"key":     key,
			"results": len(flights),
		}).Debug("Flight search served from cache")
		return flights, nil
	}

	flights, err := s.flights.SearchUpcoming(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cache.SetFlights(ctx, key, flights)

	s.logger.WithFields(logrus.Fields{
		"origin":      filter.Origin,
		"destination": filter.Destination,
		"results":     len(flights),
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("Flight search completed")
	return flights, nil
}

func parseSearch(req *models.FlightSearchRequest) (models.FlightSearchFilter, error) {
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return models.FlightSearchFilter{}, err
	}
	return models.FlightSearchFilter{
		Origin:      strings.TrimSpace(req.Origin),
		Destination: strings.TrimSpace(req.Destination),
		Date:        date,
	}, nil
}
