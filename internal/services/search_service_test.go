package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSearchService(t *testing.T) (*SearchService, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	svc := NewSearchService(
		database.NewFlightRepository(db),
		database.NewAuthorizationRepository(db),
		nil,
		testLogger(),
	)
	return svc, mock
}

func TestSearch(t *testing.T) {
	t.Run("Filters By Route", func(t *testing.T) {
		svc, mock := setupSearchService(t)
		mock.ExpectQuery("SELECT (.+) FROM flight WHERE status = 'upcoming' AND departure_airport = \\$1 AND arrival_airport = \\$2").
			WithArgs("JFK", "LAX").
			WillReturnRows(flightRow("upcoming", 200))

		flights, err := svc.Search(context.Background(), &models.FlightSearchRequest{Origin: " JFK ", Destination: "LAX"})
		require.NoError(t, err)
		require.Len(t, flights, 1)
		assert.Equal(t, "AIRX", flights[0].AirlineName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Bad Date", func(t *testing.T) {
		svc, mock := setupSearchService(t)
		_, err := svc.Search(context.Background(), &models.FlightSearchRequest{Date: "01/11/2026"})
		assertServiceError(t, err, ErrValidation, "Dates must use the YYYY-MM-DD format.")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSearchForAgent(t *testing.T) {
	t.Run("Restricted To Authorized Airlines", func(t *testing.T) {
		svc, mock := setupSearchService(t)
		mock.ExpectQuery("SELECT airline_name FROM agent_airline_authorization").
			WithArgs("agent@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"airline_name"}).AddRow("AIRX"))
		mock.ExpectQuery("SELECT (.+) FROM flight WHERE status = 'upcoming' AND airline_name = ANY\\(\\$1\\)").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(flightRow("upcoming", 200))

		flights, err := svc.SearchForAgent(context.Background(), "agent@x.com", &models.FlightSearchRequest{})
		require.NoError(t, err)
		assert.Len(t, flights, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Authorizations", func(t *testing.T) {
		svc, mock := setupSearchService(t)
		mock.ExpectQuery("SELECT airline_name FROM agent_airline_authorization").
			WithArgs("agent@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"airline_name"}))

		flights, err := svc.SearchForAgent(context.Background(), "agent@x.com", &models.FlightSearchRequest{})
		require.NoError(t, err)
		assert.Empty(t, flights)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
