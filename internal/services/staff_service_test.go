package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/lib/pq"
	"github.com/skyline/air-reservation/internal/cache"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/skyline/air-reservation/internal/events"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminActor    = StaffActor{Username: "boss", AirlineName: "AIRX", Role: models.StaffRoleAdmin}
	operatorActor = StaffActor{Username: "ops1", AirlineName: "AIRX", Role: models.StaffRoleOperator}
)

func setupStaffService(t *testing.T) (*StaffService, sqlmock.Sqlmock, *recordingPublisher) {
	db, mock := setupMockDB(t)
	publisher := &recordingPublisher{}
	search := NewSearchService(
		database.NewFlightRepository(db),
		database.NewAuthorizationRepository(db),
		nil,
		testLogger(),
	)
	svc := NewStaffService(
		database.NewFlightRepository(db),
		database.NewFleetRepository(db),
		database.NewTicketRepository(db),
		database.NewBookingAgentRepository(db),
		database.NewAirlineRepository(db),
		database.NewAuthorizationRepository(db),
		search,
		publisher,
		testLogger(),
	)
	svc.now = fixedClock
	return svc, mock, publisher
}

func TestStaffMutations_RequireRole(t *testing.T) {
	svc, mock, _ := setupStaffService(t)
	ctx := context.Background()

	_, err := svc.CreateFlight(ctx, operatorActor, &models.CreateFlightRequest{})
	assertServiceError(t, err, ErrForbidden, "You do not have admin permission.")

	err = svc.AddAirplane(ctx, operatorActor, &models.AddAirplaneRequest{AirplaneID: 1})
	assertServiceError(t, err, ErrForbidden, "You do not have admin permission.")

	err = svc.AddAirport(ctx, operatorActor, &models.Airport{AirportName: "JFK", AirportCity: "NYC"})
	assertServiceError(t, err, ErrForbidden, "You do not have admin permission.")

	err = svc.AddAgentAuth(ctx, operatorActor, &models.AddAgentAuthRequest{AgentEmail: "agent@x.com"})
	assertServiceError(t, err, ErrForbidden, "You do not have admin permission.")

	err = svc.UpdateStatus(ctx, adminActor, &models.UpdateStatusRequest{FlightNum: 100, Status: "delayed"})
	assertServiceError(t, err, ErrForbidden, "You do not have operator permission.")

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "/staff", svcErr.Redirect)

	// nothing reached the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFlight(t *testing.T) {
	svc, mock, _ := setupStaffService(t)

	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM airplane").
		WithArgs("AIRX", 7).
		WillReturnRows(existsRow(true))
	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM airport").
		WithArgs("JFK").
		WillReturnRows(existsRow(true))
	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM airport").
		WithArgs("LAX").
		WillReturnRows(existsRow(true))
	mock.ExpectExec("INSERT INTO flight").
		WithArgs("AIRX", 100, "JFK", sqlmock.AnyArg(), "LAX", sqlmock.AnyArg(), 200.0, models.FlightStatusUpcoming, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	flight, err := svc.CreateFlight(context.Background(), adminActor, &models.CreateFlightRequest{
		FlightNum:        100,
		DepartureAirport: "JFK",
		DepartureTime:    "2026-11-01T08:00",
		ArrivalAirport:   "LAX",
		ArrivalTime:      "2026-11-01 14:00:00",
		BasePrice:        200,
		AirplaneID:       7,
	})
	require.NoError(t, err)
	assert.Equal(t, models.FlightStatusUpcoming, flight.Status)
	assert.Equal(t, 8, flight.DepartureTime.Hour())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFlight_Validation(t *testing.T) {
	svc, mock, _ := setupStaffService(t)
	base := models.CreateFlightRequest{
		FlightNum: 100, DepartureAirport: "JFK", ArrivalAirport: "LAX",
		DepartureTime: "2026-11-01T08:00", ArrivalTime: "2026-11-01T14:00",
		BasePrice: 200, AirplaneID: 7,
	}

	tests := []struct {
		name    string
		mutate  func(r *models.CreateFlightRequest)
		message string
	}{
		{"Missing Airport", func(r *models.CreateFlightRequest) { r.ArrivalAirport = "" }, "Flight number, airports, times, price, and airplane are required."},
		{"Bad Time", func(r *models.CreateFlightRequest) { r.DepartureTime = "tomorrow" }, "Departure time is not a valid date and time."},
		{"Arrival Before Departure", func(r *models.CreateFlightRequest) { r.ArrivalTime = "2026-11-01T07:00" }, "Arrival time must be after departure time."},
		{"Zero Price", func(r *models.CreateFlightRequest) { r.BasePrice = 0 }, "Base price must be greater than zero."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := svc.CreateFlight(context.Background(), adminActor, &req)
			assertServiceError(t, err, ErrValidation, tt.message)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFlight_UnknownAirplane(t *testing.T) {
	svc, mock, _ := setupStaffService(t)

	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM airplane").
		WithArgs("AIRX", 9).
		WillReturnRows(existsRow(false))

	_, err := svc.CreateFlight(context.Background(), adminActor, &models.CreateFlightRequest{
		FlightNum: 100, DepartureAirport: "JFK", ArrivalAirport: "LAX",
		DepartureTime: "2026-11-01T08:00", ArrivalTime: "2026-11-01T14:00",
		BasePrice: 200, AirplaneID: 9,
	})
	assertServiceError(t, err, ErrNotFound, "This airplane does not exist for your airline.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	t.Run("Success Publishes Event", func(t *testing.T) {
		svc, mock, publisher := setupStaffService(t)
		mock.ExpectExec("UPDATE flight SET status = \\$1").
			WithArgs(models.FlightStatusDelayed, "AIRX", 100).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.UpdateStatus(context.Background(), operatorActor, &models.UpdateStatusRequest{FlightNum: 100, Status: "Delayed"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())

		require.Len(t, publisher.events, 1)
		payload, ok := publisher.events[0].Payload.(events.FlightStatusChanged)
		require.True(t, ok)
		assert.Equal(t, "delayed", payload.Status)
		assert.Equal(t, "ops1", payload.ChangedBy)
	})

	t.Run("Unknown Flight", func(t *testing.T) {
		svc, mock, publisher := setupStaffService(t)
		mock.ExpectExec("UPDATE flight SET status = \\$1").
			WithArgs(models.FlightStatusDelayed, "AIRX", 404).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := svc.UpdateStatus(context.Background(), operatorActor, &models.UpdateStatusRequest{FlightNum: 404, Status: "delayed"})
		assertServiceError(t, err, ErrNotFound, "No flight with that number exists for your airline.")
		assert.Empty(t, publisher.events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Fields", func(t *testing.T) {
		svc, _, _ := setupStaffService(t)
		err := svc.UpdateStatus(context.Background(), operatorActor, &models.UpdateStatusRequest{FlightNum: 100})
		assertServiceError(t, err, ErrValidation, "Please provide both a flight number and a new status.")
	})

	t.Run("Unknown Status", func(t *testing.T) {
		svc, _, _ := setupStaffService(t)
		err := svc.UpdateStatus(context.Background(), operatorActor, &models.UpdateStatusRequest{FlightNum: 100, Status: "boarding"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUpdateStatus_InvalidatesSearchCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	db, mock := setupMockDB(t)
	searchCache := cache.NewRedisSearchCache(client, 0, testLogger())
	search := NewSearchService(database.NewFlightRepository(db), database.NewAuthorizationRepository(db), searchCache, testLogger())
	svc := NewStaffService(
		database.NewFlightRepository(db), database.NewFleetRepository(db), database.NewTicketRepository(db),
		database.NewBookingAgentRepository(db), database.NewAirlineRepository(db), database.NewAuthorizationRepository(db),
		search, nil, testLogger(),
	)

	mock.ExpectQuery("SELECT (.+) FROM flight WHERE status = 'upcoming'").
		WillReturnRows(flightRow("upcoming", 200))
	mock.ExpectExec("UPDATE flight SET status").
		WithArgs(models.FlightStatusCancelled, "AIRX", 100).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM flight WHERE status = 'upcoming'").
		WillReturnRows(sqlmock.NewRows(flightCols))

	ctx := context.Background()
	first, err := search.Search(ctx, &models.FlightSearchRequest{})
	require.NoError(t, err)
	assert.Len(t, first, 1)

	// served from cache, no query expected
	cached, err := search.Search(ctx, &models.FlightSearchRequest{})
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	require.NoError(t, svc.UpdateStatus(ctx, operatorActor, &models.UpdateStatusRequest{FlightNum: 100, Status: "cancelled"}))

	after, err := search.Search(ctx, &models.FlightSearchRequest{})
	require.NoError(t, err)
	assert.Empty(t, after)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddAirplane(t *testing.T) {
	t.Run("With Seat Classes", func(t *testing.T) {
		svc, mock, _ := setupStaffService(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO airplane").
			WithArgs("AIRX", 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO seat_class").
			WithArgs("AIRX", 7, 1, 150).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO seat_class").
			WithArgs("AIRX", 7, 2, 20).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := svc.AddAirplane(context.Background(), adminActor, &models.AddAirplaneRequest{
			AirplaneID:  7,
			SeatClasses: []models.SeatClassInput{{SeatClassID: 1, SeatCapacity: 150}, {SeatClassID: 2, SeatCapacity: 20}},
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate", func(t *testing.T) {
		svc, mock, _ := setupStaffService(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO airplane").
			WithArgs("AIRX", 7).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err := svc.AddAirplane(context.Background(), adminActor, &models.AddAirplaneRequest{AirplaneID: 7})
		assertServiceError(t, err, ErrConflict, "This airplane already exists for your airline.")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Seat Classes", func(t *testing.T) {
		svc, _, _ := setupStaffService(t)
		err := svc.AddAirplane(context.Background(), adminActor, &models.AddAirplaneRequest{
			AirplaneID: 7, SeatClasses: []models.SeatClassInput{{SeatClassID: 5, SeatCapacity: 1}},
		})
		assertServiceError(t, err, ErrValidation, "Seat class ids must be 1, 2, or 3.")

		err = svc.AddAirplane(context.Background(), adminActor, &models.AddAirplaneRequest{
			AirplaneID: 7, SeatClasses: []models.SeatClassInput{{SeatClassID: 1, SeatCapacity: 5}, {SeatClassID: 1, SeatCapacity: 5}},
		})
		assertServiceError(t, err, ErrValidation, "Each seat class can only be listed once.")
	})
}

func TestAddAirport(t *testing.T) {
	svc, mock, _ := setupStaffService(t)
	mock.ExpectExec("INSERT INTO airport").
		WithArgs("JFK", "New York").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.AddAirport(context.Background(), adminActor, &models.Airport{AirportName: " JFK ", AirportCity: "New York"}))

	err := svc.AddAirport(context.Background(), adminActor, &models.Airport{AirportName: "JFK"})
	assertServiceError(t, err, ErrValidation, "Please provide both an airport name and a city.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddAgentAuth(t *testing.T) {
	airlineRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"airline_name", "staff_reg_hash"}).AddRow("AIRX", "abc")
	}

	t.Run("Success", func(t *testing.T) {
		svc, mock, _ := setupStaffService(t)
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM booking_agent").
			WithArgs("agent@x.com").
			WillReturnRows(existsRow(true))
		mock.ExpectQuery("SELECT airline_name, staff_reg_hash FROM airline").
			WithArgs("AIRX").
			WillReturnRows(airlineRow())
		mock.ExpectQuery("SELECT EXISTS\\(\\s*SELECT 1 FROM agent_airline_authorization").
			WithArgs("agent@x.com", "AIRX").
			WillReturnRows(existsRow(false))
		mock.ExpectExec("INSERT INTO agent_airline_authorization").
			WithArgs("agent@x.com", "AIRX").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, svc.AddAgentAuth(context.Background(), adminActor, &models.AddAgentAuthRequest{AgentEmail: "Agent@x.com"}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Agent", func(t *testing.T) {
		svc, mock, _ := setupStaffService(t)
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM booking_agent").
			WithArgs("ghost@x.com").
			WillReturnRows(existsRow(false))

		err := svc.AddAgentAuth(context.Background(), adminActor, &models.AddAgentAuthRequest{AgentEmail: "ghost@x.com"})
		assertServiceError(t, err, ErrNotFound, "This booking agent does not exist.")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Airline", func(t *testing.T) {
		svc, mock, _ := setupStaffService(t)
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM booking_agent").
			WithArgs("agent@x.com").
			WillReturnRows(existsRow(true))
		mock.ExpectQuery("SELECT airline_name, staff_reg_hash FROM airline").
			WithArgs("AIRX").
			WillReturnRows(sqlmock.NewRows([]string{"airline_name", "staff_reg_hash"}))

		err := svc.AddAgentAuth(context.Background(), adminActor, &models.AddAgentAuthRequest{AgentEmail: "agent@x.com"})
		assertServiceError(t, err, ErrNotFound, "Your airline is not valid.")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Authorized", func(t *testing.T) {
		svc, mock, _ := setupStaffService(t)
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM booking_agent").
			WithArgs("agent@x.com").
			WillReturnRows(existsRow(true))
		mock.ExpectQuery("SELECT airline_name, staff_reg_hash FROM airline").
			WithArgs("AIRX").
			WillReturnRows(airlineRow())
		mock.ExpectQuery("SELECT EXISTS\\(\\s*SELECT 1 FROM agent_airline_authorization").
			WithArgs("agent@x.com", "AIRX").
			WillReturnRows(existsRow(true))

		err := svc.AddAgentAuth(context.Background(), adminActor, &models.AddAgentAuthRequest{AgentEmail: "agent@x.com"})
		assertServiceError(t, err, ErrConflict, "This agent is already authorized for your airline.")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPassengers(t *testing.T) {
	svc, mock, _ := setupStaffService(t)

	_, err := svc.Passengers(context.Background(), operatorActor, "OTHER", 100)
	assertServiceError(t, err, ErrForbidden, "You can only view passengers of your own airline.")

	mock.ExpectQuery("SELECT c.name, c.email, t.ticket_id FROM ticket t").
		WithArgs("AIRX", 100).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email", "ticket_id"}).AddRow("Ada", "a@x.com", 1))

	passengers, err := svc.Passengers(context.Background(), operatorActor, "AIRX", 100)
	require.NoError(t, err)
	assert.Equal(t, []models.Passenger{{Name: "Ada", Email: "a@x.com", TicketID: 1}}, passengers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerHistory(t *testing.T) {
	svc, mock, _ := setupStaffService(t)

	_, err := svc.CustomerHistory(context.Background(), operatorActor, "  ")
	assertServiceError(t, err, ErrValidation, "Please provide a customer email.")

	mock.ExpectQuery("WHERE p.customer_email = \\$1 AND t.airline_name = \\$2").
		WithArgs("a@x.com", "AIRX").
		WillReturnRows(sqlmock.NewRows(bookedCols))

	flights, err := svc.CustomerHistory(context.Background(), operatorActor, "A@x.com")
	require.NoError(t, err)
	assert.Empty(t, flights)
	assert.NoError(t, mock.ExpectationsWereMet())
}
