package handlers

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectSeatSale(mock sqlmock.Sqlmock, ticketID int, customer string, agent interface{}, price float64) {
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM flight (.+) FOR SHARE").
		WithArgs("AIRX", 100).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("upcoming"))
	mock.ExpectQuery("SELECT seat_capacity FROM seat_class (.+) FOR UPDATE").
		WithArgs("AIRX", 7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"seat_capacity"}).AddRow(50))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM ticket").
		WithArgs("AIRX", 100, 7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(ticket_id\\), 0\\) \\+ 1 FROM ticket").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(ticketID))
	mock.ExpectExec("INSERT INTO ticket").
		WithArgs(ticketID, "AIRX", 100, 7, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO purchases").
		WithArgs(ticketID, customer, agent, sqlmock.AnyArg(), price).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

// Register, log in and buy a business class seat on a 200 base fare flight
func TestCustomerFlow_RegisterLoginPurchase(t *testing.T) {
	srv := setupTestServer(t)

	srv.mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM customer").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	srv.mock.ExpectExec("INSERT INTO customer").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := srv.do(t, http.MethodPost, "/register/customer", "", map[string]string{
		"email": "a@x.com", "name": "Ada", "password": "secret",
	})
	assertMessage(t, w, http.StatusCreated, "Customer registered. Please log in.", "/login")

	srv.mock.ExpectQuery("SELECT (.+) FROM customer WHERE email = \\$1").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"email", "name", "password_hash"}).
			AddRow("a@x.com", "Ada", hashFor(t, "secret")))
	srv.mock.ExpectExec("INSERT INTO sessions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w = srv.do(t, http.MethodPost, "/login", "", map[string]string{
		"user_type": "customer", "identifier": "a@x.com", "password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)

	srv.mock.ExpectQuery("SELECT (.+) FROM sessions WHERE id = \\$1").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sessionRow("6f1c1a52-6a8e-4c5b-9d55-0d0f3b7d1a11", "customer", "a@x.com", nil, nil))
	srv.mock.ExpectQuery("SELECT (.+) FROM flight WHERE airline_name = \\$1 AND flight_num = \\$2").
		WithArgs("AIRX", 100).
		WillReturnRows(upcomingFlight(200))
	expectSeatSale(srv.mock, 1, "a@x.com", nil, 300.0)

	w = srv.do(t, http.MethodPost, "/customer/purchase/AIRX/100", token, map[string]int{"seat_class_id": 2})

	assertMessage(t, w, http.StatusCreated, "Your ticket has been purchased!", "/customer")
	ticket := decodeBody(t, w)["ticket"].(map[string]interface{})
	assert.Equal(t, float64(300), ticket["purchase_price"])
	assert.Equal(t, float64(1), ticket["ticket_id"])
	assert.Equal(t, "a@x.com", ticket["customer_email"])
	assert.Equal(t, 1, srv.logCount("Ticket purchased"), "one log line per sale")
	assert.NoError(t, srv.mock.ExpectationsWereMet())
}

func TestCustomerPages_RequireLogin(t *testing.T) {
	srv := setupTestServer(t)

	paths := []string{"/customer", "/customer/purchased_flights", "/agent", "/staff", "/staff/analytics"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := srv.do(t, http.MethodGet, path, "", nil)
			assertMessage(t, w, http.StatusUnauthorized, "Please log in first.", "/login")
		})
	}
}

func TestCustomerPages_WrongPrincipal(t *testing.T) {
	srv := setupTestServer(t)
	token := srv.login(t, agentPrincipal())

	w := srv.do(t, http.MethodGet, "/customer/purchased_flights", token, nil)

	assertMessage(t, w, http.StatusForbidden, "You are not authorized to view that page.", "/")
	assert.NoError(t, srv.mock.ExpectationsWereMet())
}

func TestCustomerPurchase_NoSeatsLeft(t *testing.T) {
	srv := setupTestServer(t)
	token := srv.login(t, customerPrincipal())

	srv.mock.ExpectQuery("SELECT (.+) FROM flight").
		WithArgs("AIRX", 100).
		WillReturnRows(upcomingFlight(200))
	srv.mock.ExpectBegin()
	srv.mock.ExpectQuery("SELECT status FROM flight (.+) FOR SHARE").
		WithArgs("AIRX", 100).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("upcoming"))
	srv.mock.ExpectQuery("SELECT seat_capacity FROM seat_class").
		WithArgs("AIRX", 7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"seat_capacity"}).AddRow(2))
	srv.mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM ticket").
		WithArgs("AIRX", 100, 7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	srv.mock.ExpectRollback()

	w := srv.do(t, http.MethodPost, "/customer/purchase/AIRX/100", token, map[string]int{"seat_class_id": 1})

	assertMessage(t, w, http.StatusConflict, "Sorry, no seats left in this class.", "/customer/purchase/AIRX/100")
	assert.NoError(t, srv.mock.ExpectationsWereMet())
}

func TestCustomerPurchase_BadFlightNumber(t *testing.T) {
	srv := setupTestServer(t)
	token := srv.login(t, customerPrincipal())

	w := srv.do(t, http.MethodPost, "/customer/purchase/AIRX/abc", token, map[string]int{"seat_class_id": 1})

	assertMessage(t, w, http.StatusNotFound, "Flight not found.", "/customer")
}

func TestBoardingPass_Handler(t *testing.T) {
	bookedCols := append(append([]string{}, flightCols...),
		"ticket_id", "seat_class_id", "customer_email", "purchase_date", "purchase_price")

	t.Run("Own ticket", func(t *testing.T) {
		srv := setupTestServer(t)
		token := srv.login(t, customerPrincipal())

		dep := time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)
		srv.mock.ExpectQuery("WHERE t.ticket_id = \\$1 AND p.customer_email = \\$2").
			WithArgs(42, "a@x.com").
			WillReturnRows(sqlmock.NewRows(bookedCols).AddRow(
				"AIRX", 100, "JFK", dep, "LAX", dep.Add(6*time.Hour), 200.0, "upcoming", 7,
				42, 2, "a@x.com", dep.AddDate(0, 0, -10), 300.0))

		w := srv.do(t, http.MethodGet, "/customer/tickets/42/boarding_pass", token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
		assert.NoError(t, srv.mock.ExpectationsWereMet())
	})

	t.Run("Someone else's ticket", func(t *testing.T) {
		srv := setupTestServer(t)
		token := srv.login(t, customerPrincipal())

		srv.mock.ExpectQuery("WHERE t.ticket_id = \\$1 AND p.customer_email = \\$2").
			WithArgs(43, "a@x.com").
			WillReturnRows(sqlmock.NewRows(bookedCols))

		w := srv.do(t, http.MethodGet, "/customer/tickets/43/boarding_pass", token, nil)

		assertMessage(t, w, http.StatusNotFound, "Ticket not found.", "/customer/purchased_flights")
	})
}
