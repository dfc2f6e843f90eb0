package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/skyline/air-reservation/internal/services"
	"github.com/skyline/air-reservation/pkg/boardingpass"
	"github.com/skyline/air-reservation/pkg/jwt"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "handler-test-secret"

type testServer struct {
	router *gin.Engine
	mock   sqlmock.Sqlmock
	jwt    *jwt.Service
	logs   *logrustest.Hook
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	db := &database.PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logs := logrustest.NewLocal(logger)

	jwtService := jwt.NewService(testJWTSecret, time.Hour)
	flights := database.NewFlightRepository(db)
	fleet := database.NewFleetRepository(db)
	tickets := database.NewTicketRepository(db)
	customers := database.NewCustomerRepository(db)
	agents := database.NewBookingAgentRepository(db)
	airlines := database.NewAirlineRepository(db)
	auths := database.NewAuthorizationRepository(db)

	authService := services.NewAuthService(
		customers, agents, database.NewAirlineStaffRepository(db), airlines,
		database.NewSessionRepository(db), jwtService, bcrypt.MinCost, logger,
	)
	searchService := services.NewSearchService(flights, auths, nil, logger)
	ticketService := services.NewTicketService(flights, tickets, customers, auths, nil,
		boardingpass.NewGenerator("pass-secret", 128), logger)
	reportService := services.NewReportService(flights, tickets, database.NewReportRepository(db), auths, logger)
	staffService := services.NewStaffService(flights, fleet, tickets, agents, airlines, auths, searchService, nil, logger)

	router := gin.New()
	RegisterRoutes(router, Handlers{
		Auth:     NewAuthHandler(authService, logger),
		Search:   NewSearchHandler(searchService, logger),
		Customer: NewCustomerHandler(ticketService, reportService, logger),
		Agent:    NewAgentHandler(ticketService, reportService, logger),
		Staff:    NewStaffHandler(staffService, reportService, logger),
	}, authService, logger)

	return &testServer{router: router, mock: mock, jwt: jwtService, logs: logs}
}

// logCount counts entries logged with exactly this message
func (s *testServer) logCount(message string) int {
	n := 0
	for _, entry := range s.logs.AllEntries() {
		if entry.Message == message {
			n++
		}
	}
	return n
}

// login mints a token and queues the session lookup the auth middleware makes
func (s *testServer) login(t *testing.T, p jwt.Principal) string {
	t.Helper()
	sessionID := uuid.New()
	token, _, err := s.jwt.GenerateSessionToken(sessionID, p)
	require.NoError(t, err)

	var airline, role interface{}
	if p.AirlineName != "" {
		airline = p.AirlineName
	}
	if p.StaffRole != "" {
		role = p.StaffRole
	}
	s.mock.ExpectQuery("SELECT (.+) FROM sessions WHERE id = \\$1").
		WithArgs(sessionID).
		WillReturnRows(sessionRow(sessionID.String(), p.Type, p.ID, airline, role))
	return token
}

func sessionRow(id, principalType, principalID string, airline, role interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "principal_type", "principal_id", "airline_name", "staff_role",
		"ip_address", "device_type", "user_agent", "created_at", "expires_at", "revoked_at",
	}).AddRow(id, principalType, principalID, airline, role, nil, nil, nil, now, now.Add(time.Hour), nil)
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var flightCols = []string{
	"airline_name", "flight_num", "departure_airport", "departure_time",
	"arrival_airport", "arrival_time", "base_price", "status", "airplane_id",
}

func upcomingFlight(basePrice float64) *sqlmock.Rows {
	dep := time.Now().AddDate(0, 1, 0).Truncate(time.Hour)
	return sqlmock.NewRows(flightCols).
		AddRow("AIRX", 100, "JFK", dep, "LAX", dep.Add(6*time.Hour), basePrice, "upcoming", 7)
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func customerPrincipal() jwt.Principal {
	return jwt.Principal{Type: "customer", ID: "a@x.com"}
}

func agentPrincipal() jwt.Principal {
	return jwt.Principal{Type: "agent", ID: "agent@x.com"}
}

func staffPrincipal(role string) jwt.Principal {
	return jwt.Principal{Type: "staff", ID: "ops1", AirlineName: "AIRX", StaffRole: role}
}

func assertMessage(t *testing.T, w *httptest.ResponseRecorder, status int, message, redirect string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	body := decodeBody(t, w)
	require.Equal(t, message, body["message"])
	if redirect != "" {
		require.Equal(t, redirect, body["redirect"])
	}
}
