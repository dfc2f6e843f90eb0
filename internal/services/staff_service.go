package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/skyline/air-reservation/internal/events"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/skyline/air-reservation/pkg/validator"
)

// StaffActor is the logged-in staff member performing an operation
type StaffActor struct {
	Username    string
	AirlineName string
	Role        models.StaffRole
}

// StaffService handles business logic for airline staff operations
type StaffService struct {
	flights   *database.FlightRepository
	fleet     *database.FleetRepository
	tickets   *database.TicketRepository
	agents    *database.BookingAgentRepository
	airlines  *database.AirlineRepository
	auths     *database.AuthorizationRepository
	search    *SearchService
	publisher events.Publisher
	emails    *validator.EmailValidator
	logger    *logrus.Logger
	now       func() time.Time
}

// NewStaffService creates a new StaffService
func NewStaffService(
	flights *database.FlightRepository,
	fleet *database.FleetRepository,
	tickets *database.TicketRepository,
	agents *database.BookingAgentRepository,
	airlines *database.AirlineRepository,
	auths *database.AuthorizationRepository,
	search *SearchService,
	publisher events.Publisher,
	logger *logrus.Logger,
) *StaffService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &StaffService{
		flights:   flights,
		fleet:     fleet,
		tickets:   tickets,
		agents:    agents,
		airlines:  airlines,
		auths:     auths,
		search:    search,
		publisher: publisher,
		emails:    validator.NewEmailValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

func requireAdmin(actor StaffActor) error {
	if !actor.Role.IsAdmin() {
		return forbiddenError("You do not have admin permission.", "/staff")
	}
	return nil
}

func requireOperator(actor StaffActor) error {
	if !actor.Role.IsOperator() {
		return forbiddenError("You do not have operator permission.", "/staff")
	}
	return nil
}

// CreateFlight schedules a new upcoming flight for the actor's airline
func (s *StaffService) CreateFlight(ctx context.Context, actor StaffActor, req *models.CreateFlightRequest) (*models.Flight, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	departureAirport := strings.TrimSpace(req.DepartureAirport)
	arrivalAirport := strings.TrimSpace(req.ArrivalAirport)
	if req.FlightNum <= 0 || departureAirport == "" || arrivalAirport == "" || req.AirplaneID <= 0 {
		return nil, validationError("Flight number, airports, times, price, and airplane are required.")
	}
	departure, err := parseDateTime(req.DepartureTime)
	if err != nil {
		return nil, validationError("Departure time is not a valid date and time.")
	}
	arrival, err := parseDateTime(req.ArrivalTime)
	if err != nil {
		return nil, validationError("Arrival time is not a valid date and time.")
	}
	if !arrival.After(departure) {
		return nil, validationError("Arrival time must be after departure time.")
	}
	if req.BasePrice <= 0 {
		return nil, validationError("Base price must be greater than zero.")
	}

	ok, err := s.fleet.AirplaneExists(ctx, actor.AirlineName, req.AirplaneID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFoundError("This airplane does not exist for your airline.")
	}
	for _, airport := range []string{departureAirport, arrivalAirport} {
		ok, err := s.fleet.AirportExists(ctx, airport)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, notFoundError("Airport " + airport + " does not exist.")
		}
	}

	flight := &models.Flight{
		AirlineName:      actor.AirlineName,
		FlightNum:        req.FlightNum,
		DepartureAirport: departureAirport,
		DepartureTime:    departure,
		ArrivalAirport:   arrivalAirport,
		ArrivalTime:      arrival,
		BasePrice:        req.BasePrice,
		Status:           models.FlightStatusUpcoming,
		AirplaneID:       req.AirplaneID,
	}
	if err := s.flights.Create(ctx, flight); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, conflictError("A flight with that number already exists for your airline.")
		}
		return nil, err
	}
	s.search.InvalidateCache(ctx)

	s.logger.WithFields(logrus.Fields{
		"airline":    actor.AirlineName,
		"flight_num": flight.FlightNum,
		"created_by": actor.Username,
	}).Info("Flight created")
	return flight, nil
}

// UpdateStatus changes the status of one of the actor's airline's flights
func (s *StaffService) UpdateStatus(ctx context.Context, actor StaffActor, req *models.UpdateStatusRequest) error {
	if err := requireOperator(actor); err != nil {
		return err
	}

	status := models.FlightStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if req.FlightNum <= 0 || status == "" {
		return validationError("Please provide both a flight number and a new status.")
	}
	if !status.Valid() {
		return validationError("Status must be one of upcoming, delayed, in-progress, completed, cancelled.")
	}

	rows, err := s.flights.UpdateStatus(ctx, actor.AirlineName, req.FlightNum, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFoundError("No flight with that number exists for your airline.")
	}
	s.search.InvalidateCache(ctx)

	s.logger.WithFields(logrus.Fields{
		"airline":    actor.AirlineName,
		"flight_num": req.FlightNum,
		"status":     status,
		"changed_by": actor.Username,
	}).Info("Flight status updated")

	evt := events.Event{
		Type:       events.TypeFlightStatusChanged,
		Key:        events.FlightKey(actor.AirlineName, req.FlightNum),
		OccurredAt: s.now(),
		Payload: events.FlightStatusChanged{
			AirlineName: actor.AirlineName,
			FlightNum:   req.FlightNum,
			Status:      string(status),
			ChangedBy:   actor.Username,
		},
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, evt); err != nil {
		s.logger.WithError(err).WithField("event", evt.Type).Warn("Failed to publish event")
	}
	return nil
}

// AddAirplane registers an airplane and its seat classes for the actor's airline
func (s *StaffService) AddAirplane(ctx context.Context, actor StaffActor, req *models.AddAirplaneRequest) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if req.AirplaneID <= 0 {
		return validationError("Please provide an airplane id.")
	}

	seen := make(map[int]bool, len(req.SeatClasses))
	for _, sc := range req.SeatClasses {
		if _, ok := models.PriceMultiplier(sc.SeatClassID); !ok {
			return validationError("Seat class ids must be 1, 2, or 3.")
		}
		if sc.SeatCapacity <= 0 {
			return validationError("Seat capacity must be greater than zero.")
		}
		if seen[sc.SeatClassID] {
			return validationError("Each seat class can only be listed once.")
		}
		seen[sc.SeatClassID] = true
	}

	airplane := models.Airplane{AirlineName: actor.AirlineName, AirplaneID: req.AirplaneID}
	if err := s.fleet.CreateAirplane(ctx, airplane, req.SeatClasses); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return conflictError("This airplane already exists for your airline.")
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"airline":      actor.AirlineName,
		"airplane_id":  req.AirplaneID,
		"seat_classes": len(req.SeatClasses),
	}).Info("Airplane added")
	return nil
}

// AddAirport registers an airport
func (s *StaffService) AddAirport(ctx context.Context, actor StaffActor, req *models.Airport) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	airport := models.Airport{
		AirportName: strings.TrimSpace(req.AirportName),
		AirportCity: strings.TrimSpace(req.AirportCity),
	}
	if airport.AirportName == "" || airport.AirportCity == "" {
		return validationError("Please provide both an airport name and a city.")
	}

	if err := s.fleet.CreateAirport(ctx, airport); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return conflictError("This airport already exists.")
		}
		return err
	}

	s.logger.WithField("airport", airport.AirportName).Info("Airport added")
	return nil
}

// AddAgentAuth lets a booking agent sell the actor's airline's tickets
func (s *StaffService) AddAgentAuth(ctx context.Context, actor StaffActor, req *models.AddAgentAuthRequest) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	agentEmail := s.emails.Normalize(req.AgentEmail)
	if agentEmail == "" {
		return validationError("Please provide the agent's email.")
	}

	exists, err := s.agents.Exists(ctx, agentEmail)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundError("This booking agent does not exist.")
	}

	airline, err := s.airlines.GetByName(ctx, actor.AirlineName)
	if err != nil {
		return err
	}
	if airline == nil {
		return notFoundError("Your airline is not valid.")
	}

	already, err := s.auths.IsAuthorized(ctx, agentEmail, airline.AirlineName)
	if err != nil {
		return err
	}
	if already {
		return conflictError("This agent is already authorized for your airline.")
	}

	if err := s.auths.Create(ctx, agentEmail, airline.AirlineName); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return conflictError("This agent is already authorized for your airline.")
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"agent":      agentEmail,
		"airline":    airline.AirlineName,
		"granted_by": actor.Username,
	}).Info("Agent authorized")
	return nil
}

// Passengers lists who holds tickets on one of the actor's airline's flights
func (s *StaffService) Passengers(ctx context.Context, actor StaffActor, airlineName string, flightNum int) ([]models.Passenger, error) {
	if airlineName != actor.AirlineName {
		return nil, forbiddenError("You can only view passengers of your own airline.", "/staff")
	}
	return s.tickets.ListPassengers(ctx, actor.AirlineName, flightNum)
}

// CustomerHistory lists a customer's flights on the actor's airline
func (s *StaffService) CustomerHistory(ctx context.Context, actor StaffActor, customerEmail string) ([]models.BookedFlight, error) {
	email := s.emails.Normalize(customerEmail)
	if email == "" {
		return nil, validationError("Please provide a customer email.")
	}
	return s.tickets.ListCustomerHistory(ctx, actor.AirlineName, email)
}
