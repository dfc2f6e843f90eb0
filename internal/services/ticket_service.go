package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/skyline/air-reservation/internal/events"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/skyline/air-reservation/pkg/boardingpass"
	"github.com/skyline/air-reservation/pkg/validator"
)

const publishTimeout = 5 * time.Second

// PurchaseInput identifies the seat being bought and who pays for it.
// AgentEmail is set when a booking agent buys on the customer's behalf.
type PurchaseInput struct {
	AirlineName   string
	FlightNum     int
	SeatClassID   int
	CustomerEmail string
	AgentEmail    *string
}

// TicketService sells seats and serves customers their tickets
type TicketService struct {
	flights   *database.FlightRepository
	tickets   *database.TicketRepository
	customers *database.CustomerRepository
	auths     *database.AuthorizationRepository
	publisher events.Publisher
	passes    *boardingpass.Generator
	emails    *validator.EmailValidator
	logger    *logrus.Logger
	now       func() time.Time
}

// NewTicketService creates a new TicketService. A nil publisher drops events.
func NewTicketService(
	flights *database.FlightRepository,
	tickets *database.TicketRepository,
	customers *database.CustomerRepository,
	auths *database.AuthorizationRepository,
	publisher events.Publisher,
	passes *boardingpass.Generator,
	logger *logrus.Logger,
) *TicketService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &TicketService{
		flights:   flights,
		tickets:   tickets,
		customers: customers,
		auths:     auths,
		publisher: publisher,
		passes:    passes,
		emails:    validator.NewEmailValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// PurchaseOptions returns the flight and the state of each of its seat classes
func (s *TicketService) PurchaseOptions(ctx context.Context, airlineName string, flightNum int) (*models.PurchaseOptions, error) {
	flight, err := s.flights.GetByKey(ctx, airlineName, flightNum)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, notFoundError("Flight not found.")
	}

	classes, err := s.tickets.SeatAvailability(ctx, flight.AirlineName, flight.FlightNum, flight.AirplaneID)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		classes[i].SeatsLeft = max(classes[i].SeatCapacity-classes[i].SeatsSold, 0)
		if m, ok := models.PriceMultiplier(classes[i].SeatClassID); ok {
			classes[i].Price = fare(flight.BasePrice, m)
		}
	}

	return &models.PurchaseOptions{Flight: *flight, SeatClasses: classes}, nil
}

// AgentPurchaseOptions is PurchaseOptions for an agent, who must be
// authorized for the airline
func (s *TicketService) AgentPurchaseOptions(ctx context.Context, agentEmail, airlineName string, flightNum int) (*models.PurchaseOptions, error) {
	if err := s.requireAuthorization(ctx, agentEmail, airlineName); err != nil {
		return nil, err
	}
	return s.PurchaseOptions(ctx, airlineName, flightNum)
}

// Purchase sells one seat. Nothing is written when the class is full.
func (s *TicketService) Purchase(ctx context.Context, in PurchaseInput) (*models.PurchaseResult, error) {
	multiplier, ok := models.PriceMultiplier(in.SeatClassID)
	if !ok {
		return nil, notFoundError("Seat class not found.")
	}

	customerEmail := s.emails.Normalize(in.CustomerEmail)
	if in.AgentEmail != nil {
		if customerEmail == "" {
			return nil, validationError("Please provide the customer's email.")
		}
		if err := s.requireAuthorization(ctx, *in.AgentEmail, in.AirlineName); err != nil {
			return nil, err
		}
		exists, err := s.customers.Exists(ctx, customerEmail)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, notFoundError("This customer does not exist.")
		}
	}

	flight, err := s.flights.GetByKey(ctx, in.AirlineName, in.FlightNum)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, notFoundError("Flight not found.")
	}
	if flight.Status != models.FlightStatusUpcoming {
		return nil, conflictError("This flight is not open for sale.")
	}

	now := s.now()
	purchaseDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	price := fare(flight.BasePrice, multiplier)

	ticketID, err := s.tickets.AllocateTicket(ctx, models.TicketAllocation{
		AirlineName:   flight.AirlineName,
		FlightNum:     flight.FlightNum,
		AirplaneID:    flight.AirplaneID,
		SeatClassID:   in.SeatClassID,
		CustomerEmail: customerEmail,
		AgentEmail:    in.AgentEmail,
		PurchasePrice: price,
		PurchaseDate:  purchaseDate,
	})
	switch {
	case errors.Is(err, database.ErrSeatClassNotFound):
		return nil, notFoundError("Seat class not found.")
	case errors.Is(err, database.ErrNoSeatsLeft):
		return nil, conflictError("Sorry, no seats left in this class.")
	case errors.Is(err, database.ErrFlightNotOnSale):
		return nil, conflictError("This flight is not open for sale.")
	case err != nil:
		return nil, err
	}

	result := &models.PurchaseResult{
		TicketID:      ticketID,
		AirlineName:   flight.AirlineName,
		FlightNum:     flight.FlightNum,
		SeatClassID:   in.SeatClassID,
		CustomerEmail: customerEmail,
		AgentEmail:    in.AgentEmail,
		PurchasePrice: price,
		PurchaseDate:  purchaseDate.Format(dateLayout),
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id":  ticketID,
		"airline":    flight.AirlineName,
		"flight_num": flight.FlightNum,
		"seat_class": in.SeatClassID,
		"price":      price,
		"customer":   customerEmail,
		"via_agent":  in.AgentEmail != nil,
	}).Info("Ticket purchased")

	s.publish(ctx, events.Event{
		Type:       events.TypeTicketPurchased,
		Key:        events.FlightKey(flight.AirlineName, flight.FlightNum),
		OccurredAt: now,
		Payload: events.TicketPurchased{
			TicketID:      ticketID,
			AirlineName:   flight.AirlineName,
			FlightNum:     flight.FlightNum,
			SeatClassID:   in.SeatClassID,
			CustomerEmail: customerEmail,
			AgentEmail:    in.AgentEmail,
			PurchasePrice: price,
			PurchaseDate:  result.PurchaseDate,
		},
	})

	return result, nil
}

// PurchasedFlights lists every ticket the customer holds
func (s *TicketService) PurchasedFlights(ctx context.Context, customerEmail string) ([]models.BookedFlight, error) {
	return s.tickets.ListPurchasedFlights(ctx, customerEmail)
}

// BoardingPass renders a signed QR code for one of the customer's tickets
func (s *TicketService) BoardingPass(ctx context.Context, customerEmail string, ticketID int) ([]byte, error) {
	ticket, err := s.tickets.GetCustomerTicket(ctx, ticketID, customerEmail)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, notFoundError("Ticket not found.")
	}

	return s.passes.PNG(boardingpass.Pass{
		TicketID:         ticket.TicketID,
		AirlineName:      ticket.AirlineName,
		FlightNum:        ticket.FlightNum,
		DepartureAirport: ticket.DepartureAirport,
		ArrivalAirport:   ticket.ArrivalAirport,
		DepartureTime:    ticket.DepartureTime,
		SeatClassID:      ticket.SeatClassID,
		Passenger:        ticket.CustomerEmail,
		IssuedAt:         s.now(),
	})
}

func (s *TicketService) requireAuthorization(ctx context.Context, agentEmail, airlineName string) error {
	ok, err := s.auths.IsAuthorized(ctx, agentEmail, strings.TrimSpace(airlineName))
	if err != nil {
		return err
	}
	if !ok {
		return forbiddenError("Not authorized for this airline.", "/agent")
	}
	return nil
}

// publish is best effort: the sale is already committed
func (s *TicketService) publish(ctx context.Context, evt events.Event) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, evt); err != nil {
		s.logger.WithError(err).WithField("event", evt.Type).Warn("Failed to publish event")
	}
}

// fare rounds to cents
func fare(basePrice, multiplier float64) float64 {
	return math.Round(basePrice*multiplier*100) / 100
}
