package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/skyline/air-reservation/internal/models"
)

var (
	// ErrSeatClassNotFound is returned when the airplane has no such cabin
	ErrSeatClassNotFound = errors.New("seat class not found")
	// ErrNoSeatsLeft is returned when every seat in the class is sold
	ErrNoSeatsLeft = errors.New("no seats left in this class")
	// ErrFlightNotOnSale is returned when the flight is gone or no longer upcoming
	ErrFlightNotOnSale = errors.New("flight is not open for sale")
)

// ticketIDLockKey serialises max+1 ticket id allocation across transactions
const ticketIDLockKey = 7310421

const bookedFlightColumns = `f.airline_name, f.flight_num, f.departure_airport, f.departure_time,
	f.arrival_airport, f.arrival_time, f.base_price, f.status, f.airplane_id,
	t.ticket_id, t.seat_class_id, p.customer_email, p.purchase_date, p.purchase_price`

const bookedFlightJoin = `
	FROM ticket t
	JOIN purchases p ON p.ticket_id = t.ticket_id
	JOIN flight f ON f.airline_name = t.airline_name AND f.flight_num = t.flight_num`

// TicketRepository sells tickets and reads purchase history
type TicketRepository struct {
	db DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// AllocateTicket sells one seat in a single transaction. The flight row is
// share-locked and must still be upcoming, so a status change waits for
// sales in progress. The seat class row is locked so concurrent buyers of
// the same class queue behind each other, and the ticket id is taken under
// an advisory lock.
func (r *TicketRepository) AllocateTicket(ctx context.Context, a models.TicketAllocation) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status models.FlightStatus
	err = tx.GetContext(ctx, &status, `
		SELECT status
		FROM flight
		WHERE airline_name = $1 AND flight_num = $2
		FOR SHARE`,
		a.AirlineName, a.FlightNum,
	)
	if err != nil {
		if isNoRows(err) {
			return 0, ErrFlightNotOnSale
		}
		return 0, fmt.Errorf("failed to lock flight: %w", err)
	}
	if status != models.FlightStatusUpcoming {
		return 0, ErrFlightNotOnSale
	}

	var capacity int
	err = tx.GetContext(ctx, &capacity, `
		SELECT seat_capacity
		FROM seat_class
		WHERE airline_name = $1 AND airplane_id = $2 AND seat_class_id = $3
		FOR UPDATE`,
		a.AirlineName, a.AirplaneID, a.SeatClassID,
	)
	if err != nil {
		if isNoRows(err) {
			return 0, ErrSeatClassNotFound
		}
		return 0, fmt.Errorf("failed to lock seat class: %w", err)
	}

	var sold int
	err = tx.GetContext(ctx, &sold, `
		SELECT COUNT(*)
		FROM ticket
		WHERE airline_name = $1 AND flight_num = $2 AND airplane_id = $3 AND seat_class_id = $4`,
		a.AirlineName, a.FlightNum, a.AirplaneID, a.SeatClassID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count sold seats: %w", err)
	}
	if sold >= capacity {
		return 0, ErrNoSeatsLeft
	}

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, ticketIDLockKey); err != nil {
		return 0, fmt.Errorf("failed to lock ticket ids: %w", err)
	}

	var ticketID int
	if err := tx.GetContext(ctx, &ticketID, `SELECT COALESCE(MAX(ticket_id), 0) + 1 FROM ticket`); err != nil {
		return 0, fmt.Errorf("failed to allocate ticket id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ticket (ticket_id, airline_name, flight_num, airplane_id, seat_class_id)
		VALUES ($1, $2, $3, $4, $5)`,
		ticketID, a.AirlineName, a.FlightNum, a.AirplaneID, a.SeatClassID,
	)
	if err != nil {
		return 0, wrapInsertError("ticket", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO purchases (ticket_id, customer_email, booking_agent_email, purchase_date, purchase_price)
		VALUES ($1, $2, $3, $4::date, $5)`,
		ticketID, a.CustomerEmail, a.AgentEmail, dateArg(a.PurchaseDate), a.PurchasePrice,
	)
	if err != nil {
		return 0, wrapInsertError("purchase", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ticket purchase: %w", err)
	}
	return ticketID, nil
}

// SeatAvailability lists the airplane's seat classes with seats sold on this flight
func (r *TicketRepository) SeatAvailability(ctx context.Context, airlineName string, flightNum, airplaneID int) ([]models.SeatClassAvailability, error) {
	rows := []models.SeatClassAvailability{}
	query := `
		SELECT sc.seat_class_id, sc.seat_capacity, COUNT(t.ticket_id) AS seats_sold
		FROM seat_class sc
		LEFT JOIN ticket t
		  ON t.airline_name = sc.airline_name
		 AND t.airplane_id = sc.airplane_id
		 AND t.seat_class_id = sc.seat_class_id
		 AND t.flight_num = $2
		WHERE sc.airline_name = $1 AND sc.airplane_id = $3
		GROUP BY sc.seat_class_id, sc.seat_capacity
		ORDER BY sc.seat_class_id
	`
	if err := r.db.SelectContext(ctx, &rows, query, airlineName, flightNum, airplaneID); err != nil {
		return nil, fmt.Errorf("failed to get seat availability: %w", err)
	}
	return rows, nil
}

// ListCustomerFlights returns the flights a customer holds tickets on,
// earliest departure first
func (r *TicketRepository) ListCustomerFlights(ctx context.Context, email string, filter models.BookedFlightFilter) ([]models.BookedFlight, error) {
	query := `SELECT ` + bookedFlightColumns + bookedFlightJoin + ` WHERE p.customer_email = $1`
	args := []interface{}{email}

	if filter.UpcomingOnly {
		query += " AND f.status = 'upcoming'"
	}
	query, args = appendBookedFilter(query, args, filter)
	query += " ORDER BY f.departure_time, t.ticket_id"

	flights := []models.BookedFlight{}
	if err := r.db.SelectContext(ctx, &flights, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list customer flights: %w", err)
	}
	return flights, nil
}

// ListPurchasedFlights returns every flight the customer bought, latest departure first
func (r *TicketRepository) ListPurchasedFlights(ctx context.Context, email string) ([]models.BookedFlight, error) {
	query := `SELECT ` + bookedFlightColumns + bookedFlightJoin + `
		WHERE p.customer_email = $1
		ORDER BY f.departure_time DESC, t.ticket_id`

	flights := []models.BookedFlight{}
	if err := r.db.SelectContext(ctx, &flights, query, email); err != nil {
		return nil, fmt.Errorf("failed to list purchased flights: %w", err)
	}
	return flights, nil
}

// ListAgentBookings returns tickets an agent sold, latest departure first
func (r *TicketRepository) ListAgentBookings(ctx context.Context, agentEmail string, filter models.BookedFlightFilter) ([]models.BookedFlight, error) {
	query := `SELECT ` + bookedFlightColumns + bookedFlightJoin + ` WHERE p.booking_agent_email = $1`
	args := []interface{}{agentEmail}

	if filter.CustomerEmail != "" {
		args = append(args, filter.CustomerEmail)
		query += fmt.Sprintf(" AND p.customer_email = $%d", len(args))
	}
	query, args = appendBookedFilter(query, args, filter)
	query += " ORDER BY f.departure_time DESC, t.ticket_id"

	flights := []models.BookedFlight{}
	if err := r.db.SelectContext(ctx, &flights, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list agent bookings: %w", err)
	}
	return flights, nil
}

// ListCustomerHistory returns a customer's flights on one airline, latest first
func (r *TicketRepository) ListCustomerHistory(ctx context.Context, airlineName, email string) ([]models.BookedFlight, error) {
	query := `SELECT ` + bookedFlightColumns + bookedFlightJoin + `
		WHERE p.customer_email = $1 AND t.airline_name = $2
		ORDER BY f.departure_time DESC, t.ticket_id`

	flights := []models.BookedFlight{}
	if err := r.db.SelectContext(ctx, &flights, query, email, airlineName); err != nil {
		return nil, fmt.Errorf("failed to list customer history: %w", err)
	}
	return flights, nil
}

// ListPassengers returns the ticket holders of a flight
func (r *TicketRepository) ListPassengers(ctx context.Context, airlineName string, flightNum int) ([]models.Passenger, error) {
	query := `
		SELECT c.name, c.email, t.ticket_id
		FROM ticket t
		JOIN purchases p ON p.ticket_id = t.ticket_id
		JOIN customer c ON c.email = p.customer_email
		WHERE t.airline_name = $1 AND t.flight_num = $2
		ORDER BY t.ticket_id
	`
	passengers := []models.Passenger{}
	if err := r.db.SelectContext(ctx, &passengers, query, airlineName, flightNum); err != nil {
		return nil, fmt.Errorf("failed to list passengers: %w", err)
	}
	return passengers, nil
}

// GetCustomerTicket returns one of the customer's tickets or nil if they do not hold it
func (r *TicketRepository) GetCustomerTicket(ctx context.Context, ticketID int, email string) (*models.BookedFlight, error) {
	query := `SELECT ` + bookedFlightColumns + bookedFlightJoin + `
		WHERE t.ticket_id = $1 AND p.customer_email = $2`

	var f models.BookedFlight
	if err := r.db.GetContext(ctx, &f, query, ticketID, email); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &f, nil
}

func appendBookedFilter(query string, args []interface{}, filter models.BookedFlightFilter) (string, []interface{}) {
	if filter.StartDate != nil {
		args = append(args, dateArg(*filter.StartDate))
		query += fmt.Sprintf(" AND f.departure_time::date >= $%d::date", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, dateArg(*filter.EndDate))
		query += fmt.Sprintf(" AND f.departure_time::date <= $%d::date", len(args))
	}
	if filter.Origin != "" {
		args = append(args, filter.Origin)
		query += fmt.Sprintf(" AND f.departure_airport = $%d", len(args))
	}
	if filter.Destination != "" {
		args = append(args, filter.Destination)
		query += fmt.Sprintf(" AND f.arrival_airport = $%d", len(args))
	}
	return query, args
}
