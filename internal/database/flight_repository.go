package database

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/skyline/air-reservation/internal/models"
)

const flightColumns = `airline_name, flight_num, departure_airport, departure_time,
	arrival_airport, arrival_time, base_price, status, airplane_id`

// FlightRepository handles flight database operations
type FlightRepository struct {
	db DB
}

// NewFlightRepository creates a new flight repository
func NewFlightRepository(db DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// SearchUpcoming returns upcoming flights matching the filter. A non-nil
// Airlines slice restricts the result to those airlines, an empty one
// matches nothing.
func (r *FlightRepository) SearchUpcoming(ctx context.Context, filter models.FlightSearchFilter) ([]models.Flight, error) {
	flights := []models.Flight{}
	if filter.Airlines != nil && len(filter.Airlines) == 0 {
		return flights, nil
	}

	query := `SELECT ` + flightColumns + ` FROM flight WHERE status = 'upcoming'`
	args := []interface{}{}

	if filter.Airlines != nil {
		args = append(args, pq.Array(filter.Airlines))
		query += fmt.Sprintf(" AND airline_name = ANY($%d)", len(args))
	}
	if filter.Origin != "" {
		args = append(args, filter.Origin)
		query += fmt.Sprintf(" AND departure_airport = $%d", len(args))
	}
	if filter.Destination != "" {
		args = append(args, filter.Destination)
		query += fmt.Sprintf(" AND arrival_airport = $%d", len(args))
	}
	if filter.Date != nil {
		args = append(args, dateArg(*filter.Date))
		query += fmt.Sprintf(" AND departure_time::date = $%d::date", len(args))
	}
	query += " ORDER BY departure_time, airline_name, flight_num"

	if err := r.db.SelectContext(ctx, &flights, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}
	return flights, nil
}

// GetByKey returns the flight or nil when none exists
func (r *FlightRepository) GetByKey(ctx context.Context, airlineName string, flightNum int) (*models.Flight, error) {
	var f models.Flight
	query := `SELECT ` + flightColumns + ` FROM flight WHERE airline_name = $1 AND flight_num = $2`
	if err := r.db.GetContext(ctx, &f, query, airlineName, flightNum); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}
	return &f, nil
}

// Create inserts a flight. Returns ErrDuplicate when the flight number is taken.
func (r *FlightRepository) Create(ctx context.Context, f *models.Flight) error {
	query := `
		INSERT INTO flight (
			airline_name, flight_num, departure_airport, departure_time,
			arrival_airport, arrival_time, base_price, status, airplane_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		f.AirlineName, f.FlightNum, f.DepartureAirport, f.DepartureTime,
		f.ArrivalAirport, f.ArrivalTime, f.BasePrice, f.Status, f.AirplaneID,
	)
	if err != nil {
		return wrapInsertError("flight", err)
	}
	return nil
}

// UpdateStatus sets a flight's status and reports how many rows changed
func (r *FlightRepository) UpdateStatus(ctx context.Context, airlineName string, flightNum int, status models.FlightStatus) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE flight SET status = $1 WHERE airline_name = $2 AND flight_num = $3`,
		status, airlineName, flightNum,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update flight status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows, nil
}

// ListDepartingBetween returns an airline's flights departing on any day in [from, to]
func (r *FlightRepository) ListDepartingBetween(ctx context.Context, airlineName string, from, to time.Time) ([]models.Flight, error) {
	flights := []models.Flight{}
	query := `
		SELECT ` + flightColumns + `
		FROM flight
		WHERE airline_name = $1
		  AND departure_time::date BETWEEN $2::date AND $3::date
		ORDER BY departure_time, flight_num
	`
	if err := r.db.SelectContext(ctx, &flights, query, airlineName, dateArg(from), dateArg(to)); err != nil {
		return nil, fmt.Errorf("failed to list departing flights: %w", err)
	}
	return flights, nil
}
