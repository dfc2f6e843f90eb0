package database

import (
	"context"
	"fmt"

	"github.com/skyline/air-reservation/internal/models"
)

// FleetRepository manages airplanes, their seat classes and airports
type FleetRepository struct {
	db DB
}

// NewFleetRepository creates a new fleet repository
func NewFleetRepository(db DB) *FleetRepository {
	return &FleetRepository{db: db}
}

// AirplaneExists reports whether the airline owns this airplane
func (r *FleetRepository) AirplaneExists(ctx context.Context, airlineName string, airplaneID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM airplane WHERE airline_name = $1 AND airplane_id = $2)`,
		airlineName, airplaneID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to check airplane: %w", err)
	}
	return exists, nil
}

// AirportExists reports whether the airport is known
func (r *FleetRepository) AirportExists(ctx context.Context, airportName string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM airport WHERE airport_name = $1)`, airportName)
	if err != nil {
		return false, fmt.Errorf("failed to check airport: %w", err)
	}
	return exists, nil
}

// CreateAirplane inserts an airplane and its seat classes atomically
func (r *FleetRepository) CreateAirplane(ctx context.Context, airplane models.Airplane, seatClasses []models.SeatClassInput) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO airplane (airline_name, airplane_id) VALUES ($1, $2)`,
		airplane.AirlineName, airplane.AirplaneID,
	)
	if err != nil {
		return wrapInsertError("airplane", err)
	}

	for _, sc := range seatClasses {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO seat_class (airline_name, airplane_id, seat_class_id, seat_capacity)
			VALUES ($1, $2, $3, $4)`,
			airplane.AirlineName, airplane.AirplaneID, sc.SeatClassID, sc.SeatCapacity,
		)
		if err != nil {
			return wrapInsertError("seat class", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit airplane: %w", err)
	}
	return nil
}

// CreateAirport inserts an airport
func (r *FleetRepository) CreateAirport(ctx context.Context, airport models.Airport) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO airport (airport_name, airport_city) VALUES ($1, $2)`,
		airport.AirportName, airport.AirportCity,
	)
	if err != nil {
		return wrapInsertError("airport", err)
	}
	return nil
}
