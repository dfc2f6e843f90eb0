package database

import (
	"context"
	"fmt"

	"github.com/skyline/air-reservation/internal/models"
)

// AirlineRepository reads and provisions airlines
type AirlineRepository struct {
	db DB
}

// NewAirlineRepository creates a new airline repository
func NewAirlineRepository(db DB) *AirlineRepository {
	return &AirlineRepository{db: db}
}

// ListNames returns every airline name in alphabetical order
func (r *AirlineRepository) ListNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.db.SelectContext(ctx, &names, `SELECT airline_name FROM airline ORDER BY airline_name`); err != nil {
		return nil, fmt.Errorf("failed to list airlines: %w", err)
	}
	return names, nil
}

// GetByName returns the airline or nil when none exists
func (r *AirlineRepository) GetByName(ctx context.Context, name string) (*models.Airline, error) {
	var a models.Airline
	err := r.db.GetContext(ctx, &a, `SELECT airline_name, staff_reg_hash FROM airline WHERE airline_name = $1`, name)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get airline: %w", err)
	}
	return &a, nil
}

// Upsert provisions an airline or rotates its registration hash
func (r *AirlineRepository) Upsert(ctx context.Context, a *models.Airline) error {
	query := `
		INSERT INTO airline (airline_name, staff_reg_hash)
		VALUES ($1, $2)
		ON CONFLICT (airline_name) DO UPDATE SET staff_reg_hash = EXCLUDED.staff_reg_hash
	`
	if _, err := r.db.ExecContext(ctx, query, a.AirlineName, a.StaffRegHash); err != nil {
		return fmt.Errorf("failed to upsert airline: %w", err)
	}
	return nil
}
