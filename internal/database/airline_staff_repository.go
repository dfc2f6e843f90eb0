package database

import (
	"context"
	"fmt"

	"github.com/skyline/air-reservation/internal/models"
)

// AirlineStaffRepository handles airline staff accounts
type AirlineStaffRepository struct {
	db DB
}

// NewAirlineStaffRepository creates a new airline staff repository
func NewAirlineStaffRepository(db DB) *AirlineStaffRepository {
	return &AirlineStaffRepository{db: db}
}

// Exists reports whether the username is taken
func (r *AirlineStaffRepository) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM airline_staff WHERE username = $1)`, username)
	if err != nil {
		return false, fmt.Errorf("failed to check airline staff: %w", err)
	}
	return exists, nil
}

// Create inserts a new staff member
func (r *AirlineStaffRepository) Create(ctx context.Context, s *models.AirlineStaff) error {
	query := `
		INSERT INTO airline_staff (
			username, password_hash, first_name, last_name,
			date_of_birth, airline_name, role
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.Username, s.PasswordHash, s.FirstName, s.LastName,
		s.DateOfBirth, s.AirlineName, s.Role,
	)
	if err != nil {
		return wrapInsertError("airline staff", err)
	}
	return nil
}

// GetByUsername returns the staff member or nil when none exists
func (r *AirlineStaffRepository) GetByUsername(ctx context.Context, username string) (*models.AirlineStaff, error) {
	var s models.AirlineStaff
	query := `
		SELECT username, password_hash, first_name, last_name,
		       date_of_birth, airline_name, role
		FROM airline_staff
		WHERE username = $1
	`
	if err := r.db.GetContext(ctx, &s, query, username); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get airline staff: %w", err)
	}
	return &s, nil
}
