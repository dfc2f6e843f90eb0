package database

import (
	"context"
	"fmt"

	"github.com/skyline/air-reservation/internal/models"
)

// CustomerRepository handles customer database operations
type CustomerRepository struct {
	db DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{
		db: db,
	}
}

// Exists reports whether a customer with this email is registered
func (r *CustomerRepository) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM customer WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("failed to check customer: %w", err)
	}
	return exists, nil
}

// Create inserts a new customer. Returns ErrDuplicate when the email is taken.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customer (
			email, name, password_hash,
			building_number, street, city, state,
			phone_number, passport_number,
			passport_expiration, passport_country,
			date_of_birth
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.Email, c.Name, c.PasswordHash,
		c.BuildingNumber, c.Street, c.City, c.State,
		c.PhoneNumber, c.PassportNumber,
		c.PassportExpiration, c.PassportCountry,
		c.DateOfBirth,
	)
	if err != nil {
		return wrapInsertError("customer", err)
	}
	return nil
}

// GetByEmail returns the customer or nil when none exists
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var c models.Customer
	query := `
		SELECT email, name, password_hash,
		       building_number, street, city, state,
		       phone_number, passport_number,
		       passport_expiration, passport_country,
		       date_of_birth
		FROM customer
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &c, query, email); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}
	return &c, nil
}
