package database

import (
	"context"
	"fmt"

	"github.com/skyline/air-reservation/internal/models"
)

// BookingAgentRepository handles booking agent accounts
type BookingAgentRepository struct {
	db DB
}

// NewBookingAgentRepository creates a new booking agent repository
func NewBookingAgentRepository(db DB) *BookingAgentRepository {
	return &BookingAgentRepository{db: db}
}

// Exists reports whether an agent with this email is registered
func (r *BookingAgentRepository) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM booking_agent WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("failed to check booking agent: %w", err)
	}
	return exists, nil
}

// Create inserts a new agent
func (r *BookingAgentRepository) Create(ctx context.Context, agent *models.BookingAgent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO booking_agent (email, password_hash) VALUES ($1, $2)`,
		agent.Email, agent.PasswordHash,
	)
	if err != nil {
		return wrapInsertError("booking agent", err)
	}
	return nil
}

// GetByEmail returns the agent or nil when none exists
func (r *BookingAgentRepository) GetByEmail(ctx context.Context, email string) (*models.BookingAgent, error) {
	var agent models.BookingAgent
	err := r.db.GetContext(ctx, &agent, `SELECT email, password_hash FROM booking_agent WHERE email = $1`, email)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking agent: %w", err)
	}
	return &agent, nil
}
