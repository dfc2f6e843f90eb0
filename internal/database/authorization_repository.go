package database

import (
	"context"
	"fmt"
)

// AuthorizationRepository manages which airlines an agent may sell for
type AuthorizationRepository struct {
	db DB
}

// NewAuthorizationRepository creates a new authorization repository
func NewAuthorizationRepository(db DB) *AuthorizationRepository {
	return &AuthorizationRepository{db: db}
}

// IsAuthorized reports whether the agent may sell the airline's tickets
func (r *AuthorizationRepository) IsAuthorized(ctx context.Context, agentEmail, airlineName string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM agent_airline_authorization
			WHERE agent_email = $1 AND airline_name = $2
		)`,
		agentEmail, airlineName,
	)
	if err != nil {
		return false, fmt.Errorf("failed to check agent authorization: %w", err)
	}
	return exists, nil
}

// ListAirlines returns the airlines the agent is authorized for
func (r *AuthorizationRepository) ListAirlines(ctx context.Context, agentEmail string) ([]string, error) {
	airlines := []string{}
	err := r.db.SelectContext(ctx, &airlines, `
		SELECT airline_name
		FROM agent_airline_authorization
		WHERE agent_email = $1
		ORDER BY airline_name`,
		agentEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent airlines: %w", err)
	}
	return airlines, nil
}

// Create grants the agent access to the airline. Returns ErrDuplicate if
// the grant already exists.
func (r *AuthorizationRepository) Create(ctx context.Context, agentEmail, airlineName string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO agent_airline_authorization (agent_email, airline_name) VALUES ($1, $2)`,
		agentEmail, airlineName,
	)
	if err != nil {
		return wrapInsertError("agent authorization", err)
	}
	return nil
}
