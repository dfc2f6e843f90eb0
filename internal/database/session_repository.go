package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skyline/air-reservation/internal/models"
)

// SessionRepository stores the server-side half of login sessions
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session
func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (
			id, principal_type, principal_id, airline_name, staff_role,
			ip_address, device_type, user_agent, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.PrincipalType, s.PrincipalID, s.AirlineName, s.StaffRole,
		s.IPAddress, s.DeviceType, s.UserAgent, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return wrapInsertError("session", err)
	}
	return nil
}

// GetByID returns the session or nil when none exists
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var s models.Session
	query := `
		SELECT id, principal_type, principal_id, airline_name, staff_role,
		       ip_address, device_type, user_agent, created_at, expires_at, revoked_at
		FROM sessions
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// Revoke marks a session as logged out. Revoking twice is a no-op.
func (r *SessionRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// DeleteInactive removes expired and revoked sessions
func (r *SessionRepository) DeleteInactive(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < $1 OR revoked_at IS NOT NULL`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete inactive sessions: %w", err)
	}
	return result.RowsAffected()
}
