package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side record behind a bearer token
type Session struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	PrincipalType PrincipalType `json:"principal_type" db:"principal_type"`
	PrincipalID   string        `json:"principal_id" db:"principal_id"`
	AirlineName   *string       `json:"airline_name,omitempty" db:"airline_name"`
	StaffRole     *StaffRole    `json:"staff_role,omitempty" db:"staff_role"`
	IPAddress     *string       `json:"ip_address,omitempty" db:"ip_address"`
	DeviceType    *string       `json:"device_type,omitempty" db:"device_type"`
	UserAgent     *string       `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	ExpiresAt     time.Time     `json:"expires_at" db:"expires_at"`
	RevokedAt     *time.Time    `json:"revoked_at,omitempty" db:"revoked_at"`
}

// IsActive reports whether the session can still authenticate requests
func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// ClientInfo is the request metadata stored on a new session
type ClientInfo struct {
	IPAddress  string
	UserAgent  string
	DeviceType string
}

// LoginResponse is returned by POST /login
type LoginResponse struct {
	Token       string        `json:"token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	UserType    PrincipalType `json:"user_type"`
	UserID      string        `json:"user_id"`
	AirlineName string        `json:"airline_name,omitempty"`
	StaffRole   StaffRole     `json:"staff_role,omitempty"`
	Redirect    string        `json:"redirect"`
}
