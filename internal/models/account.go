package models

import "time"

// Customer is a traveller who buys tickets directly or through an agent
type Customer struct {
	Email              string     `json:"email" db:"email"`
	Name               string     `json:"name" db:"name"`
	PasswordHash       string     `json:"-" db:"password_hash"` // Never expose password hash in JSON
	BuildingNumber     *string    `json:"building_number,omitempty" db:"building_number"`
	Street             *string    `json:"street,omitempty" db:"street"`
	City               *string    `json:"city,omitempty" db:"city"`
	State              *string    `json:"state,omitempty" db:"state"`
	PhoneNumber        *string    `json:"phone_number,omitempty" db:"phone_number"`
	PassportNumber     *string    `json:"passport_number,omitempty" db:"passport_number"`
	PassportExpiration *time.Time `json:"passport_expiration,omitempty" db:"passport_expiration"`
	PassportCountry    *string    `json:"passport_country,omitempty" db:"passport_country"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
}

// BookingAgent sells tickets for the airlines that authorized it
type BookingAgent struct {
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// AirlineStaff is an employee account scoped to one airline
type AirlineStaff struct {
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    *string    `json:"first_name,omitempty" db:"first_name"`
	LastName     *string    `json:"last_name,omitempty" db:"last_name"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	AirlineName  string     `json:"airline_name" db:"airline_name"`
	Role         StaffRole  `json:"role" db:"role"`
}

// CustomerRegistrationRequest is the /register/customer payload.
// Dates use the YYYY-MM-DD layout.
type CustomerRegistrationRequest struct {
	Email              string `json:"email" form:"email" binding:"required,email"`
	Name               string `json:"name" form:"name" binding:"required"`
	Password           string `json:"password" form:"password" binding:"required"`
	BuildingNumber     string `json:"building_number" form:"building_number"`
	Street             string `json:"street" form:"street"`
	City               string `json:"city" form:"city"`
	State              string `json:"state" form:"state"`
	PhoneNumber        string `json:"phone_number" form:"phone_number"`
	PassportNumber     string `json:"passport_number" form:"passport_number"`
	PassportExpiration string `json:"passport_expiration" form:"passport_expiration"`
	PassportCountry    string `json:"passport_country" form:"passport_country"`
	DateOfBirth        string `json:"date_of_birth" form:"date_of_birth"`
}

// AgentRegistrationRequest is the /register/agent payload
type AgentRegistrationRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RequiredMessage is shown when a required field is missing
func (CustomerRegistrationRequest) RequiredMessage() string {
	return "Email, name, and password are required."
}

// RequiredMessage is shown when a required field is missing
func (AgentRegistrationRequest) RequiredMessage() string {
	return "Email and password are required."
}

// StaffSignupRequest is the /register/staff payload
type StaffSignupRequest struct {
	Username    string `json:"username" form:"username"`
	Password    string `json:"password" form:"password"`
	AirlineName string `json:"airline_name" form:"airline_name"`
	RegCode     string `json:"reg_code" form:"reg_code"`
	FirstName   string `json:"first_name" form:"first_name"`
	LastName    string `json:"last_name" form:"last_name"`
	DateOfBirth string `json:"date_of_birth" form:"date_of_birth"`
	Role        string `json:"role" form:"role"`
}

// LoginRequest is the /login payload. Identifier is an email for customers
// and agents, a username for staff.
type LoginRequest struct {
	UserType   PrincipalType `json:"user_type" form:"user_type"`
	Identifier string        `json:"identifier" form:"identifier"`
	Password   string        `json:"password" form:"password"`
}
