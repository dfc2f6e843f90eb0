package validator

import (
	"errors"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var (
	// ErrEmptyEmail indicates the email is blank
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail indicates the email is not a bare address
	ErrInvalidEmail = errors.New("email must look like name@example.com")
)

// EmailValidator validates login emails for customers and agents. The
// format check is the same "email" rule gin applies to binding tags.
type EmailValidator struct {
	validate *playground.Validate
}

// NewEmailValidator creates a new email validator instance
func NewEmailValidator() *EmailValidator {
	return &EmailValidator{validate: playground.New()}
}

// Validate returns the normalized (trimmed, lower-cased) email or an error
func (v *EmailValidator) Validate(email string) (string, error) {
	normalized := v.Normalize(email)
	if normalized == "" {
		return "", ErrEmptyEmail
	}
	if err := v.validate.Var(normalized, "email"); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// Normalize trims surrounding space and lower-cases the address
func (v *EmailValidator) Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValid is a convenience method that returns true if email is valid
func (v *EmailValidator) IsValid(email string) bool {
	_, err := v.Validate(email)
	return err == nil
}
