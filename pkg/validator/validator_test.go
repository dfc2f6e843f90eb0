package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailValidate_Valid(t *testing.T) {
	validator := NewEmailValidator()

	validEmails := []struct {
		input    string
		expected string
		name     string
	}{
		{"a@x.com", "a@x.com", "Simple"},
		{"  A@X.com ", "a@x.com", "Trimmed and lower-cased"},
		{"first.last+tag@mail.example.org", "first.last+tag@mail.example.org", "Plus tag and subdomain"},
	}

	for _, tc := range validEmails {
		t.Run(tc.name, func(t *testing.T) {
			normalized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, normalized)
		})
	}
}

func TestEmailValidate_Invalid(t *testing.T) {
	validator := NewEmailValidator()

	invalidEmails := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyEmail, "Empty string"},
		{"   ", ErrEmptyEmail, "Whitespace"},
		{"ax.com", ErrInvalidEmail, "Missing at sign"},
		{"a@", ErrInvalidEmail, "Missing domain"},
		{"@x.com", ErrInvalidEmail, "Missing local part"},
		{"Ada <a@x.com>", ErrInvalidEmail, "Display name"},
		{"a b@x.com", ErrInvalidEmail, "Space in local part"},
	}

	for _, tc := range invalidEmails {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			assert.Equal(t, tc.expectedErr, err)
		})
	}
}

func TestEmailIsValid(t *testing.T) {
	validator := NewEmailValidator()
	assert.True(t, validator.IsValid("a@x.com"))
	assert.False(t, validator.IsValid("nope"))
}

func TestPhoneValidate(t *testing.T) {
	validator := NewPhoneValidator()

	tests := []struct {
		input       string
		expected    string
		expectedErr error
		name        string
	}{
		{"", "", nil, "Empty is allowed"},
		{"+1 (617) 555-0100", "+16175550100", nil, "International with separators"},
		{"617.555.0100", "6175550100", nil, "Dots"},
		{"12345", "", ErrInvalidLength, "Too short"},
		{"+1234567890123456", "", ErrInvalidLength, "Too long"},
		{"617-555-01OO", "", ErrInvalidFormat, "Letters"},
		{"61+75550100", "", ErrInvalidFormat, "Plus in the middle"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			assert.Equal(t, tc.expectedErr, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}
