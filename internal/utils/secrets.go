package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateSecret generates a cryptographically secure random secret
func GenerateSecret(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateRegistrationCode returns a new staff registration code and the
// hash to store on the airline row
func GenerateRegistrationCode() (code, hash string, err error) {
	raw, err := GenerateSecret(8)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate registration code: %w", err)
	}
	code = strings.ToUpper(raw[:4] + "-" + raw[4:8] + "-" + raw[8:12] + "-" + raw[12:])
	return code, HashRegistrationCode(code), nil
}

// HashRegistrationCode returns the hex sha256 of a trimmed code
func HashRegistrationCode(code string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(code)))
	return hex.EncodeToString(sum[:])
}

// RegistrationCodeMatches compares a submitted code against a stored hash
// in constant time
func RegistrationCodeMatches(code, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	computed := HashRegistrationCode(code)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(storedHash))) == 1
}
