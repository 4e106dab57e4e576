package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

func HashPassword(password string) (string, error) {
	trimmed := strings.TrimSpace(password)
	if trimmed == "" {
		return "", fmt.Errorf("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(trimmed), DefaultBcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword accepts either a bcrypt hash or a plaintext expected
// value; plaintext comparison is constant time. API_PASSWORD may hold
// either form.
func VerifyPassword(password, expected string) bool {
	trimmedPassword := strings.TrimSpace(password)
	trimmedExpected := strings.TrimSpace(expected)
	if trimmedPassword == "" || trimmedExpected == "" {
		return false
	}
	if strings.HasPrefix(trimmedExpected, "$2a$") || strings.HasPrefix(trimmedExpected, "$2b$") || strings.HasPrefix(trimmedExpected, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(trimmedExpected), []byte(trimmedPassword)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(trimmedPassword), []byte(trimmedExpected)) == 1
}

func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
