package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashAPIKey returns the bcrypt hash stored in analyzer configuration
func HashAPIKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("api key is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing api key: %w", err)
	}
	return string(hashed), nil
}

// CheckAPIKey reports whether key matches the stored hash
func CheckAPIKey(hash, key string) bool {
	if hash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
