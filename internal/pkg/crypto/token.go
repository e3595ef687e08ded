// Package crypto provides credential generation utilities for Slowish.
package crypto

import (
	"crypto/rand"
	"fmt"
)

// tokenChars contains the characters used in bearer tokens
// (ASCII letters + digits).
const tokenChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateToken generates a random bearer token of the given length,
// drawn from a cryptographically strong random source over an
// alphanumeric alphabet.
func GenerateToken(length int) (string, error) {
	return generateRandomString(length, tokenChars)
}

// generateRandomString generates a random string of the specified length
// using characters from the provided character set.
func generateRandomString(length int, charset string) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid token length %d", length)
	}

	result := make([]byte, length)
	charsetLen := len(charset)

	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	for i := 0; i < length; i++ {
		result[i] = charset[int(randomBytes[i])%charsetLen]
	}

	return string(result), nil
}
