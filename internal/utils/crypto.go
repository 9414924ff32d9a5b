package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecureCode creates a 32-character hex identifier from a
// cryptographically random source. The result is alphanumeric, which keeps
// it inside the token payload charset.
func GenerateSecureCode() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
