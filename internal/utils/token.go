package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateAccessToken returns a fresh 32-character hex access token backed
// by 128 bits of entropy.
func GenerateAccessToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
