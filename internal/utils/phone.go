package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/example/gehma/internal/apperrors"
)

// CanonicalizePhone parses a raw phone string against a two-letter country
// code and returns the E.164 international form.
func CanonicalizePhone(raw, countryCode string) (string, error) {
	region := strings.ToUpper(strings.TrimSpace(countryCode))
	if len(region) != 2 || !phonenumbers.GetSupportedRegions()[region] {
		return "", apperrors.InvalidInput("unknown country code")
	}

	number, err := phonenumbers.Parse(strings.TrimSpace(raw), region)
	if err != nil {
		return "", apperrors.InvalidInput("invalid phone number")
	}
	if !phonenumbers.IsValidNumber(number) {
		return "", apperrors.InvalidInput("invalid phone number")
	}

	return phonenumbers.Format(number, phonenumbers.E164), nil
}

// HashPhone derives the public identifier of a phone number: the
// uppercase-hex SHA-256 of its E.164 form.
func HashPhone(teleNum string) string {
	sum := sha256.Sum256([]byte(teleNum))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
