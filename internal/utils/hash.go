package utils

import "golang.org/x/crypto/bcrypt"

// HashAccessToken returns a bcrypt hash of the access token for storage.
// The plaintext leaves the server exactly once, in the /auth/check reply.
func HashAccessToken(token string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckAccessToken compares a stored bcrypt hash with a presented token.
func CheckAccessToken(hashedToken, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(token)) == nil
}
