package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/gehma/internal/config"
	"github.com/example/gehma/internal/utils"
)

const userContextKey = "currentUserID"

// exemptPrefixes lists paths that never require a session: the sign-in and
// registration flows plus the static avatar catalog.
var exemptPrefixes = []string{"/signin", "/auth/", "/static/"}

// SessionAuth validates the session token in the AUTHORIZATION header and
// loads the authenticated user ID into the request context. Validation is
// pure; no storage roundtrip happens here.
func SessionAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, prefix := range exemptPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		// The mobile client sends the bare token; tolerate a Bearer prefix.
		if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
			token = token[7:]
		}

		userID, err := utils.ParseSessionToken(cfg.SessionKey, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid session")
		}

		c.Locals(userContextKey, userID)
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
