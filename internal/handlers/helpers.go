package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/example/gehma/internal/apperrors"
	"github.com/example/gehma/internal/middleware"
	"github.com/example/gehma/internal/models"
)

// requireSessionUser resolves the :id path parameter against the session
// and loads the user row. A session may only act on its own id.
func requireSessionUser(c *fiber.Ctx, db *gorm.DB) (*models.User, error) {
	currentID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, apperrors.Unauthorized("no session")
	}

	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, apperrors.InvalidInput("bad identifier")
	}

	if pathID != currentID {
		return nil, apperrors.Unauthorized("session does not match user")
	}

	var user models.User
	if err := db.First(&user, "id = ?", currentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Storage(err)
	}

	return &user, nil
}

// touch adds the changed_at bump that every partial users-row update must
// carry; the column moves forward whenever a row mutates.
func touch(cols map[string]interface{}, now time.Time) map[string]interface{} {
	cols["changed_at"] = now
	return cols
}

// isUniqueViolation reports whether the error is a Postgres unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
