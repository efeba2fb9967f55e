package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/gehma/internal/apperrors"
	"github.com/example/gehma/internal/models"
	"github.com/example/gehma/internal/services"
	"github.com/example/gehma/internal/utils"
)

// UserHandler serves user reads, the state-change operation and device
// token updates.
type UserHandler struct {
	db     *gorm.DB
	engine *services.BroadcastEngine
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB, engine *services.BroadcastEngine) *UserHandler {
	return &UserHandler{db: db, engine: engine}
}

// Get returns the session user. Neither credential is included.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := requireSessionUser(c, h.db)
	if err != nil {
		return err
	}

	return c.JSON(user.ToDTO())
}

type updateUserRequest struct {
	Description   string `json:"description"`
	Led           bool   `json:"led"`
	ClientVersion string `json:"client_version"`
}

// Update runs the state-change operation through the broadcast engine.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	user, err := requireSessionUser(c, h.db)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.InvalidInput("invalid request body")
	}

	if !utils.ValidClientVersion(req.ClientVersion) {
		return apperrors.InvalidInput("invalid client version")
	}

	if len(req.Description) > models.DescriptionMaxLen {
		return apperrors.InvalidInput("description too long")
	}

	updated, err := h.engine.UpdateState(user.ID, req.Description, req.Led, req.ClientVersion)
	if err != nil {
		return err
	}

	return c.JSON(updated.ToDTO())
}

type updateTokenRequest struct {
	Token string `json:"token"`
}

// UpdateToken stores the device's push token.
func (h *UserHandler) UpdateToken(c *fiber.Ctx) error {
	user, err := requireSessionUser(c, h.db)
	if err != nil {
		return err
	}

	var req updateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.InvalidInput("invalid request body")
	}

	err = h.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(touch(map[string]interface{}{"firebase_token": req.Token}, time.Now())).Error
	if err != nil {
		return apperrors.Storage(err)
	}

	return c.SendStatus(fiber.StatusOK)
}
