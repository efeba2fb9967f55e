package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nyaruka/phonenumbers"
	"gorm.io/gorm"

	"github.com/example/gehma/internal/apperrors"
	"github.com/example/gehma/internal/services"
)

// ContactHandler serves address-book uploads and the mutual contact view.
type ContactHandler struct {
	db     *gorm.DB
	engine *services.ContactEngine
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(db *gorm.DB, engine *services.ContactEngine) *ContactHandler {
	return &ContactHandler{db: db, engine: engine}
}

type uploadContactsRequest struct {
	Numbers []services.ContactUpload `json:"numbers"`
}

// Upload replaces the owner's server-side contact set with the payload.
func (h *ContactHandler) Upload(c *fiber.Ctx) error {
	user, err := requireSessionUser(c, h.db)
	if err != nil {
		return err
	}

	region := strings.ToUpper(c.Params("country_code"))
	if len(region) != 2 || !phonenumbers.GetSupportedRegions()[region] {
		return apperrors.InvalidInput("unknown country code")
	}

	var req uploadContactsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.InvalidInput("invalid request body")
	}

	if err := h.engine.Ingest(user, req.Numbers); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}

// List returns the owner's registered contacts with blacklist masking
// applied.
func (h *ContactHandler) List(c *fiber.Ctx) error {
	user, err := requireSessionUser(c, h.db)
	if err != nil {
		return err
	}

	view, err := h.engine.MutualView(user)
	if err != nil {
		return err
	}

	return c.JSON(view)
}
