package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/gehma/internal/apperrors"
	"github.com/example/gehma/internal/models"
	"github.com/example/gehma/internal/utils"
)

// BlacklistHandler manages the per-user block list. Entries store phone
// hashes on both sides so blocks can predate the blocked registration.
type BlacklistHandler struct {
	db *gorm.DB
}

// NewBlacklistHandler constructs a BlacklistHandler.
func NewBlacklistHandler(db *gorm.DB) *BlacklistHandler {
	return &BlacklistHandler{db: db}
}

type blacklistRequest struct {
	Blocked     string `json:"blocked"`
	CountryCode string `json:"country_code"`
}

// Add blocks a phone number. Re-blocking an already blocked number is a
// no-op, keeping the (blocker, blocked) pair unique.
func (h *BlacklistHandler) Add(c *fiber.Ctx) error {
	user, err := requireSessionUser(c, h.db)
	if err != nil {
		return err
	}

	var req blacklistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.InvalidInput("invalid request body")
	}

	blockedNum, err := utils.CanonicalizePhone(req.Blocked, req.CountryCode)
	if err != nil {
		return err
	}

	entry := models.BlacklistEntry{
		HashBlocker: user.HashTeleNum,
		HashBlocked: utils.HashPhone(blockedNum),
		CreatedAt:   time.Now(),
	}

	err = h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
	if err != nil {
		return apperrors.Storage(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// List returns the blocks owned by the session user.
func (h *BlacklistHandler) List(c *fiber.Ctx) error {
	user, err := requireSessionUser(c, h.db)
	if err != nil {
		return err
	}

	var entries []models.BlacklistEntry
	err = h.db.Where("hash_blocker = ?", user.HashTeleNum).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return apperrors.Storage(err)
	}

	view := make([]models.BlacklistDTO, 0, len(entries))
	for _, entry := range entries {
		view = append(view, models.BlacklistDTO{
			ID:          entry.ID,
			HashBlocked: entry.HashBlocked,
			CreatedAt:   entry.CreatedAt,
		})
	}

	return c.JSON(view)
}

// Delete removes a block.
func (h *BlacklistHandler) Delete(c *fiber.Ctx) error {
	user, err := requireSessionUser(c, h.db)
	if err != nil {
		return err
	}

	var req blacklistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.InvalidInput("invalid request body")
	}

	blockedNum, err := utils.CanonicalizePhone(req.Blocked, req.CountryCode)
	if err != nil {
		return err
	}

	result := h.db.Where("hash_blocker = ? AND hash_blocked = ?",
		user.HashTeleNum, utils.HashPhone(blockedNum)).
		Delete(&models.BlacklistEntry{})
	if result.Error != nil {
		return apperrors.Storage(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("blacklist entry not found")
	}

	return c.SendStatus(fiber.StatusOK)
}
