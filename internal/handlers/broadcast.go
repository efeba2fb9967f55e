package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/gehma/internal/services"
)

// BroadcastHandler serves the recipient-side broadcast feed.
type BroadcastHandler struct {
	db     *gorm.DB
	engine *services.BroadcastEngine
}

// NewBroadcastHandler constructs a BroadcastHandler.
func NewBroadcastHandler(db *gorm.DB, engine *services.BroadcastEngine) *BroadcastHandler {
	return &BroadcastHandler{db: db, engine: engine}
}

// List returns the session user's unseen broadcasts. With mark_seen=true
// the returned rows flip to seen atomically, so they appear exactly once.
func (h *BroadcastHandler) List(c *fiber.Ctx) error {
	user, err := requireSessionUser(c, h.db)
	if err != nil {
		return err
	}

	markSeen := c.QueryBool("mark_seen")

	view, err := h.engine.LatestFor(user, markSeen)
	if err != nil {
		return err
	}

	return c.JSON(view)
}
