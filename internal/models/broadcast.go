package models

import (
	"time"

	"github.com/google/uuid"
)

// Broadcast records one state change as seen by one recipient. Rows are
// append-only; only IsSeen ever mutates, and it flips to true exactly once.
type Broadcast struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OriginatorID uuid.UUID `gorm:"type:uuid;index" json:"originator_id"`
	RecipientID  uuid.UUID `gorm:"type:uuid;index" json:"recipient_id"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	IsSeen       bool      `json:"is_seen"`
}

func (Broadcast) TableName() string { return "broadcast" }
