package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlacklistEntry blocks one direction of visibility between two phone
// hashes. Hashes are used instead of user ids so a block can exist before
// the blocked side ever registers.
type BlacklistEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HashBlocker string    `gorm:"size:64;index;uniqueIndex:idx_blacklist_pair" json:"hash_blocker"`
	HashBlocked string    `gorm:"size:64;index;uniqueIndex:idx_blacklist_pair" json:"hash_blocked"`
	CreatedAt   time.Time `json:"created_at"`
}

func (b *BlacklistEntry) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName keeps the historical singular table name.
func (BlacklistEntry) TableName() string { return "blacklist" }
