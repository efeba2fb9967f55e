package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxContactsPerUpload caps a single address-book ingestion.
const MaxContactsPerUpload = 10000

// Contact is one server-side address-book entry. TargetHashTeleNum does not
// have to belong to a registered user; the client's book is kept verbatim.
type Contact struct {
	FromUserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"from_user_id"`
	TargetHashTeleNum string    `gorm:"size:64;primaryKey" json:"target_hash_tele_num"`
	Name              string    `json:"name"`
	CreatedAt         time.Time `json:"created_at"`
}
