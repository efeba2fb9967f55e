package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DescriptionMaxLen bounds the free-text status a user may attach to their
// motivated state.
const DescriptionMaxLen = 200

// User represents a registered device owner, keyed by phone number.
// TeleNum is the E.164 form; HashTeleNum is its uppercase-hex SHA-256 and
// is the only phone-derived value ever disclosed to other users.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeleNum        string    `gorm:"uniqueIndex" json:"tele_num"`
	HashTeleNum    string    `gorm:"size:64;uniqueIndex" json:"hash_tele_num"`
	CountryCode    string    `json:"country_code"`
	Description    string    `gorm:"size:200" json:"description"`
	Led            bool      `json:"led"`
	CreatedAt      time.Time `json:"created_at"`
	ChangedAt      time.Time `json:"changed_at"`
	ClientVersion  string    `json:"client_version"`
	FirebaseToken  string    `json:"-"`
	ProfilePicture string    `json:"profile_picture"`
	AccessToken    string    `gorm:"uniqueIndex" json:"-"`
	XP             int64     `json:"xp"`
}

// BeforeCreate ensures UUIDs are generated for new records.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
