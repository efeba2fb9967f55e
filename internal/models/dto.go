package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDTO is the wire shape of a user. AccessToken is populated exactly
// once (successful code check); SessionToken only on sign-in.
type UserDTO struct {
	ID             uuid.UUID `json:"id"`
	TeleNum        string    `json:"tele_num"`
	CountryCode    string    `json:"country_code"`
	Description    string    `json:"description"`
	Led            bool      `json:"led"`
	XP             int64     `json:"xp"`
	ProfilePicture string    `json:"profile_picture"`
	ClientVersion  string    `json:"client_version"`
	CreatedAt      time.Time `json:"created_at"`
	ChangedAt      time.Time `json:"changed_at"`
	AccessToken    string    `json:"access_token,omitempty"`
	SessionToken   string    `json:"session_token,omitempty"`
}

// ToDTO projects a user row into its wire shape without either credential.
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:             u.ID,
		TeleNum:        u.TeleNum,
		CountryCode:    u.CountryCode,
		Description:    u.Description,
		Led:            u.Led,
		XP:             u.XP,
		ProfilePicture: u.ProfilePicture,
		ClientVersion:  u.ClientVersion,
		CreatedAt:      u.CreatedAt,
		ChangedAt:      u.ChangedAt,
	}
}

// ContactDTO is one row of the mutual contact view. Led and Description are
// masked to their zero values whenever either side blocks the other.
type ContactDTO struct {
	Name           string    `json:"name"`
	HashTeleNum    string    `json:"hash_tele_num"`
	UserID         uuid.UUID `json:"user_id"`
	Led            bool      `json:"led"`
	Description    string    `json:"description"`
	ProfilePicture string    `json:"profile_picture"`
	Blocked        bool      `json:"blocked"`
}

// BlacklistDTO exposes one block owned by the requesting user.
type BlacklistDTO struct {
	ID          uuid.UUID `json:"id"`
	HashBlocked string    `json:"hash_blocked"`
	CreatedAt   time.Time `json:"created_at"`
}

// BroadcastDTO is one delivered state change, with the originator embedded
// so the client can render who went motivated.
type BroadcastDTO struct {
	ID         int64     `json:"id"`
	Originator UserDTO   `json:"originator"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	IsSeen     bool      `json:"is_seen"`
}
