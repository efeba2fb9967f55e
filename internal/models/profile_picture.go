package models

// ProfilePicture is one entry of the static avatar catalog. Users are
// assigned a catalog path at creation; there is no upload flow.
type ProfilePicture struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Path string `json:"path"`
}

func (ProfilePicture) TableName() string { return "profile_pictures" }
