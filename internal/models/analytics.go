package models

import "time"

// AnalyticsEntry is an append-only log row written on every user state
// change. The rate-limit policy counts these rows as its window oracle.
type AnalyticsEntry struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TeleNum     string    `gorm:"index" json:"tele_num"`
	Led         bool      `json:"led"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (AnalyticsEntry) TableName() string { return "analytics" }

// UsageStatisticEntry is appended on every successful sign-in.
type UsageStatisticEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TeleNum   string    `gorm:"index" json:"tele_num"`
	CreatedAt time.Time `json:"created_at"`
}

func (UsageStatisticEntry) TableName() string { return "usage_statistics" }
