package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/example/gehma/internal/apperrors"
	"github.com/example/gehma/internal/models"
)

const (
	rateLimitWindow     = 10 * time.Minute
	maxUpdatesPerWindow = 3
	maxXPGainsPerWindow = 2
)

// RateLimiter decides whether a user is over quota for state changes or XP
// gain. The two limits are independent: an update over the XP quota still
// persists, it just stops earning.
type RateLimiter interface {
	UpdatesOverLimit(user *models.User, now time.Time) (bool, error)
	XPOverLimit(user *models.User, now time.Time) (bool, error)
}

// AnalyticsRateLimiter derives both limits from the analytics log. State is
// re-queried per call; there is no in-memory counter to drift.
type AnalyticsRateLimiter struct {
	db *gorm.DB
}

// NewAnalyticsRateLimiter creates the default limiter.
func NewAnalyticsRateLimiter(db *gorm.DB) *AnalyticsRateLimiter {
	return &AnalyticsRateLimiter{db: db}
}

func (l *AnalyticsRateLimiter) UpdatesOverLimit(user *models.User, now time.Time) (bool, error) {
	count, err := l.countRecent(user.TeleNum, now)
	if err != nil {
		return false, err
	}
	return overUpdateQuota(count), nil
}

func (l *AnalyticsRateLimiter) XPOverLimit(user *models.User, now time.Time) (bool, error) {
	count, err := l.countRecent(user.TeleNum, now)
	if err != nil {
		return false, err
	}
	return overXPQuota(count), nil
}

// overUpdateQuota and overXPQuota turn a windowed analytics count into the
// two quota verdicts. Strictly-greater: the count already includes earlier
// rows only, so the fourth update and the third XP gain are the first over.
func overUpdateQuota(count int64) bool {
	return count > maxUpdatesPerWindow
}

func overXPQuota(count int64) bool {
	return count > maxXPGainsPerWindow
}

func (l *AnalyticsRateLimiter) countRecent(teleNum string, now time.Time) (int64, error) {
	var count int64
	err := l.db.Model(&models.AnalyticsEntry{}).
		Where("tele_num = ? AND created_at BETWEEN ? AND ?", teleNum, now.Add(-rateLimitWindow), now).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Storage(err)
	}
	return count, nil
}

// AllowAllLimiter never throttles. Testing builds only.
type AllowAllLimiter struct{}

func (AllowAllLimiter) UpdatesOverLimit(user *models.User, now time.Time) (bool, error) {
	return false, nil
}

func (AllowAllLimiter) XPOverLimit(user *models.User, now time.Time) (bool, error) {
	return false, nil
}

// DenyAllLimiter always throttles. Testing builds only.
type DenyAllLimiter struct{}

func (DenyAllLimiter) UpdatesOverLimit(user *models.User, now time.Time) (bool, error) {
	return true, nil
}

func (DenyAllLimiter) XPOverLimit(user *models.User, now time.Time) (bool, error) {
	return true, nil
}
