package services

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/gehma/internal/apperrors"
	"github.com/example/gehma/internal/models"
)

// XPIncrement is the fixed experience gain for going motivated inside the
// XP quota.
const XPIncrement = 100

// BroadcastEngine runs the state-change transaction: user update, XP
// accrual, analytics, broadcast rows, then the push fan-out after commit.
type BroadcastEngine struct {
	db       *gorm.DB
	limiter  RateLimiter
	notifier Notifier
	logger   *zap.Logger
}

// NewBroadcastEngine constructs a BroadcastEngine.
func NewBroadcastEngine(db *gorm.DB, limiter RateLimiter, notifier Notifier, logger *zap.Logger) *BroadcastEngine {
	return &BroadcastEngine{db: db, limiter: limiter, notifier: notifier, logger: logger}
}

// recipient is one eligible fan-out target: a mutual, unblocked contact of
// the originator holding a device token. Name is the display name the
// originator's own address book carries for the recipient; push entries
// address recipients by that name.
type recipient struct {
	ID            uuid.UUID
	FirebaseToken string
	Name          string
}

// UpdateState flips the user's motivated flag inside one transaction and,
// when the flag went up, fans the change out. The database commit strictly
// precedes the push call; a push failure never rolls anything back, and no
// push fires for a change that did not commit.
func (e *BroadcastEngine) UpdateState(userID uuid.UUID, description string, led bool, clientVersion string) (*models.User, error) {
	now := time.Now()

	var updated models.User
	var recipients []recipient
	var updatesOver bool

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("user not found")
			}
			return apperrors.Storage(err)
		}

		updatesOver, err = e.limiter.UpdatesOverLimit(&user, now)
		if err != nil {
			return err
		}
		xpOver, err := e.limiter.XPOverLimit(&user, now)
		if err != nil {
			return err
		}

		user.Led = led
		user.Description = description
		user.ClientVersion = clientVersion
		user.ChangedAt = now
		if led && !xpOver {
			user.XP += XPIncrement
		}

		if err := tx.Save(&user).Error; err != nil {
			return apperrors.Storage(err)
		}

		entry := models.AnalyticsEntry{
			TeleNum:     user.TeleNum,
			Led:         led,
			Description: description,
			CreatedAt:   now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return apperrors.Storage(err)
		}

		if led {
			recipients, err = eligibleRecipients(tx, &user)
			if err != nil {
				return err
			}

			if len(recipients) > 0 {
				rows := make([]models.Broadcast, 0, len(recipients))
				for _, r := range recipients {
					rows = append(rows, models.Broadcast{
						OriginatorID: user.ID,
						RecipientID:  r.ID,
						Text:         description,
						CreatedAt:    now,
					})
				}
				if err := tx.Create(&rows).Error; err != nil {
					return apperrors.Storage(err)
				}
			}
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	if led && !updatesOver {
		entries := capRecipients(recipients)
		if len(entries) > 0 {
			if err := e.notifier.Push(entries); err != nil {
				e.logger.Warn("push fan-out failed",
					zap.String("originator", updated.ID.String()),
					zap.Int("recipients", len(entries)),
					zap.Error(err))
			}
		}
	}

	return &updated, nil
}

// eligibleRecipientsQuery selects the fan-out set: mutual contacts with a
// device token where neither side has blacklisted the other. The name
// column comes from the originator's own contact row (own.name), not from
// the entry the recipient keeps for the originator.
const eligibleRecipientsQuery = `
	SELECT u.id,
	       u.firebase_token,
	       own.name
	FROM contacts own
	JOIN users u ON u.hash_tele_num = own.target_hash_tele_num
	JOIN contacts mutual
	     ON mutual.from_user_id = u.id
	    AND mutual.target_hash_tele_num = ?
	WHERE own.from_user_id = ?
	  AND u.firebase_token <> ''
	  AND NOT EXISTS (
	      SELECT 1 FROM blacklist b
	      WHERE b.hash_blocker = ? AND b.hash_blocked = u.hash_tele_num)
	  AND NOT EXISTS (
	      SELECT 1 FROM blacklist b
	      WHERE b.hash_blocker = u.hash_tele_num AND b.hash_blocked = ?)
	ORDER BY u.id ASC`

// eligibleRecipients snapshots the fan-out set inside the caller's
// transaction. Ordered by recipient id so truncation downstream is
// deterministic.
func eligibleRecipients(tx *gorm.DB, originator *models.User) ([]recipient, error) {
	var rows []recipient
	err := tx.Raw(eligibleRecipientsQuery,
		originator.HashTeleNum, originator.ID,
		originator.HashTeleNum, originator.HashTeleNum,
	).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return rows, nil
}

// capRecipients turns recipients into push entries, keeping at most
// LimitPushNotificationContacts after sorting by recipient id.
func capRecipients(recipients []recipient) []PushEntry {
	sorted := make([]recipient, len(recipients))
	copy(sorted, recipients)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	if len(sorted) > LimitPushNotificationContacts {
		sorted = sorted[:LimitPushNotificationContacts]
	}

	entries := make([]PushEntry, 0, len(sorted))
	for _, r := range sorted {
		if r.FirebaseToken == "" {
			continue
		}
		entries = append(entries, PushEntry{Name: r.Name, Token: r.FirebaseToken})
	}
	return entries
}

// LatestFor returns the user's unseen broadcasts, newest first, with the
// originator embedded. With markSeen the returned rows flip to seen in the
// same transaction, so a second read comes back empty.
func (e *BroadcastEngine) LatestFor(user *models.User, markSeen bool) ([]models.BroadcastDTO, error) {
	var result []models.BroadcastDTO

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var broadcasts []models.Broadcast
		err := tx.Where("recipient_id = ? AND is_seen = ?", user.ID, false).
			Order("created_at DESC").
			Find(&broadcasts).Error
		if err != nil {
			return apperrors.Storage(err)
		}

		if len(broadcasts) == 0 {
			result = []models.BroadcastDTO{}
			return nil
		}

		originatorIDs := make([]uuid.UUID, 0, len(broadcasts))
		for _, b := range broadcasts {
			originatorIDs = append(originatorIDs, b.OriginatorID)
		}

		var originators []models.User
		if err := tx.Where("id IN ?", originatorIDs).Find(&originators).Error; err != nil {
			return apperrors.Storage(err)
		}

		var ids []int64
		result, ids = assembleBroadcastView(broadcasts, originators)

		if markSeen {
			err := tx.Model(&models.Broadcast{}).
				Where("id IN ?", ids).
				Update("is_seen", true).Error
			if err != nil {
				return apperrors.Storage(err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// assembleBroadcastView builds the response rows and collects their ids, so
// the seen flip targets exactly the rows the caller gets back.
func assembleBroadcastView(broadcasts []models.Broadcast, originators []models.User) ([]models.BroadcastDTO, []int64) {
	byID := make(map[uuid.UUID]models.User, len(originators))
	for _, o := range originators {
		byID[o.ID] = o
	}

	result := make([]models.BroadcastDTO, 0, len(broadcasts))
	ids := make([]int64, 0, len(broadcasts))
	for _, b := range broadcasts {
		originator := byID[b.OriginatorID]
		result = append(result, models.BroadcastDTO{
			ID:         b.ID,
			Originator: originator.ToDTO(),
			Text:       b.Text,
			CreatedAt:  b.CreatedAt,
			IsSeen:     b.IsSeen,
		})
		ids = append(ids, b.ID)
	}
	return result, ids
}
