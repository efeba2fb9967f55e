package services

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/gehma/internal/apperrors"
	"github.com/example/gehma/internal/models"
)

// ContactEngine owns the server-side address book: full-replacement
// ingestion and the mutual, blacklist-masked view.
type ContactEngine struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewContactEngine constructs a ContactEngine.
func NewContactEngine(db *gorm.DB, logger *zap.Logger) *ContactEngine {
	return &ContactEngine{db: db, logger: logger}
}

// ContactUpload is one entry of a client address-book payload. The client
// hashes numbers before upload; raw phones never travel in contact bodies.
type ContactUpload struct {
	Name        string `json:"name"`
	HashTeleNum string `json:"hash_tele_num"`
}

// Ingest atomically replaces the owner's contact set with the payload,
// minus any entry the owner has blacklisted.
func (e *ContactEngine) Ingest(owner *models.User, payload []ContactUpload) error {
	if len(payload) > models.MaxContactsPerUpload {
		return apperrors.InvalidInput("too many contacts")
	}

	blocked, err := e.blockedHashes(owner.HashTeleNum)
	if err != nil {
		return err
	}

	contacts := filterBlockedContacts(owner.ID, payload, blocked, time.Now())

	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("from_user_id = ?", owner.ID).Delete(&models.Contact{}).Error; err != nil {
			return err
		}
		if len(contacts) == 0 {
			return nil
		}
		// Duplicate hashes within one payload collide on the composite
		// key; the stale entry is skipped rather than failing the upload.
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(contacts, 500).Error
	})
	if err != nil {
		return apperrors.Storage(err)
	}

	e.logger.Debug("contact set replaced",
		zap.String("owner", owner.ID.String()),
		zap.Int("uploaded", len(payload)),
		zap.Int("stored", len(contacts)))

	return nil
}

func (e *ContactEngine) blockedHashes(ownerHash string) (map[string]struct{}, error) {
	var entries []models.BlacklistEntry
	if err := e.db.Where("hash_blocker = ?", ownerHash).Find(&entries).Error; err != nil {
		return nil, apperrors.Storage(err)
	}

	blocked := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		blocked[entry.HashBlocked] = struct{}{}
	}
	return blocked, nil
}

// filterBlockedContacts drops payload entries whose hash the owner has
// blacklisted and projects the rest into contact rows.
func filterBlockedContacts(ownerID uuid.UUID, payload []ContactUpload, blocked map[string]struct{}, now time.Time) []models.Contact {
	contacts := make([]models.Contact, 0, len(payload))
	for _, entry := range payload {
		if entry.HashTeleNum == "" {
			continue
		}
		if _, ok := blocked[entry.HashTeleNum]; ok {
			continue
		}
		contacts = append(contacts, models.Contact{
			FromUserID:        ownerID,
			TargetHashTeleNum: entry.HashTeleNum,
			Name:              entry.Name,
			CreatedAt:         now,
		})
	}
	return contacts
}

// contactRow is the raw join result behind MutualView: one row per stored
// contact that resolved to a registered user, with both blacklist
// directions marked.
type contactRow struct {
	Name           string
	HashTeleNum    string
	UserID         uuid.UUID
	Led            bool
	Description    string
	ProfilePicture string
	BlockedByOwner bool
	BlockedOwner   bool
}

// MutualView returns the owner's registered contacts. Masking happens here
// in application code, not in SQL: whenever either side blocks the other,
// the peer's led flag and description are zeroed so the blocked party
// cannot tell.
func (e *ContactEngine) MutualView(owner *models.User) ([]models.ContactDTO, error) {
	var rows []contactRow
	err := e.db.Raw(`
		SELECT c.name,
		       c.target_hash_tele_num AS hash_tele_num,
		       u.id AS user_id,
		       u.led,
		       u.description,
		       u.profile_picture,
		       (bo.id IS NOT NULL) AS blocked_by_owner,
		       (bc.id IS NOT NULL) AS blocked_owner
		FROM contacts c
		JOIN users u ON u.hash_tele_num = c.target_hash_tele_num
		LEFT JOIN blacklist bo
		       ON bo.hash_blocker = ? AND bo.hash_blocked = c.target_hash_tele_num
		LEFT JOIN blacklist bc
		       ON bc.hash_blocker = c.target_hash_tele_num AND bc.hash_blocked = ?
		WHERE c.from_user_id = ?
		ORDER BY c.name ASC`,
		owner.HashTeleNum, owner.HashTeleNum, owner.ID,
	).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	return maskContactRows(rows), nil
}

// maskContactRows applies the privacy invariant to the raw join rows.
// Blocked shows only the owner's own block; a contact who blocked the
// owner stays Blocked=false but is masked all the same.
func maskContactRows(rows []contactRow) []models.ContactDTO {
	view := make([]models.ContactDTO, 0, len(rows))
	for _, row := range rows {
		dto := models.ContactDTO{
			Name:           row.Name,
			HashTeleNum:    row.HashTeleNum,
			UserID:         row.UserID,
			Led:            row.Led,
			Description:    row.Description,
			ProfilePicture: row.ProfilePicture,
			Blocked:        row.BlockedByOwner,
		}
		if row.BlockedByOwner || row.BlockedOwner {
			dto.Led = false
			dto.Description = ""
		}
		view = append(view, dto)
	}
	return view
}
