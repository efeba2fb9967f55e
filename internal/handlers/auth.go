package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/gehma/internal/apperrors"
	"github.com/example/gehma/internal/config"
	"github.com/example/gehma/internal/models"
	"github.com/example/gehma/internal/services"
	"github.com/example/gehma/internal/utils"
)

// AuthHandler bundles dependencies for the registration and sign-in flow.
type AuthHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	verifier services.Verifier
	logger   *zap.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, verifier services.Verifier, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, verifier: verifier, logger: logger}
}

type requestCodeRequest struct {
	TeleNum     string `json:"tele_num"`
	CountryCode string `json:"country_code"`
}

// RequestCode asks the SMS gateway to send a verification code. Nothing is
// persisted server-side; the gateway owns the pending code.
func (h *AuthHandler) RequestCode(c *fiber.Ctx) error {
	var req requestCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.InvalidInput("invalid request body")
	}

	teleNum, err := utils.CanonicalizePhone(req.TeleNum, req.CountryCode)
	if err != nil {
		return err
	}

	if err := h.verifier.RequestCode(c.UserContext(), teleNum); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}

type checkCodeRequest struct {
	TeleNum       string `json:"tele_num"`
	CountryCode   string `json:"country_code"`
	ClientVersion string `json:"client_version"`
	Code          string `json:"code"`
}

// Check validates the SMS code and registers the phone number. The reply
// is the only place the plaintext access token ever appears.
func (h *AuthHandler) Check(c *fiber.Ctx) error {
	var req checkCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.InvalidInput("invalid request body")
	}

	if !utils.ValidClientVersion(req.ClientVersion) {
		return apperrors.InvalidInput("invalid client version")
	}

	teleNum, err := utils.CanonicalizePhone(req.TeleNum, req.CountryCode)
	if err != nil {
		return err
	}

	approved, err := h.verifier.CheckCode(c.UserContext(), teleNum, req.Code)
	if err != nil {
		return err
	}
	if !approved {
		return apperrors.InvalidInput("invalid code")
	}

	var user models.User
	err = h.db.Where("tele_num = ?", teleNum).First(&user).Error
	switch {
	case err == nil:
		// Re-verification of a known number rotates the device secret.
		dto, rotateErr := h.rotateAccessToken(&user, req.ClientVersion)
		if rotateErr != nil {
			return rotateErr
		}
		return c.JSON(dto)
	case errors.Is(err, gorm.ErrRecordNotFound):
		dto, createErr := h.createUser(teleNum, req.CountryCode, req.ClientVersion)
		if createErr != nil {
			return createErr
		}
		return c.JSON(dto)
	default:
		return apperrors.Storage(err)
	}
}

func (h *AuthHandler) createUser(teleNum, countryCode, clientVersion string) (models.UserDTO, error) {
	plaintext, err := utils.GenerateAccessToken()
	if err != nil {
		return models.UserDTO{}, apperrors.Storage(err)
	}
	hashed, err := utils.HashAccessToken(plaintext)
	if err != nil {
		return models.UserDTO{}, apperrors.Storage(err)
	}

	now := time.Now()
	user := models.User{
		TeleNum:       teleNum,
		HashTeleNum:   utils.HashPhone(teleNum),
		CountryCode:   countryCode,
		ClientVersion: clientVersion,
		CreatedAt:     now,
		ChangedAt:     now,
		AccessToken:   hashed,
	}
	user.ProfilePicture = h.pickProfilePicture(&user)

	if err := h.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			// A concurrent check on the same number won the race; fall
			// back to the existing row and rotate its secret.
			var existing models.User
			if lookupErr := h.db.Where("tele_num = ?", teleNum).First(&existing).Error; lookupErr != nil {
				return models.UserDTO{}, apperrors.AlreadyExists("user already exists")
			}
			return h.rotateAccessToken(&existing, clientVersion)
		}
		return models.UserDTO{}, apperrors.Storage(err)
	}

	h.logger.Info("user registered", zap.String("id", user.ID.String()))

	dto := user.ToDTO()
	dto.AccessToken = plaintext
	return dto, nil
}

func (h *AuthHandler) rotateAccessToken(user *models.User, clientVersion string) (models.UserDTO, error) {
	plaintext, err := utils.GenerateAccessToken()
	if err != nil {
		return models.UserDTO{}, apperrors.Storage(err)
	}
	hashed, err := utils.HashAccessToken(plaintext)
	if err != nil {
		return models.UserDTO{}, apperrors.Storage(err)
	}

	user.AccessToken = hashed
	user.ClientVersion = clientVersion
	user.ChangedAt = time.Now()
	if err := h.db.Save(user).Error; err != nil {
		return models.UserDTO{}, apperrors.Storage(err)
	}

	dto := user.ToDTO()
	dto.AccessToken = plaintext
	return dto, nil
}

// pickProfilePicture deterministically assigns one catalog avatar from the
// user id so repeated registrations of the same id stay stable.
func (h *AuthHandler) pickProfilePicture(user *models.User) string {
	var catalog []models.ProfilePicture
	if err := h.db.Order("id ASC").Find(&catalog).Error; err != nil || len(catalog) == 0 {
		return "/static/profile/placeholder_1.png"
	}
	return catalog[int(user.ID[0])%len(catalog)].Path
}

type signinRequest struct {
	TeleNum       string `json:"tele_num"`
	CountryCode   string `json:"country_code"`
	ClientVersion string `json:"client_version"`
}

// Signin exchanges the per-device access token for a short-lived session
// token and records a usage-statistics row.
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var req signinRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.InvalidInput("invalid request body")
	}

	if !utils.ValidClientVersion(req.ClientVersion) {
		return apperrors.InvalidInput("invalid client version")
	}

	teleNum, err := utils.CanonicalizePhone(req.TeleNum, req.CountryCode)
	if err != nil {
		return err
	}

	accessToken := c.Get("ACCESS_TOKEN")
	if accessToken == "" {
		return apperrors.Unauthorized("missing access token")
	}

	var user models.User
	if err := h.db.Where("tele_num = ?", teleNum).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Unauthorized("unknown access token")
		}
		return apperrors.Storage(err)
	}

	if !utils.CheckAccessToken(user.AccessToken, accessToken) {
		return apperrors.Unauthorized("unknown access token")
	}

	user.ClientVersion = req.ClientVersion
	user.ChangedAt = time.Now()
	if err := h.db.Save(&user).Error; err != nil {
		return apperrors.Storage(err)
	}

	usage := models.UsageStatisticEntry{TeleNum: user.TeleNum, CreatedAt: time.Now()}
	if err := h.db.Create(&usage).Error; err != nil {
		return apperrors.Storage(err)
	}

	sessionToken, err := utils.GenerateSessionToken(h.cfg.SessionKey, user.ID)
	if err != nil {
		return apperrors.Storage(err)
	}

	dto := user.ToDTO()
	dto.SessionToken = sessionToken
	return c.JSON(dto)
}
