package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/gehma/internal/config"
	"github.com/example/gehma/internal/handlers"
	"github.com/example/gehma/internal/middleware"
	"github.com/example/gehma/internal/services"
)

// Register wires up middleware, services and all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	var verifier services.Verifier
	switch cfg.SMSVerifier {
	case "accept":
		verifier = services.AcceptVerifier{}
	case "reject":
		verifier = services.RejectVerifier{}
	default:
		verifier = services.NewTwilioVerifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioVerifySID, logger)
	}

	notifier := services.NewFCMNotifier(cfg.FCMAPIKey, logger)
	limiter := services.NewAnalyticsRateLimiter(db)

	contactEngine := services.NewContactEngine(db, logger)
	broadcastEngine := services.NewBroadcastEngine(db, limiter, notifier, logger)

	authHandler := handlers.NewAuthHandler(db, cfg, verifier, logger)
	userHandler := handlers.NewUserHandler(db, broadcastEngine)
	contactHandler := handlers.NewContactHandler(db, contactEngine)
	blacklistHandler := handlers.NewBlacklistHandler(db)
	broadcastHandler := handlers.NewBroadcastHandler(db, broadcastEngine)

	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.SessionAuth(cfg))

	app.Static("/static", cfg.StaticDir)

	auth := app.Group("/auth")
	auth.Post("/request_code", authHandler.RequestCode)
	auth.Post("/check", authHandler.Check)

	app.Post("/signin", authHandler.Signin)

	user := app.Group("/user")
	user.Get("/:id", userHandler.Get)
	user.Put("/:id", userHandler.Update)
	user.Put("/:id/token", userHandler.UpdateToken)
	user.Post("/:id/blacklist", blacklistHandler.Add)
	user.Get("/:id/blacklist", blacklistHandler.List)
	user.Put("/:id/blacklist", blacklistHandler.Delete)

	contacts := app.Group("/contacts")
	contacts.Post("/:id/:country_code", contactHandler.Upload)
	contacts.Get("/:id", contactHandler.List)

	app.Get("/broadcasts/:id", broadcastHandler.List)
}
