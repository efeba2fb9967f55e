package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/gehma/internal/config"
	"github.com/example/gehma/internal/database"
	"github.com/example/gehma/internal/routes"
)

func main() {
	cfg := config.Load()

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zlog.Sync()

	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName:      "Gehma Backend",
		ErrorHandler: routes.ErrorHandler(zlog),
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, zlog)

	zlog.Info("starting server", zap.String("addr", cfg.Addr()))
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
