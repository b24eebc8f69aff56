package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"rolloutlog.com/internal/config"
)

func NewServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})

	app.Use(logger.New())

	// The session cookie needs AllowCredentials, and fiber rejects
	// credentials together with the default wildcard origin.
	corsCfg := cors.Config{}
	if cfg.Server.AllowOrigin != "" {
		corsCfg.AllowOrigins = cfg.Server.AllowOrigin
		corsCfg.AllowCredentials = true
	}
	app.Use(cors.New(corsCfg))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Service is healthy",
		})
	})

	return app
}
