package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/1234-ad/auto-feedback-generator/internal/config"
	"github.com/1234-ad/auto-feedback-generator/internal/handler"
	"github.com/1234-ad/auto-feedback-generator/internal/observability"
	"github.com/1234-ad/auto-feedback-generator/internal/utils"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	FeedbackHandler *handler.FeedbackHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/", handler.Home(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.Register(api.Group("/feedback"))
	}

	app.Use(func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusNotFound, "Not found", "The requested endpoint does not exist")
	})
}
