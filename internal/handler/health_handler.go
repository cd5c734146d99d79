package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/1234-ad/auto-feedback-generator/internal/config"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	Service          string    `json:"service"`
	Environment      string    `json:"environment"`
	APIKeyConfigured bool      `json:"api_key_configured"`
}

// APIInfoResponse describes the service for the root endpoint.
type APIInfoResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(HealthResponse{
			Status:           "healthy",
			Timestamp:        time.Now().UTC(),
			Service:          cfg.AppName,
			Environment:      cfg.AppEnv,
			APIKeyConfigured: apiKeyConfigured(cfg),
		})
	}
}

// Home returns a handler serving API identification at the root path.
func Home(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(APIInfoResponse{
			Message: cfg.AppName,
			Version: "1.0.0",
			Status:  "active",
			Endpoints: map[string]string{
				"generate_feedback":  "/api/v1/feedback",
				"feedback_templates": "/api/v1/feedback/templates",
				"feedback_history":   "/api/v1/feedback/history",
				"health":             "/api/v1/health",
			},
		})
	}
}

func apiKeyConfigured(cfg config.Config) bool {
	switch cfg.AIProvider {
	case "anthropic":
		return cfg.AnthropicAPIKey != ""
	default:
		return cfg.OpenAIAPIKey != ""
	}
}
