package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the common error envelope for API failures.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

// SendError sends an error envelope with the given status code.
func SendError(c *fiber.Ctx, status int, label, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(ErrorResponse{
		Error:   label,
		Message: message,
	})
}

// SendValidationError sends a 400 envelope listing every validation problem.
func SendValidationError(c *fiber.Ctx, details []string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "Validation failed",
		Details: details,
	})
}
