package handler

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/1234-ad/auto-feedback-generator/internal/dto"
	"github.com/1234-ad/auto-feedback-generator/internal/events"
	"github.com/1234-ad/auto-feedback-generator/internal/history"
	"github.com/1234-ad/auto-feedback-generator/internal/service"
	"github.com/1234-ad/auto-feedback-generator/internal/utils"
	"github.com/1234-ad/auto-feedback-generator/internal/validation"
	"github.com/1234-ad/auto-feedback-generator/pkg/ai"
)

// FeedbackHandler exposes the feedback generation endpoints.
type FeedbackHandler struct {
	service   service.FeedbackService
	store     *history.Store
	publisher *events.Publisher
	logger    zerolog.Logger
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(svc service.FeedbackService, store *history.Store, publisher *events.Publisher, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service:   svc,
		store:     store,
		publisher: publisher,
		logger:    logger.With().Str("component", "feedback_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *FeedbackHandler) Register(router fiber.Router) {
	router.Post("", h.generate)
	router.Get("/templates", h.templates)
	router.Get("/history", h.recent)
}

func (h *FeedbackHandler) generate(c *fiber.Ctx) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return utils.SendError(c, fiber.StatusBadRequest, "No data provided", "Please provide valid JSON data")
	}

	var payload dto.FeedbackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "No data provided", "Please provide valid JSON data")
	}

	response, err := h.service.Generate(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	h.record(c, response)

	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *FeedbackHandler) templates(c *fiber.Ctx) error {
	return c.JSON(h.service.Catalog())
}

func (h *FeedbackHandler) recent(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid request", "limit must be a non-negative integer")
	}

	entries, err := h.store.Recent(c.Context())
	if err != nil {
		if errors.Is(err, history.ErrUnavailable) {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "History unavailable", "Feedback history is not configured")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to read feedback history")
		return utils.SendError(c, fiber.StatusInternalServerError, "Internal server error", "An unexpected error occurred")
	}

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []dto.FeedbackHistoryEntry{}
	}

	return c.JSON(dto.FeedbackHistoryResponse{History: entries, Count: len(entries)})
}

// record persists the generation in history and fans out the event. Neither
// failure reaches the caller; the feedback was already produced.
func (h *FeedbackHandler) record(c *fiber.Ctx, response dto.FeedbackResponse) {
	entry := dto.FeedbackHistoryEntry{
		ID:              uuid.NewString(),
		StudentName:     response.Metadata.StudentName,
		AssignmentTitle: response.Metadata.AssignmentTitle,
		Subject:         response.Metadata.Subject,
		FeedbackType:    response.Metadata.FeedbackType,
		Feedback:        response.Feedback,
		RubricSummary:   response.RubricSummary,
		GeneratedAt:     response.Metadata.GeneratedAt,
	}

	if err := h.store.Record(c.Context(), entry); err != nil && !errors.Is(err, history.ErrUnavailable) {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to record feedback history")
	}

	h.publisher.Generated(entry)
}

func (h *FeedbackHandler) handleError(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	var classified *ai.ClassifiedError
	switch {
	case errors.As(err, &verr):
		return utils.SendValidationError(c, verr.Errors)
	case errors.Is(err, service.ErrGeneratorUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "Generator unavailable", "Feedback generation is not configured")
	case errors.As(err, &classified):
		return h.sendClassified(c, classified)
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("feedback generation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "Internal server error", "An unexpected error occurred")
	}
}

func (h *FeedbackHandler) sendClassified(c *fiber.Ctx, classified *ai.ClassifiedError) error {
	requestLogger(h.logger, c).Error().
		Str("kind", string(classified.Kind)).
		Err(classified).
		Msg("feedback generation failed")

	switch classified.Kind {
	case ai.KindRateLimited:
		return utils.SendError(c, fiber.StatusTooManyRequests, string(ai.KindRateLimited), "API rate limit exceeded. Please try again in a moment.")
	case ai.KindAuthFailed:
		return utils.SendError(c, fiber.StatusUnauthorized, string(ai.KindAuthFailed), "Authentication failed. Please check API configuration.")
	case ai.KindInvalidRequest:
		return utils.SendError(c, fiber.StatusBadRequest, string(ai.KindInvalidRequest), "Invalid request. Please check your input data.")
	case ai.KindTransient:
		return utils.SendError(c, fiber.StatusGatewayTimeout, string(ai.KindTransient), "Request timeout. Please try again.")
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, string(ai.KindUnknown), "An unexpected error occurred. Please try again.")
	}
}
