package service

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/1234-ad/auto-feedback-generator/internal/dto"
	"github.com/1234-ad/auto-feedback-generator/internal/prompt"
	"github.com/1234-ad/auto-feedback-generator/internal/rubric"
	"github.com/1234-ad/auto-feedback-generator/internal/validation"
	"github.com/1234-ad/auto-feedback-generator/pkg/ai"
)

// FeedbackService exposes the feedback generation pipeline.
type FeedbackService interface {
	Generate(ctx context.Context, payload dto.FeedbackRequest) (dto.FeedbackResponse, error)
	Catalog() dto.TemplateCatalogResponse
}

// ErrGeneratorUnavailable indicates no AI generator is configured.
var ErrGeneratorUnavailable = errors.New("generator unavailable")

// GenerationInvoker runs one resilient generation call.
type GenerationInvoker interface {
	Invoke(ctx context.Context, req ai.GenerationRequest) ai.GenerationOutcome
}

const defaultAssignmentTitle = "Assignment"

// GenerationConfig describes the sampling parameters sent with every
// completion call.
type GenerationConfig struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

type feedbackService struct {
	invoker   GenerationInvoker
	validator *validation.Validator
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	config    GenerationConfig
	now       func() time.Time
}

// NewFeedbackService constructs the feedback generation pipeline service.
func NewFeedbackService(invoker GenerationInvoker, validate *validation.Validator, logger zerolog.Logger, cfg GenerationConfig) FeedbackService {
	if cfg.Model == "" {
		cfg.Model = "gpt-4"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}

	return &feedbackService{
		invoker:   invoker,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "feedback_service").Logger(),
		tracer:    otel.Tracer("github.com/1234-ad/auto-feedback-generator/internal/service/feedback"),
		config:    cfg,
		now:       time.Now,
	}
}

// Generate validates the request, renders the prompt, and runs the resilient
// generation call. Validation failures surface as *validation.Error before
// any external call is made; generation failures surface as
// *ai.ClassifiedError with their kind intact.
func (s *feedbackService) Generate(ctx context.Context, payload dto.FeedbackRequest) (dto.FeedbackResponse, error) {
	ctx, span := s.tracer.Start(ctx, "feedback.generate", trace.WithAttributes(
		attribute.String("feedback_type", payload.FeedbackType),
		attribute.String("subject", payload.Subject),
	))
	defer span.End()

	if result := s.validator.Validate(payload); !result.Valid {
		err := &validation.Error{Errors: result.Errors}
		span.SetStatus(codes.Error, err.Error())
		return dto.FeedbackResponse{}, err
	}

	if s.invoker == nil {
		return dto.FeedbackResponse{}, ErrGeneratorUnavailable
	}

	studentName := s.sanitize(payload.StudentName)
	title := s.sanitize(payload.AssignmentTitle)
	if title == "" {
		title = defaultAssignmentTitle
	}
	style := payload.FeedbackType
	if style == "" {
		style = prompt.StyleConstructive
	}
	subject := payload.Subject
	if subject == "" {
		subject = prompt.SubjectGeneral
	}

	summary := rubric.Summarize(payload.RubricData)

	composed := prompt.Compose(prompt.Input{
		StudentName:     studentName,
		AssignmentTitle: title,
		Subject:         subject,
		FeedbackType:    style,
		RubricText:      prompt.FormatRubric(payload.RubricData),
	})

	s.logger.Info().
		Str("student", studentName).
		Str("assignment", title).
		Str("feedback_type", style).
		Str("subject", subject).
		Int("criteria", summary.CriteriaCount).
		Msg("generating feedback")

	outcome := s.invoker.Invoke(ctx, ai.GenerationRequest{
		Prompt:      composed,
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
		TopP:        1,
	})
	if !outcome.Success {
		failure := outcome.Failure
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Error())
		s.logger.Error().
			Str("kind", string(failure.Kind)).
			Str("cause", failure.Message).
			Msg("feedback generation failed")
		return dto.FeedbackResponse{}, failure
	}

	span.SetAttributes(attribute.Int("criteria_count", summary.CriteriaCount))

	return dto.FeedbackResponse{
		Success:       true,
		Feedback:      outcome.Text,
		RubricSummary: summary,
		Metadata: dto.FeedbackMetadata{
			StudentName:     studentName,
			AssignmentTitle: title,
			GeneratedAt:     s.now().UTC(),
			FeedbackType:    style,
			Subject:         subject,
		},
	}, nil
}

// Catalog lists the supported feedback styles and subjects plus a sample
// rubric payload callers can start from.
func (s *feedbackService) Catalog() dto.TemplateCatalogResponse {
	return dto.TemplateCatalogResponse{
		FeedbackTypes: prompt.Styles(),
		Subjects:      prompt.Subjects(),
		SampleRubric: rubric.Rubric{Entries: []rubric.Entry{
			{Name: "communication", Criterion: rubric.Criterion{Score: 8, MaxScore: 10}},
			{Name: "teamwork", Criterion: rubric.Criterion{Score: 6, MaxScore: 10}},
			{Name: "creativity", Criterion: rubric.Criterion{Score: 9, MaxScore: 10}},
			{Name: "technical_skills", Criterion: rubric.Criterion{Score: 7, MaxScore: 10}},
		}},
	}
}

// sanitize strips markup from free-text fields before they are embedded in a
// prompt. Entities are unescaped afterwards because the output is plain text,
// not HTML.
func (s *feedbackService) sanitize(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(text)))
}
