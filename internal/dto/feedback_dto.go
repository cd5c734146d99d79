package dto

import (
	"time"

	"github.com/1234-ad/auto-feedback-generator/internal/rubric"
)

// FeedbackRequest is the inbound payload for feedback generation.
type FeedbackRequest struct {
	StudentName     string        `json:"student_name" validate:"required,notblank,max=100,person_name"`
	AssignmentTitle string        `json:"assignment_title" validate:"omitempty,max=200"`
	Subject         string        `json:"subject" validate:"omitempty,oneof=Mathematics Science English History Art 'Physical Education' General"`
	FeedbackType    string        `json:"feedback_type" validate:"omitempty,oneof=constructive encouraging detailed brief"`
	RubricData      rubric.Rubric `json:"rubric_data"`
}

// FeedbackMetadata echoes the request identity alongside generation details.
type FeedbackMetadata struct {
	StudentName     string    `json:"student_name"`
	AssignmentTitle string    `json:"assignment_title"`
	GeneratedAt     time.Time `json:"generated_at"`
	FeedbackType    string    `json:"feedback_type"`
	Subject         string    `json:"subject"`
}

// FeedbackResponse is the success payload for feedback generation.
type FeedbackResponse struct {
	Success       bool             `json:"success"`
	Feedback      string           `json:"feedback"`
	RubricSummary rubric.Summary   `json:"rubric_summary"`
	Metadata      FeedbackMetadata `json:"metadata"`
}

// TemplateCatalogResponse lists the feedback styles and subjects the composer
// supports plus a sample rubric payload.
type TemplateCatalogResponse struct {
	FeedbackTypes []string      `json:"feedback_types"`
	Subjects      []string      `json:"subjects"`
	SampleRubric  rubric.Rubric `json:"sample_rubric"`
}

// FeedbackHistoryEntry is one previously generated feedback record.
type FeedbackHistoryEntry struct {
	ID              string         `json:"id"`
	StudentName     string         `json:"student_name"`
	AssignmentTitle string         `json:"assignment_title"`
	Subject         string         `json:"subject"`
	FeedbackType    string         `json:"feedback_type"`
	Feedback        string         `json:"feedback"`
	RubricSummary   rubric.Summary `json:"rubric_summary"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// FeedbackHistoryResponse wraps the recent feedback records, newest first.
type FeedbackHistoryResponse struct {
	History []FeedbackHistoryEntry `json:"history"`
	Count   int                    `json:"count"`
}
