package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/1234-ad/auto-feedback-generator/internal/dto"
)

// SubjectGenerated carries one event per successfully generated feedback.
const SubjectGenerated = "feedback.generated"

// GeneratedEvent is the payload fanned out after each successful generation.
type GeneratedEvent struct {
	Source string                   `json:"source"`
	Entry  dto.FeedbackHistoryEntry `json:"entry"`
	SentAt time.Time                `json:"sent_at"`
}

// Publisher fans out feedback lifecycle events over NATS.
type Publisher struct {
	conn    *nats.Conn
	subject string
	nodeID  string
	logger  zerolog.Logger
}

// NewPublisher builds an event publisher. The connection may be nil, in
// which case publishing is a no-op.
func NewPublisher(conn *nats.Conn, logger zerolog.Logger) *Publisher {
	return &Publisher{
		conn:    conn,
		subject: SubjectGenerated,
		nodeID:  uuid.NewString(),
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

// Generated publishes a feedback.generated event. Failures are logged and
// swallowed so fanout never fails the request that produced the feedback.
func (p *Publisher) Generated(entry dto.FeedbackHistoryEntry) {
	if p == nil || p.conn == nil {
		return
	}

	payload, err := json.Marshal(GeneratedEvent{
		Source: p.nodeID,
		Entry:  entry,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		p.logger.Error().Err(err).Msg("encode feedback event")
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Msg("failed to publish feedback event")
	}
}
