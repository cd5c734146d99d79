package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/1234-ad/auto-feedback-generator/internal/dto"
)

const defaultKey = "feedback:history"

// ErrUnavailable indicates no history backend is configured.
var ErrUnavailable = errors.New("feedback history unavailable")

// Store keeps the most recent feedback generations in a capped Redis list,
// newest first.
type Store struct {
	client *redis.Client
	key    string
	limit  int64
	logger zerolog.Logger
}

// NewStore builds a history store on top of the supplied Redis client. The
// client may be nil, in which case every operation reports ErrUnavailable.
func NewStore(client *redis.Client, limit int, logger zerolog.Logger) *Store {
	if limit <= 0 {
		limit = 50
	}
	return &Store{
		client: client,
		key:    defaultKey,
		limit:  int64(limit),
		logger: logger.With().Str("component", "history_store").Logger(),
	}
}

// Record prepends an entry and trims the list back to the configured limit.
func (s *Store) Record(ctx context.Context, entry dto.FeedbackHistoryEntry) error {
	if s == nil || s.client == nil {
		return ErrUnavailable
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	if err := s.client.LPush(ctx, s.key, payload).Err(); err != nil {
		return fmt.Errorf("record history entry: %w", err)
	}
	if err := s.client.LTrim(ctx, s.key, 0, s.limit-1).Err(); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// Recent returns up to the configured limit of entries, newest first.
// Entries that no longer decode are skipped rather than failing the read.
func (s *Store) Recent(ctx context.Context) ([]dto.FeedbackHistoryEntry, error) {
	if s == nil || s.client == nil {
		return nil, ErrUnavailable
	}

	raw, err := s.client.LRange(ctx, s.key, 0, s.limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	entries := make([]dto.FeedbackHistoryEntry, 0, len(raw))
	for _, item := range raw {
		var entry dto.FeedbackHistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			s.logger.Warn().Err(err).Msg("skipping malformed history entry")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
