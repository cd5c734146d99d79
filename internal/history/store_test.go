package history

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/1234-ad/auto-feedback-generator/internal/dto"
	"github.com/1234-ad/auto-feedback-generator/internal/rubric"
)

func newTestStore(t *testing.T, limit int) (*Store, *redis.Client) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, limit, zerolog.Nop()), client
}

func historyEntry(id, student string) dto.FeedbackHistoryEntry {
	return dto.FeedbackHistoryEntry{
		ID:              id,
		StudentName:     student,
		AssignmentTitle: "Essay Draft",
		Subject:         "English",
		FeedbackType:    "constructive",
		Feedback:        "Solid structure with room to tighten the conclusion.",
		RubricSummary: rubric.Summary{
			TotalScore:        16,
			TotalMax:          20,
			OverallPercentage: 80,
			CriteriaCount:     2,
			PerformanceTier:   "Good",
		},
		GeneratedAt: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestStoreRecordAndRecent(t *testing.T) {
	store, _ := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, historyEntry("a", "Ana")))
	require.NoError(t, store.Record(ctx, historyEntry("b", "Ben")))
	require.NoError(t, store.Record(ctx, historyEntry("c", "Cam")))

	entries, err := store.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "c", entries[0].ID)
	require.Equal(t, "b", entries[1].ID)
	require.Equal(t, "a", entries[2].ID)

	require.Equal(t, "Cam", entries[0].StudentName)
	require.Equal(t, "Good", entries[0].RubricSummary.PerformanceTier)
	require.Equal(t, time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC), entries[0].GeneratedAt)
}

func TestStoreTrimsToLimit(t *testing.T) {
	store, _ := newTestStore(t, 2)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, historyEntry("a", "Ana")))
	require.NoError(t, store.Record(ctx, historyEntry("b", "Ben")))
	require.NoError(t, store.Record(ctx, historyEntry("c", "Cam")))

	entries, err := store.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "c", entries[0].ID)
	require.Equal(t, "b", entries[1].ID)
}

func TestStoreSkipsMalformedEntries(t *testing.T) {
	store, client := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, historyEntry("a", "Ana")))
	require.NoError(t, client.LPush(ctx, defaultKey, "{not json").Err())

	entries, err := store.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a", entries[0].ID)
}

func TestStoreWithoutClient(t *testing.T) {
	store := NewStore(nil, 10, zerolog.Nop())
	ctx := context.Background()

	require.ErrorIs(t, store.Record(ctx, historyEntry("a", "Ana")), ErrUnavailable)

	_, err := store.Recent(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
}
