package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitclash/fitclash/internal/cache"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/repository"
)

func setupActivity(t *testing.T) (ActivityService, LeaderboardService) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	log := logger.Default("test")

	detailRepo := repository.NewDetailRepository(client, log, 0, 0)
	scoreRepo := repository.NewScoreRepository(client, log)
	engine := NewLeaderboardService(scoreRepo, detailRepo, newFakeNotifier(), log)

	return NewActivityService(detailRepo, log), engine
}

func TestIngest_Accumulates(t *testing.T) {
	activity, _ := setupActivity(t)
	ctx := context.Background()

	require.Nil(t, activity.Ingest(ctx, &SyncRequest{
		CompetitionID: "comp-1",
		ParticipantID: "alice",
		Steps:         100,
	}))
	require.Nil(t, activity.Ingest(ctx, &SyncRequest{
		CompetitionID: "comp-1",
		ParticipantID: "alice",
		Steps:         50,
	}))

	totals, err := activity.GetTotals(ctx, "comp-1", "alice")
	require.Nil(t, err)

	// Regression guard: a second sync adds, it must not overwrite.
	assert.Equal(t, int64(150), totals.Steps)
}

func TestIngest_StoresDailyRecord(t *testing.T) {
	activity, _ := setupActivity(t)
	ctx := context.Background()

	date := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	require.Nil(t, activity.Ingest(ctx, &SyncRequest{
		CompetitionID: "comp-1",
		ParticipantID: "alice",
		Steps:         7000,
		Source:        "garmin",
		Date:          date,
	}))

	record, found, err := activity.GetDailyRecord(ctx, "comp-1", "alice", date)
	require.Nil(t, err)
	require.True(t, found)
	assert.Equal(t, int64(7000), record.Steps)
	assert.Equal(t, "garmin", record.Source)
}

func TestIngestAndSubmitScore_DualSemantics(t *testing.T) {
	activity, engine := setupActivity(t)
	ctx := context.Background()

	// Two syncs accumulate.
	require.Nil(t, activity.Ingest(ctx, &SyncRequest{CompetitionID: "comp-1", ParticipantID: "alice", Steps: 100}))
	require.Nil(t, activity.Ingest(ctx, &SyncRequest{CompetitionID: "comp-1", ParticipantID: "alice", Steps: 50}))

	// Two submissions overwrite.
	_, err := engine.SubmitScore(ctx, "comp-1", "alice", "Alice", 100, 0, 0)
	require.Nil(t, err)
	_, err = engine.SubmitScore(ctx, "comp-1", "alice", "Alice", 50, 0, 0)
	require.Nil(t, err)

	totals, appErr := activity.GetTotals(ctx, "comp-1", "alice")
	require.Nil(t, appErr)
	assert.Equal(t, int64(150), totals.Steps)

	view, appErr := engine.GetLeaderboard(ctx, "comp-1", 10)
	require.Nil(t, appErr)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, int64(50), view.Entries[0].Score)
	assert.Equal(t, int64(50), view.Entries[0].Steps)
}
