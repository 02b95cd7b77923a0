package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitclash/fitclash/internal/cache"
	"github.com/fitclash/fitclash/internal/logger"
)

func setupTestRedis(t *testing.T) *cache.RedisClient {
	t.Helper()

	mr := miniredis.RunT(t)

	return cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestScoreRepository_UpdateOverwrites(t *testing.T) {
	repo := NewScoreRepository(setupTestRedis(t), logger.Default("test"))
	ctx := context.Background()

	require.Nil(t, repo.Update(ctx, "comp-1", "alice", 1000))
	require.Nil(t, repo.Update(ctx, "comp-1", "alice", 500))

	count, err := repo.Cardinality(ctx, "comp-1")
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)

	entries, err := repo.TopRange(ctx, "comp-1", 0, 10)
	require.Nil(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(500), entries[0].Score)
}

func TestScoreRepository_UpdateIdempotent(t *testing.T) {
	repo := NewScoreRepository(setupTestRedis(t), logger.Default("test"))
	ctx := context.Background()

	require.Nil(t, repo.Update(ctx, "comp-1", "alice", 1000))
	require.Nil(t, repo.Update(ctx, "comp-1", "bob", 2000))

	rankBefore, found, err := repo.Rank(ctx, "comp-1", "alice")
	require.Nil(t, err)
	require.True(t, found)

	require.Nil(t, repo.Update(ctx, "comp-1", "alice", 1000))

	rankAfter, found, err := repo.Rank(ctx, "comp-1", "alice")
	require.Nil(t, err)
	require.True(t, found)
	assert.Equal(t, rankBefore, rankAfter)

	count, err := repo.Cardinality(ctx, "comp-1")
	require.Nil(t, err)
	assert.Equal(t, int64(2), count)
}

func TestScoreRepository_TopRangeTieBreak(t *testing.T) {
	repo := NewScoreRepository(setupTestRedis(t), logger.Default("test"))
	ctx := context.Background()

	require.Nil(t, repo.Update(ctx, "comp-1", "A", 500))
	require.Nil(t, repo.Update(ctx, "comp-1", "B", 900))
	require.Nil(t, repo.Update(ctx, "comp-1", "C", 900))

	entries, err := repo.TopRange(ctx, "comp-1", 0, 10)
	require.Nil(t, err)
	require.Len(t, entries, 3)

	// Equal scores order by participant id ascending.
	assert.Equal(t, "B", entries[0].ParticipantID)
	assert.Equal(t, int64(900), entries[0].Score)
	assert.Equal(t, "C", entries[1].ParticipantID)
	assert.Equal(t, int64(900), entries[1].Score)
	assert.Equal(t, "A", entries[2].ParticipantID)
	assert.Equal(t, int64(500), entries[2].Score)
}

func TestScoreRepository_RankMatchesTopRange(t *testing.T) {
	repo := NewScoreRepository(setupTestRedis(t), logger.Default("test"))
	ctx := context.Background()

	require.Nil(t, repo.Update(ctx, "comp-1", "A", 500))
	require.Nil(t, repo.Update(ctx, "comp-1", "B", 900))
	require.Nil(t, repo.Update(ctx, "comp-1", "C", 900))

	expected := map[string]int64{"B": 1, "C": 2, "A": 3}
	for participant, want := range expected {
		rank, found, err := repo.Rank(ctx, "comp-1", participant)
		require.Nil(t, err)
		require.True(t, found, participant)
		assert.Equal(t, want, rank, participant)
	}
}

func TestScoreRepository_TopRangeWindow(t *testing.T) {
	repo := NewScoreRepository(setupTestRedis(t), logger.Default("test"))
	ctx := context.Background()

	require.Nil(t, repo.Update(ctx, "comp-1", "A", 100))
	require.Nil(t, repo.Update(ctx, "comp-1", "B", 200))
	require.Nil(t, repo.Update(ctx, "comp-1", "C", 300))
	require.Nil(t, repo.Update(ctx, "comp-1", "D", 400))

	entries, err := repo.TopRange(ctx, "comp-1", 0, 2)
	require.Nil(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "D", entries[0].ParticipantID)
	assert.Equal(t, "C", entries[1].ParticipantID)

	entries, err = repo.TopRange(ctx, "comp-1", 2, 2)
	require.Nil(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "B", entries[0].ParticipantID)
	assert.Equal(t, "A", entries[1].ParticipantID)

	entries, err = repo.TopRange(ctx, "comp-1", 10, 2)
	require.Nil(t, err)
	assert.Empty(t, entries)
}

func TestScoreRepository_TopRangeTieAcrossWindowBoundary(t *testing.T) {
	repo := NewScoreRepository(setupTestRedis(t), logger.Default("test"))
	ctx := context.Background()

	// All tied: the id tie-break decides the whole order, including members
	// Redis would leave outside the fetched window.
	require.Nil(t, repo.Update(ctx, "comp-1", "a", 900))
	require.Nil(t, repo.Update(ctx, "comp-1", "b", 900))
	require.Nil(t, repo.Update(ctx, "comp-1", "c", 900))

	entries, err := repo.TopRange(ctx, "comp-1", 0, 2)
	require.Nil(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ParticipantID)
	assert.Equal(t, "b", entries[1].ParticipantID)
}

func TestScoreRepository_EmptyCompetition(t *testing.T) {
	repo := NewScoreRepository(setupTestRedis(t), logger.Default("test"))
	ctx := context.Background()

	entries, err := repo.TopRange(ctx, "nobody-here", 0, 10)
	require.Nil(t, err)
	assert.Empty(t, entries)

	count, err := repo.Cardinality(ctx, "nobody-here")
	require.Nil(t, err)
	assert.Equal(t, int64(0), count)

	_, found, err := repo.Rank(ctx, "nobody-here", "alice")
	require.Nil(t, err)
	assert.False(t, found)
}

func TestScoreRepository_IndependentCompetitions(t *testing.T) {
	repo := NewScoreRepository(setupTestRedis(t), logger.Default("test"))
	ctx := context.Background()

	require.Nil(t, repo.Update(ctx, "comp-1", "alice", 100))
	require.Nil(t, repo.Update(ctx, "comp-2", "alice", 900))

	rank1, found, err := repo.Rank(ctx, "comp-1", "alice")
	require.Nil(t, err)
	require.True(t, found)
	assert.Equal(t, int64(1), rank1)

	count, err := repo.Cardinality(ctx, "comp-2")
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)
}
