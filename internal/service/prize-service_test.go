package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/cache"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/models"
	"github.com/fitclash/fitclash/internal/repository"
)

type fakePrizeStore struct {
	mu       sync.Mutex
	sets     map[string][]models.Prize
	replaces int
}

func newFakePrizeStore() *fakePrizeStore {
	return &fakePrizeStore{sets: make(map[string][]models.Prize)}
}

func (f *fakePrizeStore) ReplaceForCompetition(ctx context.Context, competitionID string, prizes []models.Prize) *apperrors.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaces++
	f.sets[competitionID] = append([]models.Prize(nil), prizes...)
	return nil
}

func (f *fakePrizeStore) GetByCompetition(ctx context.Context, competitionID string) ([]models.Prize, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Prize(nil), f.sets[competitionID]...), nil
}

func (f *fakePrizeStore) MarkDistributed(ctx context.Context, competitionID string, rank int) *apperrors.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.sets[competitionID] {
		if f.sets[competitionID][i].Rank == rank {
			f.sets[competitionID][i].Status = models.PrizeStatusDistributed
			return nil
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "prize not found")
}

func setupPrizeService(t *testing.T) (PrizeService, LeaderboardService, *fakePrizeStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	log := logger.Default("test")

	scoreRepo := repository.NewScoreRepository(client, log)
	detailRepo := repository.NewDetailRepository(client, log, 0, 0)
	engine := NewLeaderboardService(scoreRepo, detailRepo, newFakeNotifier(), log)

	store := newFakePrizeStore()
	return NewPrizeService(engine, store, log, nil, 0), engine, store
}

func TestCalculate_EmptyCompetition(t *testing.T) {
	prizes, _, _ := setupPrizeService(t)

	_, err := prizes.Calculate(context.Background(), "nobody-here", 1000)
	require.NotNil(t, err)
	assert.Equal(t, apperrors.CodeEmptyCompetition, err.Code)
}

func TestCalculate_SingleParticipant(t *testing.T) {
	prizes, engine, _ := setupPrizeService(t)
	ctx := context.Background()

	_, err := engine.SubmitScore(ctx, "comp-1", "alice", "Alice", 9000, 0, 0)
	require.Nil(t, err)

	result, appErr := prizes.Calculate(ctx, "comp-1", 1000)
	require.Nil(t, appErr)
	require.Len(t, result, 1)

	assert.Equal(t, "alice", result[0].ParticipantID)
	assert.Equal(t, 1, result[0].Rank)
	assert.InDelta(t, 600.0, result[0].Amount, 1e-9)
	assert.Equal(t, models.PrizeStatusPending, result[0].Status)
	assert.NotEmpty(t, result[0].ID)
}

func TestCalculate_ThreeParticipantsSplit(t *testing.T) {
	prizes, engine, store := setupPrizeService(t)
	ctx := context.Background()

	_, err := engine.SubmitScore(ctx, "comp-1", "A", "", 500, 0, 0)
	require.Nil(t, err)
	_, err = engine.SubmitScore(ctx, "comp-1", "B", "", 900, 0, 0)
	require.Nil(t, err)
	_, err = engine.SubmitScore(ctx, "comp-1", "C", "", 900, 0, 0)
	require.Nil(t, err)

	result, appErr := prizes.Calculate(ctx, "comp-1", 1000)
	require.Nil(t, appErr)
	require.Len(t, result, 3)

	// Winners follow the leaderboard tie-break: B before C at 900.
	assert.Equal(t, "B", result[0].ParticipantID)
	assert.Equal(t, "C", result[1].ParticipantID)
	assert.Equal(t, "A", result[2].ParticipantID)

	assert.InDelta(t, 600.0, result[0].Amount, 1e-9)
	assert.InDelta(t, 300.0, result[1].Amount, 1e-9)
	assert.InDelta(t, 100.0, result[2].Amount, 1e-9)

	stored, appErr := prizes.GetPrizes(ctx, "comp-1")
	require.Nil(t, appErr)
	assert.Len(t, stored, 3)
	assert.Equal(t, 1, store.replaces)
}

func TestCalculate_FourthPlaceGetsNothing(t *testing.T) {
	prizes, engine, _ := setupPrizeService(t)
	ctx := context.Background()

	for _, sub := range []struct {
		participant string
		steps       int64
	}{{"a", 400}, {"b", 300}, {"c", 200}, {"d", 100}} {
		_, err := engine.SubmitScore(ctx, "comp-1", sub.participant, "", sub.steps, 0, 0)
		require.Nil(t, err)
	}

	result, appErr := prizes.Calculate(ctx, "comp-1", 1000)
	require.Nil(t, appErr)
	require.Len(t, result, 3)
	for _, prize := range result {
		assert.NotEqual(t, "d", prize.ParticipantID)
	}
}

func TestCalculate_RecalculationReplaces(t *testing.T) {
	prizes, engine, store := setupPrizeService(t)
	ctx := context.Background()

	_, err := engine.SubmitScore(ctx, "comp-1", "alice", "", 100, 0, 0)
	require.Nil(t, err)

	_, appErr := prizes.Calculate(ctx, "comp-1", 1000)
	require.Nil(t, appErr)

	_, err = engine.SubmitScore(ctx, "comp-1", "bob", "", 200, 0, 0)
	require.Nil(t, err)

	result, appErr := prizes.Calculate(ctx, "comp-1", 500)
	require.Nil(t, appErr)
	require.Len(t, result, 2)
	assert.Equal(t, 2, store.replaces)

	stored, appErr := prizes.GetPrizes(ctx, "comp-1")
	require.Nil(t, appErr)
	require.Len(t, stored, 2)
	assert.Equal(t, "bob", stored[0].ParticipantID)
	assert.InDelta(t, 300.0, stored[0].Amount, 1e-9)
}

func TestCalculate_NegativePool(t *testing.T) {
	prizes, _, _ := setupPrizeService(t)

	_, err := prizes.Calculate(context.Background(), "comp-1", -5)
	require.NotNil(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, err.Code)
}

func TestMarkDistributed(t *testing.T) {
	prizes, engine, _ := setupPrizeService(t)
	ctx := context.Background()

	_, err := engine.SubmitScore(ctx, "comp-1", "alice", "", 100, 0, 0)
	require.Nil(t, err)
	_, appErr := prizes.Calculate(ctx, "comp-1", 1000)
	require.Nil(t, appErr)

	require.Nil(t, prizes.MarkDistributed(ctx, "comp-1", 1))

	stored, appErr := prizes.GetPrizes(ctx, "comp-1")
	require.Nil(t, appErr)
	require.Len(t, stored, 1)
	assert.Equal(t, models.PrizeStatusDistributed, stored[0].Status)

	rankErr := prizes.MarkDistributed(ctx, "comp-1", 9)
	require.NotNil(t, rankErr)
	assert.Equal(t, apperrors.CodeInvalidInput, rankErr.Code)
}
