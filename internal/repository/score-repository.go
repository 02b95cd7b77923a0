package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/cache"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/models"
)

type ScoreRepository interface {
	// Write Operations
	Update(ctx context.Context, competitionID, participantID string, score int64) *apperrors.AppError

	// Read Operations
	TopRange(ctx context.Context, competitionID string, offset, count int) ([]models.ScoreEntry, *apperrors.AppError)
	Rank(ctx context.Context, competitionID, participantID string) (int64, bool, *apperrors.AppError)
	Cardinality(ctx context.Context, competitionID string) (int64, *apperrors.AppError)
}

type scoreRepo struct {
	client *redis.Client
	logger *logger.Logger
}

func NewScoreRepository(redisClient *cache.RedisClient, log *logger.Logger) ScoreRepository {
	return &scoreRepo{
		client: redisClient.GetClient(),
		logger: log.With("component", "ScoreRepository"),
	}
}

// Key Generation (Private Helpers)

func leaderboardKey(competitionID string) string {
	return fmt.Sprintf("leaderboard:%s", competitionID)
}

// Write Operations

// Update overwrites the participant's score. ZADD keys by member, so a
// re-submission can never leave two entries for the same participant.
func (r *scoreRepo) Update(ctx context.Context, competitionID, participantID string, score int64) *apperrors.AppError {
	member := redis.Z{
		Score:  float64(score),
		Member: participantID,
	}

	if err := r.client.ZAdd(ctx, leaderboardKey(competitionID), member).Err(); err != nil {
		r.logger.Error("Failed to update score",
			"error", err,
			"competition_id", competitionID,
			"participant_id", participantID,
		)
		return apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to update score")
	}

	return nil
}

// Read Operations

// TopRange returns the window [offset, offset+count) in descending score
// order with ties broken by participant id ascending. Redis orders
// equal-score members by member descending under ZREVRANGE, so the canonical
// ordering is applied here before slicing.
func (r *scoreRepo) TopRange(ctx context.Context, competitionID string, offset, count int) ([]models.ScoreEntry, *apperrors.AppError) {
	if count <= 0 {
		return []models.ScoreEntry{}, nil
	}

	key := leaderboardKey(competitionID)
	stop := int64(offset + count - 1)

	window, err := r.client.ZRevRangeWithScores(ctx, key, 0, stop).Result()
	if err != nil {
		r.logger.Error("Failed to get score range",
			"error", err,
			"competition_id", competitionID,
		)
		return nil, apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to get score range")
	}

	if len(window) == 0 {
		return []models.ScoreEntry{}, nil
	}

	// Members beyond the fetched window that tie with its boundary score may
	// sort into the window under the id tie-break, so pull the whole tie
	// group before ordering.
	if len(window) == int(stop)+1 {
		boundary := window[len(window)-1].Score
		ties, err := r.client.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
			Min: formatScore(boundary),
			Max: formatScore(boundary),
		}).Result()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to get tie group")
		}
		window = mergeMembers(window, ties)
	}

	sort.SliceStable(window, func(i, j int) bool {
		if window[i].Score != window[j].Score {
			return window[i].Score > window[j].Score
		}
		return window[i].Member.(string) < window[j].Member.(string)
	})

	if offset >= len(window) {
		return []models.ScoreEntry{}, nil
	}
	end := offset + count
	if end > len(window) {
		end = len(window)
	}

	entries := make([]models.ScoreEntry, 0, end-offset)
	for _, z := range window[offset:end] {
		entries = append(entries, models.ScoreEntry{
			CompetitionID: competitionID,
			ParticipantID: z.Member.(string),
			Score:         int64(z.Score),
		})
	}

	return entries, nil
}

// Rank returns the 1-based rank consistent with TopRange ordering. The
// second return is false when the participant has no score.
func (r *scoreRepo) Rank(ctx context.Context, competitionID, participantID string) (int64, bool, *apperrors.AppError) {
	key := leaderboardKey(competitionID)

	score, err := r.client.ZScore(ctx, key, participantID).Result()
	if err == redis.Nil {
		return 0, false, nil
	} else if err != nil {
		r.logger.Error("Failed to get score",
			"error", err,
			"competition_id", competitionID,
			"participant_id", participantID,
		)
		return 0, false, apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to get score")
	}

	greater, err := r.client.ZCount(ctx, key, "("+formatScore(score), "+inf").Result()
	if err != nil {
		return 0, false, apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to count higher scores")
	}

	// Equal-score members come back in member-ascending order, matching the
	// documented tie-break.
	peers, err := r.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: formatScore(score),
		Max: formatScore(score),
	}).Result()
	if err != nil {
		return 0, false, apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to get tie group")
	}

	rank := greater + 1
	for _, peer := range peers {
		if peer == participantID {
			break
		}
		rank++
	}

	return rank, true, nil
}

func (r *scoreRepo) Cardinality(ctx context.Context, competitionID string) (int64, *apperrors.AppError) {
	count, err := r.client.ZCard(ctx, leaderboardKey(competitionID)).Result()
	if err != nil {
		r.logger.Error("Failed to get cardinality",
			"error", err,
			"competition_id", competitionID,
		)
		return 0, apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to get cardinality")
	}

	return count, nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func mergeMembers(window, ties []redis.Z) []redis.Z {
	seen := make(map[string]bool, len(window))
	for _, z := range window {
		seen[z.Member.(string)] = true
	}
	for _, z := range ties {
		if !seen[z.Member.(string)] {
			window = append(window, z)
		}
	}
	return window
}
