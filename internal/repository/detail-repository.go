package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/cache"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/models"
)

const (
	DefaultDetailTTL   = 24 * time.Hour
	DefaultActivityTTL = 30 * 24 * time.Hour
)

// Hash fields of the activity totals record.
const (
	fieldSteps         = "steps"
	fieldDistance      = "distance"
	fieldCalories      = "calories"
	fieldActiveMinutes = "active_minutes"
)

type DetailRepository interface {
	// Display snapshot (overwrite semantics)
	PutDetail(ctx context.Context, detail *models.ParticipantDetail) *apperrors.AppError
	GetDetail(ctx context.Context, competitionID, participantID string) (*models.ParticipantDetail, bool, *apperrors.AppError)

	// Activity totals (additive semantics)
	AddActivity(ctx context.Context, totals *models.ActivityTotals) *apperrors.AppError
	GetActivityTotals(ctx context.Context, competitionID, participantID string) (*models.ActivityTotals, *apperrors.AppError)

	// Raw per-day sync records
	PutActivityRecord(ctx context.Context, record *models.ActivityRecord) *apperrors.AppError
	GetActivityRecord(ctx context.Context, competitionID, participantID string, date time.Time) (*models.ActivityRecord, bool, *apperrors.AppError)
}

type detailRepo struct {
	client      *redis.Client
	logger      *logger.Logger
	detailTTL   time.Duration
	activityTTL time.Duration
}

func NewDetailRepository(redisClient *cache.RedisClient, log *logger.Logger, detailTTL, activityTTL time.Duration) DetailRepository {
	if detailTTL <= 0 {
		detailTTL = DefaultDetailTTL
	}
	if activityTTL <= 0 {
		activityTTL = DefaultActivityTTL
	}
	return &detailRepo{
		client:      redisClient.GetClient(),
		logger:      log.With("component", "DetailRepository"),
		detailTTL:   detailTTL,
		activityTTL: activityTTL,
	}
}

// Key Generation (Private Helpers)

func detailKey(competitionID, participantID string) string {
	return fmt.Sprintf("user_details:%s:%s", competitionID, participantID)
}

func activityTotalsKey(competitionID, participantID string) string {
	return fmt.Sprintf("activity_totals:%s:%s", competitionID, participantID)
}

func activityRecordKey(competitionID, participantID string, date time.Time) string {
	return fmt.Sprintf("fitness:%s:%s:%s", participantID, competitionID, date.Format("2006-01-02"))
}

// Display snapshot

func (r *detailRepo) PutDetail(ctx context.Context, detail *models.ParticipantDetail) *apperrors.AppError {
	data, err := json.Marshal(detail)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeObjectMarshalError, "failed to marshal participant detail")
	}

	key := detailKey(detail.CompetitionID, detail.ParticipantID)
	if err := r.client.Set(ctx, key, data, r.detailTTL).Err(); err != nil {
		r.logger.Error("Failed to store participant detail",
			"error", err,
			"competition_id", detail.CompetitionID,
			"participant_id", detail.ParticipantID,
		)
		return apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to store participant detail")
	}

	return nil
}

// GetDetail returns (nil, false, nil) on a plain miss so callers can
// distinguish "no snapshot yet" from a broken store.
func (r *detailRepo) GetDetail(ctx context.Context, competitionID, participantID string) (*models.ParticipantDetail, bool, *apperrors.AppError) {
	data, err := r.client.Get(ctx, detailKey(competitionID, participantID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		r.logger.Error("Failed to read participant detail",
			"error", err,
			"competition_id", competitionID,
			"participant_id", participantID,
		)
		return nil, false, apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to read participant detail")
	}

	var detail models.ParticipantDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, false, apperrors.Wrap(err, apperrors.CodeObjectUnmarshalError, "failed to unmarshal participant detail")
	}

	return &detail, true, nil
}

// Activity totals

// AddActivity accumulates metrics with hash counters so concurrent syncs
// never lose increments to read-modify-write races.
func (r *detailRepo) AddActivity(ctx context.Context, totals *models.ActivityTotals) *apperrors.AppError {
	key := activityTotalsKey(totals.CompetitionID, totals.ParticipantID)

	pipe := r.client.Pipeline()
	pipe.HIncrBy(ctx, key, fieldSteps, totals.Steps)
	pipe.HIncrByFloat(ctx, key, fieldDistance, totals.Distance)
	pipe.HIncrByFloat(ctx, key, fieldCalories, totals.Calories)
	pipe.HIncrBy(ctx, key, fieldActiveMinutes, totals.ActiveMinutes)
	pipe.Expire(ctx, key, r.activityTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to accumulate activity totals",
			"error", err,
			"competition_id", totals.CompetitionID,
			"participant_id", totals.ParticipantID,
		)
		return apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to accumulate activity totals")
	}

	return nil
}

// GetActivityTotals returns zero-valued totals when nothing has been synced.
func (r *detailRepo) GetActivityTotals(ctx context.Context, competitionID, participantID string) (*models.ActivityTotals, *apperrors.AppError) {
	fields, err := r.client.HGetAll(ctx, activityTotalsKey(competitionID, participantID)).Result()
	if err != nil {
		r.logger.Error("Failed to read activity totals",
			"error", err,
			"competition_id", competitionID,
			"participant_id", participantID,
		)
		return nil, apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to read activity totals")
	}

	totals := &models.ActivityTotals{
		CompetitionID: competitionID,
		ParticipantID: participantID,
	}
	totals.Steps = parseIntField(fields, fieldSteps)
	totals.Distance = parseFloatField(fields, fieldDistance)
	totals.Calories = parseFloatField(fields, fieldCalories)
	totals.ActiveMinutes = parseIntField(fields, fieldActiveMinutes)

	return totals, nil
}

// Raw sync records

func (r *detailRepo) PutActivityRecord(ctx context.Context, record *models.ActivityRecord) *apperrors.AppError {
	data, err := json.Marshal(record)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeObjectMarshalError, "failed to marshal activity record")
	}

	key := activityRecordKey(record.CompetitionID, record.ParticipantID, record.Date)
	if err := r.client.Set(ctx, key, data, r.activityTTL).Err(); err != nil {
		r.logger.Error("Failed to store activity record",
			"error", err,
			"competition_id", record.CompetitionID,
			"participant_id", record.ParticipantID,
		)
		return apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to store activity record")
	}

	return nil
}

func (r *detailRepo) GetActivityRecord(ctx context.Context, competitionID, participantID string, date time.Time) (*models.ActivityRecord, bool, *apperrors.AppError) {
	data, err := r.client.Get(ctx, activityRecordKey(competitionID, participantID, date)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to read activity record")
	}

	var record models.ActivityRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false, apperrors.Wrap(err, apperrors.CodeObjectUnmarshalError, "failed to unmarshal activity record")
	}

	return &record, true, nil
}

func parseIntField(fields map[string]string, name string) int64 {
	v, err := strconv.ParseInt(fields[name], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloatField(fields map[string]string, name string) float64 {
	v, err := strconv.ParseFloat(fields[name], 64)
	if err != nil {
		return 0
	}
	return v
}
