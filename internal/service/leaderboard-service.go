package service

import (
	"context"
	"time"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/models"
	"github.com/fitclash/fitclash/internal/repository"
)

const (
	DefaultWindow = 100
	MaxWindow     = 1000
)

// ChangeNotifier broadcasts a score change to live viewers. Delivery is
// best-effort and never gates the write path.
type ChangeNotifier interface {
	PublishScoreUpdate(competitionID, participantID string, score int64) *apperrors.AppError
}

// SubmitResult reports each write sub-step separately. There is no
// cross-store transaction: a failed detail write does not roll back the
// score, and callers need to know which half landed.
type SubmitResult struct {
	Score          int64
	ScoreRecorded  bool
	DetailRecorded bool
}

type LeaderboardService interface {
	// Write Operations
	SubmitScore(ctx context.Context, competitionID, participantID, userName string, steps int64, distance, calories float64) (*SubmitResult, *apperrors.AppError)

	// Read Operations
	GetLeaderboard(ctx context.Context, competitionID string, limit int) (*models.Leaderboard, *apperrors.AppError)
	GetRank(ctx context.Context, competitionID, participantID string) (int64, bool, *apperrors.AppError)
}

type leaderboardService struct {
	scoreRepo     repository.ScoreRepository
	detailRepo    repository.DetailRepository
	notifier      ChangeNotifier
	logger        *logger.Logger
	defaultWindow int
	maxWindow     int
}

func NewLeaderboardService(
	scoreRepo repository.ScoreRepository,
	detailRepo repository.DetailRepository,
	notifier ChangeNotifier,
	log *logger.Logger,
) LeaderboardService {
	return &leaderboardService{
		scoreRepo:     scoreRepo,
		detailRepo:    detailRepo,
		notifier:      notifier,
		logger:        log.With("component", "LeaderboardService"),
		defaultWindow: DefaultWindow,
		maxWindow:     MaxWindow,
	}
}

// Write Operations

// SubmitScore ranks by step count. Distance and calories are stored for
// display but never enter the score.
func (s *leaderboardService) SubmitScore(
	ctx context.Context,
	competitionID, participantID, userName string,
	steps int64,
	distance, calories float64,
) (*SubmitResult, *apperrors.AppError) {
	score := steps
	result := &SubmitResult{Score: score}

	scoreErr := s.scoreRepo.Update(ctx, competitionID, participantID, score)
	result.ScoreRecorded = scoreErr == nil

	// The detail write is attempted even when the score write failed, so a
	// flaky sorted-set backend doesn't starve the display snapshot.
	now := time.Now().UTC()
	detailErr := s.detailRepo.PutDetail(ctx, &models.ParticipantDetail{
		ParticipantID: participantID,
		CompetitionID: competitionID,
		UserName:      userName,
		Steps:         steps,
		Distance:      distance,
		Calories:      calories,
		LastSyncedAt:  now,
		UpdatedAt:     now,
	})
	result.DetailRecorded = detailErr == nil

	if scoreErr != nil {
		s.logger.Error("Score not recorded",
			"error", scoreErr,
			"competition_id", competitionID,
			"participant_id", participantID,
		)
		return result, apperrors.Wrap(scoreErr, apperrors.CodeRedisOperationError, "score not recorded")
	}
	if detailErr != nil {
		s.logger.Error("Detail not recorded",
			"error", detailErr,
			"competition_id", competitionID,
			"participant_id", participantID,
		)
		return result, apperrors.Wrap(detailErr, apperrors.CodeRedisOperationError, "detail not recorded")
	}

	// Fire-and-forget: the caller's ack never waits on the broadcast and a
	// broadcast failure is logged inside the notifier.
	go func() {
		_ = s.notifier.PublishScoreUpdate(competitionID, participantID, score)
	}()

	return result, nil
}

// Read Operations

// GetLeaderboard assembles a ranked snapshot. A missing or unreadable detail
// record degrades that single entry to an "Unknown" placeholder; it never
// fails the whole query.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, competitionID string, limit int) (*models.Leaderboard, *apperrors.AppError) {
	if limit <= 0 {
		limit = s.defaultWindow
	}
	if limit > s.maxWindow {
		limit = s.maxWindow
	}

	scores, err := s.scoreRepo.TopRange(ctx, competitionID, 0, limit)
	if err != nil {
		s.logger.Error("Failed to get leaderboard window",
			"error", err,
			"competition_id", competitionID,
		)
		return nil, err
	}

	entries := make([]models.RankedEntry, 0, len(scores))
	for i, scoreEntry := range scores {
		detail, found, detailErr := s.detailRepo.GetDetail(ctx, competitionID, scoreEntry.ParticipantID)
		if detailErr != nil {
			s.logger.Warn("Detail enrichment failed, using placeholder",
				"error", detailErr,
				"competition_id", competitionID,
				"participant_id", scoreEntry.ParticipantID,
			)
			found = false
		}
		if !found {
			detail = models.PlaceholderDetail(competitionID, scoreEntry.ParticipantID)
		}

		entries = append(entries, models.RankedEntry{
			ParticipantID: scoreEntry.ParticipantID,
			UserName:      detail.UserName,
			CompetitionID: competitionID,
			Score:         scoreEntry.Score,
			Rank:          i + 1,
			Steps:         detail.Steps,
			Distance:      detail.Distance,
			Calories:      detail.Calories,
			LastSyncedAt:  detail.LastSyncedAt,
		})
	}

	totalCount, err := s.scoreRepo.Cardinality(ctx, competitionID)
	if err != nil {
		s.logger.Warn("Failed to get cardinality, falling back to window size",
			"error", err,
			"competition_id", competitionID,
		)
		totalCount = int64(len(entries))
	}

	return &models.Leaderboard{
		CompetitionID: competitionID,
		Entries:       entries,
		TotalCount:    totalCount,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

func (s *leaderboardService) GetRank(ctx context.Context, competitionID, participantID string) (int64, bool, *apperrors.AppError) {
	rank, found, err := s.scoreRepo.Rank(ctx, competitionID, participantID)
	if err != nil {
		s.logger.Error("Failed to get rank",
			"error", err,
			"competition_id", competitionID,
			"participant_id", participantID,
		)
		return 0, false, err
	}

	return rank, found, nil
}
