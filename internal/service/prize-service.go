package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/models"
	"github.com/fitclash/fitclash/internal/repository"
)

const DefaultPrizeTTL = 7 * 24 * time.Hour

// DefaultPrizePercentages splits the pool 60/30/10 across ranks 1-3.
var DefaultPrizePercentages = []float64{0.60, 0.30, 0.10}

type PrizeService interface {
	Calculate(ctx context.Context, competitionID string, prizePool float64) ([]models.Prize, *apperrors.AppError)
	GetPrizes(ctx context.Context, competitionID string) ([]models.Prize, *apperrors.AppError)
	MarkDistributed(ctx context.Context, competitionID string, rank int) *apperrors.AppError
}

type prizeService struct {
	leaderboard LeaderboardService
	prizeRepo   repository.PrizeRepository
	logger      *logger.Logger
	percentages []float64
	prizeTTL    time.Duration
}

func NewPrizeService(
	leaderboard LeaderboardService,
	prizeRepo repository.PrizeRepository,
	log *logger.Logger,
	percentages []float64,
	prizeTTL time.Duration,
) PrizeService {
	if len(percentages) == 0 {
		percentages = DefaultPrizePercentages
	}
	if prizeTTL <= 0 {
		prizeTTL = DefaultPrizeTTL
	}
	return &prizeService{
		leaderboard: leaderboard,
		prizeRepo:   prizeRepo,
		logger:      log.With("component", "PrizeService"),
		percentages: percentages,
		prizeTTL:    prizeTTL,
	}
}

// Calculate derives one prize per existing rank 1..3 from the current
// leaderboard snapshot and installs the result as the competition's
// authoritative pending set, replacing any prior calculation.
func (s *prizeService) Calculate(ctx context.Context, competitionID string, prizePool float64) ([]models.Prize, *apperrors.AppError) {
	if prizePool < 0 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "prize pool must not be negative")
	}

	view, err := s.leaderboard.GetLeaderboard(ctx, competitionID, len(s.percentages))
	if err != nil {
		s.logger.Error("Failed to read leaderboard for prize calculation",
			"error", err,
			"competition_id", competitionID,
		)
		return nil, err
	}

	if len(view.Entries) == 0 {
		return nil, apperrors.New(apperrors.CodeEmptyCompetition, "no participants in competition")
	}

	now := time.Now().UTC()
	prizes := make([]models.Prize, 0, len(view.Entries))
	for i, entry := range view.Entries {
		prizes = append(prizes, models.Prize{
			ID:            uuid.NewString(),
			CompetitionID: competitionID,
			ParticipantID: entry.ParticipantID,
			Rank:          i + 1,
			Amount:        prizePool * s.percentages[i],
			Status:        models.PrizeStatusPending,
			CreatedAt:     now,
			ExpiresAt:     now.Add(s.prizeTTL).Unix(),
		})
	}

	if err := s.prizeRepo.ReplaceForCompetition(ctx, competitionID, prizes); err != nil {
		s.logger.Error("Failed to persist prize set",
			"error", err,
			"competition_id", competitionID,
		)
		return nil, err
	}

	s.logger.Info("Prize set calculated",
		"competition_id", competitionID,
		"prize_pool", prizePool,
		"count", len(prizes),
	)

	return prizes, nil
}

func (s *prizeService) GetPrizes(ctx context.Context, competitionID string) ([]models.Prize, *apperrors.AppError) {
	prizes, err := s.prizeRepo.GetByCompetition(ctx, competitionID)
	if err != nil {
		s.logger.Error("Failed to get prizes",
			"error", err,
			"competition_id", competitionID,
		)
		return nil, err
	}

	return prizes, nil
}

func (s *prizeService) MarkDistributed(ctx context.Context, competitionID string, rank int) *apperrors.AppError {
	if rank < 1 || rank > repository.MaxPrizeRanks {
		return apperrors.New(apperrors.CodeInvalidInput, "rank out of range")
	}

	return s.prizeRepo.MarkDistributed(ctx, competitionID, rank)
}
