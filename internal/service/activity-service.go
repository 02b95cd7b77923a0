package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/models"
	"github.com/fitclash/fitclash/internal/repository"
)

// SyncRequest is one raw fitness sync from a device or provider.
type SyncRequest struct {
	CompetitionID string
	ParticipantID string
	Steps         int64
	Distance      float64
	Calories      float64
	ActiveMinutes int64
	Source        string
	Date          time.Time
}

type ActivityService interface {
	Ingest(ctx context.Context, req *SyncRequest) *apperrors.AppError
	GetTotals(ctx context.Context, competitionID, participantID string) (*models.ActivityTotals, *apperrors.AppError)
	GetDailyRecord(ctx context.Context, competitionID, participantID string, date time.Time) (*models.ActivityRecord, bool, *apperrors.AppError)
}

type activityService struct {
	detailRepo repository.DetailRepository
	logger     *logger.Logger
}

func NewActivityService(detailRepo repository.DetailRepository, log *logger.Logger) ActivityService {
	return &activityService{
		detailRepo: detailRepo,
		logger:     log.With("component", "ActivityService"),
	}
}

// Ingest adds the sync's metrics to the participant's running totals. Each
// call accumulates; it never overwrites, unlike the display snapshot written
// by score submission.
func (s *activityService) Ingest(ctx context.Context, req *SyncRequest) *apperrors.AppError {
	if err := s.detailRepo.AddActivity(ctx, &models.ActivityTotals{
		ParticipantID: req.ParticipantID,
		CompetitionID: req.CompetitionID,
		Steps:         req.Steps,
		Distance:      req.Distance,
		Calories:      req.Calories,
		ActiveMinutes: req.ActiveMinutes,
	}); err != nil {
		s.logger.Error("Failed to accumulate sync",
			"error", err,
			"competition_id", req.CompetitionID,
			"participant_id", req.ParticipantID,
		)
		return err
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	// The raw day record is history, not scoring input; losing it is logged
	// but does not fail the ingest.
	record := &models.ActivityRecord{
		ID:            fmt.Sprintf("%s-%s-%d", req.ParticipantID, req.CompetitionID, date.Unix()),
		ParticipantID: req.ParticipantID,
		CompetitionID: req.CompetitionID,
		Steps:         req.Steps,
		Distance:      req.Distance,
		Calories:      req.Calories,
		ActiveMinutes: req.ActiveMinutes,
		Source:        req.Source,
		Date:          date,
		SyncedAt:      time.Now().UTC(),
	}
	if err := s.detailRepo.PutActivityRecord(ctx, record); err != nil {
		s.logger.Warn("Failed to store raw sync record",
			"error", err,
			"competition_id", req.CompetitionID,
			"participant_id", req.ParticipantID,
		)
	}

	return nil
}

func (s *activityService) GetTotals(ctx context.Context, competitionID, participantID string) (*models.ActivityTotals, *apperrors.AppError) {
	totals, err := s.detailRepo.GetActivityTotals(ctx, competitionID, participantID)
	if err != nil {
		s.logger.Error("Failed to get activity totals",
			"error", err,
			"competition_id", competitionID,
			"participant_id", participantID,
		)
		return nil, err
	}

	return totals, nil
}

func (s *activityService) GetDailyRecord(ctx context.Context, competitionID, participantID string, date time.Time) (*models.ActivityRecord, bool, *apperrors.AppError) {
	return s.detailRepo.GetActivityRecord(ctx, competitionID, participantID, date)
}
