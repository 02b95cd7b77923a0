package events

import (
	"time"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/natsbroker"
)

// ScoreUpdatePublisher is the Change Notifier's outbound half. Failures are
// reported to the caller but the write path treats them as log-only.
type ScoreUpdatePublisher struct {
	publisher *natsbroker.Publisher
	logger    *logger.Logger
}

func NewScoreUpdatePublisher(client *natsbroker.Client, log *logger.Logger) *ScoreUpdatePublisher {
	return &ScoreUpdatePublisher{
		publisher: natsbroker.NewPublisher(client),
		logger:    log.With("component", "score-update-publisher"),
	}
}

func (p *ScoreUpdatePublisher) PublishScoreUpdate(competitionID, participantID string, score int64) *apperrors.AppError {
	event := ScoreUpdate{
		Type:          ScoreUpdateType,
		CompetitionID: competitionID,
		ParticipantID: participantID,
		Score:         score,
		Timestamp:     time.Now().UTC(),
	}

	if err := p.publisher.PublishJSON(LeaderboardUpdateSubject(competitionID), event); err != nil {
		p.logger.Error("Failed to publish score update",
			"error", err,
			"competition_id", competitionID,
			"participant_id", participantID,
		)
		return apperrors.Wrap(err, apperrors.CodeEventPublishError, "failed to publish score update")
	}

	return nil
}
