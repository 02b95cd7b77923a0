package models

import "time"

// ParticipantDetail is the display snapshot written on every score
// submission. Full overwrite, never incremental.
type ParticipantDetail struct {
	ParticipantID string    `json:"participant_id"`
	CompetitionID string    `json:"competition_id"`
	UserName      string    `json:"user_name"`
	Steps         int64     `json:"steps"`
	Distance      float64   `json:"distance"`
	Calories      float64   `json:"calories"`
	LastSyncedAt  time.Time `json:"last_synced_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PlaceholderDetail stands in for a participant that has a score but no
// detail snapshot yet.
func PlaceholderDetail(competitionID, participantID string) *ParticipantDetail {
	return &ParticipantDetail{
		ParticipantID: participantID,
		CompetitionID: competitionID,
		UserName:      "Unknown",
	}
}
