package events

import "time"

const (
	// Streams
	FitnessEventsStream = "FITNESS_EVENTS"

	// Durable subjects (JetStream)
	FitnessSynced = "events.fitness.synced"

	// Event Wildcards
	FitnessEventsWildcard = "events.fitness.*"

	// Live fan-out subjects (core NATS, no backlog)
	LeaderboardUpdatesPrefix   = "leaderboard.updates."
	LeaderboardUpdatesWildcard = "leaderboard.updates.>"
)

// LeaderboardUpdateSubject returns the per-competition fan-out subject.
func LeaderboardUpdateSubject(competitionID string) string {
	return LeaderboardUpdatesPrefix + competitionID
}

// ScoreUpdate is broadcast to live viewers of a competition after every
// accepted score write.
type ScoreUpdate struct {
	Type          string    `json:"type"`
	CompetitionID string    `json:"competition_id"`
	ParticipantID string    `json:"participant_id"`
	Score         int64     `json:"score"`
	Timestamp     time.Time `json:"timestamp"`
}

const ScoreUpdateType = "score_update"

// FitnessSync is the ingestion payload consumed from the durable stream.
// Its metrics are accumulated, never overwritten.
type FitnessSync struct {
	ParticipantID string    `json:"participant_id"`
	CompetitionID string    `json:"competition_id"`
	Steps         int64     `json:"steps"`
	Distance      float64   `json:"distance"`
	Calories      float64   `json:"calories"`
	ActiveMinutes int64     `json:"active_minutes"`
	Source        string    `json:"source"`
	Date          time.Time `json:"date"`
}
