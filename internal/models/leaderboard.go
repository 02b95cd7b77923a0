package models

import "time"

// ScoreEntry is a bare sorted-set member: one per (competition, participant).
type ScoreEntry struct {
	CompetitionID string `json:"competition_id"`
	ParticipantID string `json:"participant_id"`
	Score         int64  `json:"score"`
}

// RankedEntry is a score entry enriched with participant detail for display.
type RankedEntry struct {
	ParticipantID string    `json:"participant_id"`
	UserName      string    `json:"user_name"`
	CompetitionID string    `json:"competition_id"`
	Score         int64     `json:"score"`
	Rank          int       `json:"rank"`
	Steps         int64     `json:"steps"`
	Distance      float64   `json:"distance"`
	Calories      float64   `json:"calories"`
	LastSyncedAt  time.Time `json:"last_synced_at"`
}

// Leaderboard is a point-in-time ranked snapshot. TotalCount is the full
// competition cardinality, which can exceed len(Entries) when a window limit
// was applied.
type Leaderboard struct {
	CompetitionID string        `json:"competition_id"`
	Entries       []RankedEntry `json:"entries"`
	TotalCount    int64         `json:"total_count"`
	GeneratedAt   time.Time     `json:"generated_at"`
}
