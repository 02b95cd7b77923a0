package models

import "time"

// ActivityTotals accumulates additively across fitness syncs. Unlike the
// detail snapshot, a sync adds to these counters instead of overwriting them.
type ActivityTotals struct {
	ParticipantID string  `json:"participant_id"`
	CompetitionID string  `json:"competition_id"`
	Steps         int64   `json:"steps"`
	Distance      float64 `json:"distance"`
	Calories      float64 `json:"calories"`
	ActiveMinutes int64   `json:"active_minutes"`
}

// ActivityRecord is one raw fitness sync for one day, kept for history.
type ActivityRecord struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"`
	CompetitionID string    `json:"competition_id"`
	Steps         int64     `json:"steps"`
	Distance      float64   `json:"distance"`
	Calories      float64   `json:"calories"`
	ActiveMinutes int64     `json:"active_minutes"`
	Source        string    `json:"source"`
	Date          time.Time `json:"date"`
	SyncedAt      time.Time `json:"synced_at"`
}
