package models

import (
	"fmt"
	"time"
)

const (
	PrizeStatusPending     = "pending"
	PrizeStatusDistributed = "distributed"
)

// Prize is a derived record: recomputable from a leaderboard snapshot and a
// pool amount. Immutable after creation except the pending->distributed
// status transition. ExpiresAt drives the table's TTL attribute.
type Prize struct {
	ID            string    `dynamodbav:"id" json:"id"`
	CompetitionID string    `dynamodbav:"competition_id" json:"competition_id"`
	ParticipantID string    `dynamodbav:"participant_id" json:"participant_id"`
	Rank          int       `dynamodbav:"rank" json:"rank"`
	Amount        float64   `dynamodbav:"amount" json:"amount"`
	Status        string    `dynamodbav:"status" json:"status"`
	CreatedAt     time.Time `dynamodbav:"created_at" json:"created_at"`
	ExpiresAt     int64     `dynamodbav:"expires_at" json:"expires_at"`

	PK string `dynamodbav:"PK" json:"-"`
	SK string `dynamodbav:"SK" json:"-"`
}

// Key handlers
func PrizePK(competitionID string) string {
	return fmt.Sprintf("PRIZE#%s", competitionID)
}

func PrizeSK(rank int) string {
	return fmt.Sprintf("RANK#%d", rank)
}
