package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizResult is the persisted record of one completed attempt. Created
// exactly once per attempt, never mutated.
type QuizResult struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	UserID     int       `json:"user_id"`
	QuizID     uuid.UUID `json:"quiz_id"`
	QuizTitle  string    `json:"quiz_title"`
	Subject    string    `json:"subject"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
	Passed     bool      `json:"passed"`
	XP         int       `json:"xp"`
	FinishedAt time.Time `json:"finished_at"`
}

// LeaderboardEntry is one row of the XP ranking.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Grade  string `json:"grade,omitempty"`
	XP     int    `json:"xp"`
}
