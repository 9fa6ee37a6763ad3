package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizViolation is one audited anti-cheat signal from a live attempt.
type QuizViolation struct {
	ID         int       `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	UserID     int       `json:"user_id"`
	QuizID     uuid.UUID `json:"quiz_id"`
	Kind       string    `json:"kind"`
	Verdict    string    `json:"verdict"`
	OccurredAt time.Time `json:"occurred_at"`
}
