package model

import (
	"time"

	"github.com/google/uuid"
)

// Quiz represents a quiz entity. Questions are loaded on demand; list
// queries leave the slice nil.
type Quiz struct {
	ID              uuid.UUID  `json:"id"`
	AuthorID        int        `json:"author_id"`
	Title           string     `json:"title"`
	Subject         string     `json:"subject"`
	Grade           string     `json:"grade"`
	Semester        string     `json:"semester"`
	Category        string     `json:"category"`
	DurationMinutes int        `json:"duration_minutes"`
	QuestionSeconds *int       `json:"question_seconds,omitempty"`
	KeepOrder       bool       `json:"keep_order"`
	IsPremium       bool       `json:"is_premium"`
	Questions       []Question `json:"questions,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreateQuizRequest is the payload for creating a new quiz.
type CreateQuizRequest struct {
	Title           string `json:"title" binding:"required,min=3,max=255"`
	Subject         string `json:"subject" binding:"required,max=100"`
	Grade           string `json:"grade" binding:"required,max=20"`
	Semester        string `json:"semester" binding:"omitempty,max=20"`
	Category        string `json:"category" binding:"omitempty,max=100"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=480"`
	QuestionSeconds *int   `json:"question_seconds" binding:"omitempty,min=5,max=600"`
	KeepOrder       bool   `json:"keep_order"`
	IsPremium       bool   `json:"is_premium"`
}

// UpdateQuizRequest is the payload for editing an existing quiz.
type UpdateQuizRequest struct {
	Title           string `json:"title" binding:"omitempty,min=3,max=255"`
	Subject         string `json:"subject" binding:"omitempty,max=100"`
	Grade           string `json:"grade" binding:"omitempty,max=20"`
	Semester        string `json:"semester" binding:"omitempty,max=20"`
	Category        string `json:"category" binding:"omitempty,max=100"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	QuestionSeconds *int   `json:"question_seconds" binding:"omitempty,min=5,max=600"`
	KeepOrder       *bool  `json:"keep_order" binding:"omitempty"`
	IsPremium       *bool  `json:"is_premium" binding:"omitempty"`
}

// QuestionForStudent is a question stripped of its answer key, in the shape
// sent to an active session. For REORDER questions Options already holds the
// tokens in presentation order.
type QuestionForStudent struct {
	ID      uuid.UUID    `json:"id"`
	Type    QuestionType `json:"question_type"`
	Prompt  string       `json:"prompt"`
	Passage string       `json:"passage,omitempty"`
	Options []string     `json:"options,omitempty"`
}

// QuizPaper is the session payload handed to the student on start.
type QuizPaper struct {
	QuizID          uuid.UUID            `json:"quiz_id"`
	SessionID       uuid.UUID            `json:"session_id"`
	Title           string               `json:"title"`
	DurationMinutes int                  `json:"duration_minutes"`
	QuestionSeconds *int                 `json:"question_seconds,omitempty"`
	Questions       []QuestionForStudent `json:"questions"`
}
