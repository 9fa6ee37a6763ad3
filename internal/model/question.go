package model

import (
	"github.com/google/uuid"
)

// QuestionType tags the variant a question belongs to.
type QuestionType string

const (
	QuestionTypeMCQ     QuestionType = "MCQ"
	QuestionTypeTF      QuestionType = "TF"
	QuestionTypeReading QuestionType = "READING"
	QuestionTypeReorder QuestionType = "REORDER"
	QuestionTypeRewrite QuestionType = "REWRITE"
)

// IsChoice reports whether the type scores by option-index equality.
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeMCQ || t == QuestionTypeTF || t == QuestionTypeReading
}

// Question is a single quiz question. Options doubles as the token list for
// REORDER questions, whose correct order is the authored array order.
// CorrectIndex applies to choice types only; CorrectText to REWRITE only.
type Question struct {
	ID           uuid.UUID    `json:"id"`
	QuizID       uuid.UUID    `json:"quiz_id"`
	Type         QuestionType `json:"question_type"`
	Prompt       string       `json:"prompt"`
	Passage      string       `json:"passage,omitempty"`
	Options      []string     `json:"options,omitempty"`
	CorrectIndex *int         `json:"correct_index,omitempty"`
	CorrectText  *string      `json:"correct_text,omitempty"`
	OrderNum     int          `json:"order_num"`
}

// AddQuestionRequest is the payload for one question in the authoring flow.
type AddQuestionRequest struct {
	Type         string   `json:"question_type" binding:"required,oneof=MCQ TF READING REORDER REWRITE"`
	Prompt       string   `json:"prompt" binding:"required,min=1,max=2000"`
	Passage      string   `json:"passage" binding:"omitempty,max=10000"`
	Options      []string `json:"options" binding:"omitempty,dive,min=1,max=500"`
	CorrectIndex *int     `json:"correct_index" binding:"omitempty,min=0"`
	CorrectText  *string  `json:"correct_text" binding:"omitempty,max=2000"`
	OrderNum     int      `json:"order_num" binding:"min=0"`
}

// ReplaceQuestionsRequest is the payload for bulk replacing a quiz's questions.
type ReplaceQuestionsRequest struct {
	Questions []AddQuestionRequest `json:"questions" binding:"dive"`
}
