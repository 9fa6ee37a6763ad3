package engine

import (
	"strings"

	"github.com/brightpath/quizhall-backend/internal/model"
)

// Answer is the tagged value a student records for one question. Exactly one
// field is meaningful, selected by the question's own type tag: Choice for
// MCQ/TF/READING, Order for REORDER, Text for REWRITE. The engine overwrites
// any prior answer for the same question; no history is kept.
type Answer struct {
	Choice *int    `json:"choice,omitempty"`
	Order  []int   `json:"order,omitempty"`
	Text   *string `json:"text,omitempty"`
}

// Answered reports whether the value counts as an answer for the question.
// This gates manual advancement only; scoring never consults it.
//   - REORDER: answered iff every token has been placed.
//   - REWRITE: answered iff the trimmed text is non-empty.
//   - choice types: answered iff an index is present (zero included).
func Answered(q *ActiveQuestion, a Answer) bool {
	switch q.Type {
	case model.QuestionTypeReorder:
		return len(a.Order) == len(q.Options)
	case model.QuestionTypeRewrite:
		return a.Text != nil && strings.TrimSpace(*a.Text) != ""
	default:
		return a.Choice != nil
	}
}
