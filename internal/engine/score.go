package engine

import (
	"math"
	"strings"

	"github.com/brightpath/quizhall-backend/internal/model"
)

const (
	// PassPercent is the minimum percentage counted as a pass.
	PassPercent = 50
	// XPPerCorrect is the experience awarded per correct answer on submit.
	XPPerCorrect = 30
)

// Result is the graded outcome of one attempt.
type Result struct {
	Score      int  `json:"score"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
	Passed     bool `json:"passed"`
	XP         int  `json:"xp"`
}

// Grade scores an attempt against the active (shuffled) question sequence.
// Unanswered questions are simply incorrect.
func Grade(questions []ActiveQuestion, answers map[int]Answer) Result {
	score := 0
	for i := range questions {
		if a, ok := answers[i]; ok && isCorrect(&questions[i], a) {
			score++
		}
	}

	total := len(questions)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(100 * float64(score) / float64(total)))
	}

	return Result{
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Passed:     percentage >= PassPercent,
		XP:         score * XPPerCorrect,
	}
}

// isCorrect applies the per-type correctness rule.
//   - choice types: index equality against the remapped correct index.
//   - REORDER: the stored order (already mapped back to original token
//     indices) must be the identity sequence, i.e. the student rebuilt the
//     authored order.
//   - REWRITE: exact match after trimming both ends; case-sensitive.
func isCorrect(q *ActiveQuestion, a Answer) bool {
	switch q.Type {
	case model.QuestionTypeReorder:
		if len(a.Order) != len(q.Options) {
			return false
		}
		return isIdentity(a.Order)

	case model.QuestionTypeRewrite:
		if a.Text == nil || q.CorrectText == nil {
			return false
		}
		return strings.TrimSpace(*a.Text) == strings.TrimSpace(*q.CorrectText)

	default:
		return a.Choice != nil && q.CorrectIndex != nil && *a.Choice == *q.CorrectIndex
	}
}
