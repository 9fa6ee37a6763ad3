package engine

import (
	"math/rand/v2"

	"github.com/brightpath/quizhall-backend/internal/model"
)

// ActiveQuestion is one question of a live attempt: a copy of the authored
// question with options shuffled and the correct index remapped. For REORDER
// questions Presentation holds the presentation order, where Presentation[j]
// is the original index of the token shown at slot j.
type ActiveQuestion struct {
	model.Question
	Presentation []int
}

// shuffleQuiz derives the per-attempt question sequence from the authored
// quiz. Question order is a fresh permutation unless KeepOrder is set.
// Choice questions get independently shuffled options with CorrectIndex
// remapped so the option it points at is unchanged; an authored index that
// falls outside the options is treated as "no correct answer" (nil).
// REORDER questions get an independent presentation permutation.
func shuffleQuiz(quiz *model.Quiz) []ActiveQuestion {
	order := identity(len(quiz.Questions))
	if !quiz.KeepOrder {
		rand.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	active := make([]ActiveQuestion, 0, len(order))
	for _, qi := range order {
		active = append(active, shuffleQuestion(&quiz.Questions[qi]))
	}
	return active
}

func shuffleQuestion(q *model.Question) ActiveQuestion {
	aq := ActiveQuestion{Question: *q}

	switch {
	case q.Type.IsChoice():
		perm := rand.Perm(len(q.Options))
		options := make([]string, len(q.Options))
		for newIdx, origIdx := range perm {
			options[newIdx] = q.Options[origIdx]
		}
		aq.Options = options
		aq.CorrectIndex = remapCorrect(q.CorrectIndex, perm)

	case q.Type == model.QuestionTypeReorder:
		aq.Presentation = presentationOrder(len(q.Options))
	}

	return aq
}

// remapCorrect finds where the originally-correct option landed after the
// shuffle. Out-of-range authored indices yield nil rather than a panic; the
// session must never assume authoring-time validation happened.
func remapCorrect(correct *int, perm []int) *int {
	if correct == nil || *correct < 0 || *correct >= len(perm) {
		return nil
	}
	for newIdx, origIdx := range perm {
		if origIdx == *correct {
			idx := newIdx
			return &idx
		}
	}
	return nil
}

// presentationOrder generates the shuffled token order for a REORDER
// question. An identity permutation defeats the exercise, so it is re-rolled
// once; a second coincidence is accepted rather than looped on.
func presentationOrder(n int) []int {
	perm := rand.Perm(n)
	if n > 1 && isIdentity(perm) {
		perm = rand.Perm(n)
	}
	return perm
}

func identity(n int) []int {
	seq := make([]int, n)
	for i := range seq {
		seq[i] = i
	}
	return seq
}

func isIdentity(seq []int) bool {
	for i, v := range seq {
		if v != i {
			return false
		}
	}
	return true
}
