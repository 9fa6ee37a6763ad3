package engine

import (
	"testing"

	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func choiceQuestion(prompt string, options []string, correct int) model.Question {
	return model.Question{
		ID:           uuid.New(),
		Type:         model.QuestionTypeMCQ,
		Prompt:       prompt,
		Options:      options,
		CorrectIndex: intPtr(correct),
	}
}

func testQuiz(questions ...model.Question) *model.Quiz {
	return &model.Quiz{
		ID:              uuid.New(),
		Title:           "Unit Quiz",
		Subject:         "Math",
		DurationMinutes: 10,
		Questions:       questions,
	}
}

func TestShuffleIsPermutationOfQuestions(t *testing.T) {
	quiz := testQuiz(
		choiceQuestion("q1", []string{"a", "b", "c"}, 0),
		choiceQuestion("q2", []string{"a", "b", "c"}, 1),
		choiceQuestion("q3", []string{"a", "b", "c"}, 2),
		choiceQuestion("q4", []string{"a", "b", "c"}, 0),
	)

	active := shuffleQuiz(quiz)
	if len(active) != len(quiz.Questions) {
		t.Fatalf("expected %d questions, got %d", len(quiz.Questions), len(active))
	}

	seen := make(map[uuid.UUID]int)
	for i := range active {
		seen[active[i].Question.ID]++
	}
	for i := range quiz.Questions {
		if seen[quiz.Questions[i].ID] != 1 {
			t.Errorf("question %s appears %d times", quiz.Questions[i].ID, seen[quiz.Questions[i].ID])
		}
	}
}

func TestKeepOrderPreservesSequence(t *testing.T) {
	quiz := testQuiz(
		choiceQuestion("q1", []string{"a", "b"}, 0),
		choiceQuestion("q2", []string{"a", "b"}, 0),
		choiceQuestion("q3", []string{"a", "b"}, 0),
	)
	quiz.KeepOrder = true

	for trial := 0; trial < 20; trial++ {
		active := shuffleQuiz(quiz)
		for i := range active {
			if active[i].Question.ID != quiz.Questions[i].ID {
				t.Fatalf("trial %d: question order changed despite keep_order", trial)
			}
		}
	}
}

func TestShufflePreservesCorrectOption(t *testing.T) {
	options := []string{"red", "green", "blue", "yellow", "purple"}

	for correct := 0; correct < len(options); correct++ {
		for trial := 0; trial < 50; trial++ {
			q := choiceQuestion("color", options, correct)
			aq := shuffleQuestion(&q)

			if aq.CorrectIndex == nil {
				t.Fatalf("correct index lost in shuffle")
			}
			if got := aq.Options[*aq.CorrectIndex]; got != options[correct] {
				t.Fatalf("remapped index points at %q, want %q", got, options[correct])
			}
		}
	}
}

func TestShuffleOutOfRangeCorrectIndexBecomesNil(t *testing.T) {
	q := choiceQuestion("broken", []string{"a", "b"}, 7)
	aq := shuffleQuestion(&q)
	if aq.CorrectIndex != nil {
		t.Fatalf("out-of-range correct index should remap to nil, got %d", *aq.CorrectIndex)
	}
}

func TestReorderPresentationIsPermutation(t *testing.T) {
	q := model.Question{
		ID:      uuid.New(),
		Type:    model.QuestionTypeReorder,
		Prompt:  "order the words",
		Options: []string{"the", "quick", "brown", "fox", "jumps"},
	}

	for trial := 0; trial < 50; trial++ {
		aq := shuffleQuestion(&q)
		if len(aq.Presentation) != len(q.Options) {
			t.Fatalf("presentation has %d slots, want %d", len(aq.Presentation), len(q.Options))
		}
		seen := make(map[int]bool)
		for _, orig := range aq.Presentation {
			if orig < 0 || orig >= len(q.Options) || seen[orig] {
				t.Fatalf("presentation %v is not a permutation", aq.Presentation)
			}
			seen[orig] = true
		}
	}
}

func TestRetakesProduceIndependentShufflesWithInvariant(t *testing.T) {
	quiz := testQuiz(
		choiceQuestion("q1", []string{"a", "b", "c", "d"}, 1),
		choiceQuestion("q2", []string{"e", "f", "g", "h"}, 3),
		choiceQuestion("q3", []string{"i", "j", "k", "l"}, 0),
	)

	// Two attempts from the same definition; the orders need not match, but
	// the correctness mapping must hold for both.
	for attempt := 0; attempt < 2; attempt++ {
		active := shuffleQuiz(quiz)
		for i := range active {
			aq := &active[i]
			var original *model.Question
			for j := range quiz.Questions {
				if quiz.Questions[j].ID == aq.Question.ID {
					original = &quiz.Questions[j]
					break
				}
			}
			if original == nil {
				t.Fatalf("attempt %d: shuffled question not found in source", attempt)
			}
			if aq.CorrectIndex == nil {
				t.Fatalf("attempt %d: correct index missing", attempt)
			}
			want := original.Options[*original.CorrectIndex]
			if got := aq.Options[*aq.CorrectIndex]; got != want {
				t.Fatalf("attempt %d: correct option %q, want %q", attempt, got, want)
			}
		}
	}
}
