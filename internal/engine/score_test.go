package engine

import (
	"testing"

	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/google/uuid"
)

func rewriteQuestion(prompt, correct string) model.Question {
	return model.Question{
		ID:          uuid.New(),
		Type:        model.QuestionTypeRewrite,
		Prompt:      prompt,
		CorrectText: strPtr(correct),
	}
}

func TestGradeMixedQuiz(t *testing.T) {
	// 2 MCQ + 1 REWRITE: Q1 correct, Q2 wrong, Q3 exact match.
	questions := []ActiveQuestion{
		{Question: choiceQuestion("q1", []string{"a", "b"}, 0)},
		{Question: choiceQuestion("q2", []string{"a", "b"}, 1)},
		{Question: rewriteQuestion("q3", "Paris")},
	}
	answers := map[int]Answer{
		0: {Choice: intPtr(0)},
		1: {Choice: intPtr(0)},
		2: {Text: strPtr("Paris")},
	}

	r := Grade(questions, answers)
	if r.Score != 2 || r.Total != 3 {
		t.Fatalf("score %d/%d, want 2/3", r.Score, r.Total)
	}
	if r.Percentage != 67 {
		t.Errorf("percentage %d, want 67", r.Percentage)
	}
	if !r.Passed {
		t.Errorf("expected passed at 67%%")
	}
	if r.XP != 2*XPPerCorrect {
		t.Errorf("xp %d, want %d", r.XP, 2*XPPerCorrect)
	}
}

func TestGradeRewriteTrimsButKeepsCase(t *testing.T) {
	q := ActiveQuestion{Question: rewriteQuestion("capital", "Paris ")}

	cases := []struct {
		answer string
		want   bool
	}{
		{"Paris", true},
		{"Paris ", true},
		{"  Paris  ", true},
		{"paris", false},
		{"PARIS", false},
		{"Par is", false},
	}
	for _, tc := range cases {
		got := isCorrect(&q, Answer{Text: strPtr(tc.answer)})
		if got != tc.want {
			t.Errorf("answer %q: correct=%v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestGradeReorderRequiresExactOriginalOrder(t *testing.T) {
	q := ActiveQuestion{
		Question: model.Question{
			ID:      uuid.New(),
			Type:    model.QuestionTypeReorder,
			Options: []string{"one", "two", "three", "four"},
		},
		Presentation: []int{2, 0, 3, 1},
	}

	if !isCorrect(&q, Answer{Order: []int{0, 1, 2, 3}}) {
		t.Errorf("identity order should be correct")
	}
	if isCorrect(&q, Answer{Order: []int{1, 0, 2, 3}}) {
		t.Errorf("transposed order should be incorrect")
	}
	if isCorrect(&q, Answer{Order: []int{0, 1, 2}}) {
		t.Errorf("partial placement should be incorrect")
	}
}

func TestGradeChoiceAgainstRemappedIndex(t *testing.T) {
	q := ActiveQuestion{Question: choiceQuestion("q", []string{"a", "b", "c"}, 2)}

	if !isCorrect(&q, Answer{Choice: intPtr(2)}) {
		t.Errorf("matching index should be correct")
	}
	if isCorrect(&q, Answer{Choice: intPtr(0)}) {
		t.Errorf("wrong index should be incorrect")
	}
	if isCorrect(&q, Answer{}) {
		t.Errorf("missing answer should be incorrect")
	}
}

func TestGradeNoCorrectAnswerNeverMatches(t *testing.T) {
	q := ActiveQuestion{Question: choiceQuestion("q", []string{"a", "b"}, 0)}
	q.CorrectIndex = nil // authored index was out of range

	for i := 0; i < 2; i++ {
		if isCorrect(&q, Answer{Choice: intPtr(i)}) {
			t.Errorf("question without a correct answer matched index %d", i)
		}
	}
}

func TestGradePercentageRounding(t *testing.T) {
	cases := []struct {
		score, total, want int
		passed             bool
	}{
		{0, 4, 0, false},
		{1, 3, 33, false},
		{1, 2, 50, true},
		{2, 3, 67, true},
		{3, 3, 100, true},
	}
	for _, tc := range cases {
		questions := make([]ActiveQuestion, tc.total)
		answers := make(map[int]Answer)
		for i := 0; i < tc.total; i++ {
			questions[i] = ActiveQuestion{Question: choiceQuestion("q", []string{"a", "b"}, 0)}
			if i < tc.score {
				answers[i] = Answer{Choice: intPtr(0)}
			} else {
				answers[i] = Answer{Choice: intPtr(1)}
			}
		}
		r := Grade(questions, answers)
		if r.Percentage != tc.want || r.Passed != tc.passed {
			t.Errorf("%d/%d: percentage=%d passed=%v, want %d/%v",
				tc.score, tc.total, r.Percentage, r.Passed, tc.want, tc.passed)
		}
	}
}
