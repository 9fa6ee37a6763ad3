package engine

import (
	"testing"

	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/google/uuid"
)

func TestAnsweredPredicatePerType(t *testing.T) {
	reorder := ActiveQuestion{
		Question: model.Question{
			ID:      uuid.New(),
			Type:    model.QuestionTypeReorder,
			Options: []string{"a", "b", "c"},
		},
		Presentation: []int{1, 2, 0},
	}
	rewrite := ActiveQuestion{Question: rewriteQuestion("q", "x")}
	choice := ActiveQuestion{Question: choiceQuestion("q", []string{"a", "b"}, 0)}

	cases := []struct {
		name string
		q    *ActiveQuestion
		a    Answer
		want bool
	}{
		{"reorder all placed", &reorder, Answer{Order: []int{0, 1, 2}}, true},
		{"reorder partial", &reorder, Answer{Order: []int{0, 1}}, false},
		{"reorder empty", &reorder, Answer{}, false},
		{"rewrite text", &rewrite, Answer{Text: strPtr("hi")}, true},
		{"rewrite blank", &rewrite, Answer{Text: strPtr("   ")}, false},
		{"rewrite missing", &rewrite, Answer{}, false},
		{"choice zero index", &choice, Answer{Choice: intPtr(0)}, true},
		{"choice missing", &choice, Answer{}, false},
	}
	for _, tc := range cases {
		if got := Answered(tc.q, tc.a); got != tc.want {
			t.Errorf("%s: answered=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMapPresentationValidation(t *testing.T) {
	presentation := []int{2, 0, 1}

	mapped, err := mapPresentation(presentation, []int{1, 2, 0})
	if err != nil {
		t.Fatalf("valid slots rejected: %v", err)
	}
	want := []int{0, 1, 2}
	for i := range want {
		if mapped[i] != want[i] {
			t.Fatalf("mapped %v, want %v", mapped, want)
		}
	}

	if _, err := mapPresentation(presentation, []int{0, 0}); err == nil {
		t.Errorf("duplicate slots accepted")
	}
	if _, err := mapPresentation(presentation, []int{3}); err == nil {
		t.Errorf("out-of-range slot accepted")
	}
	if _, err := mapPresentation(presentation, []int{0, 1, 2, 0}); err == nil {
		t.Errorf("oversized placement accepted")
	}
}
