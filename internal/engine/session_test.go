package engine

import (
	"sync/atomic"
	"testing"

	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func startSession(t *testing.T, quiz *model.Quiz, hooks Hooks) *Session {
	t.Helper()
	s, err := Start(quiz, 1, hooks, zerolog.Nop())
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return s
}

func TestStartRejectsEmptyQuiz(t *testing.T) {
	quiz := testQuiz()
	s, err := Start(quiz, 1, Hooks{}, zerolog.Nop())
	if err != ErrNoQuestions {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if s != nil {
		t.Fatalf("no session should exist for an empty quiz")
	}
}

func TestManualAdvanceGatedByAnswered(t *testing.T) {
	quiz := testQuiz(
		choiceQuestion("q1", []string{"a", "b"}, 0),
		choiceQuestion("q2", []string{"a", "b"}, 0),
	)
	quiz.KeepOrder = true
	s := startSession(t, quiz, Hooks{})

	if _, _, err := s.Next(); err != ErrUnanswered {
		t.Fatalf("expected ErrUnanswered, got %v", err)
	}

	if err := s.RecordAnswer(0, Answer{Choice: intPtr(1)}); err != nil {
		t.Fatalf("record answer: %v", err)
	}
	index, result, err := s.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if result != nil || index != 1 {
		t.Fatalf("expected advance to index 1, got index=%d result=%v", index, result)
	}
}

func TestNextOnLastQuestionCompletes(t *testing.T) {
	var completions atomic.Int32
	quiz := testQuiz(choiceQuestion("q1", []string{"a", "b"}, 0))
	hooks := Hooks{
		OnComplete: func(_ *Session, _ Result, _ bool) { completions.Add(1) },
	}
	s := startSession(t, quiz, hooks)

	if err := s.RecordAnswer(0, Answer{Choice: intPtr(0)}); err != nil {
		t.Fatalf("record answer: %v", err)
	}
	_, result, err := s.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if result == nil || result.Score != 1 {
		t.Fatalf("expected completion with score 1, got %+v", result)
	}
	if s.State() != StateResult {
		t.Fatalf("state %s, want RESULT", s.State())
	}
	if completions.Load() != 1 {
		t.Fatalf("OnComplete fired %d times, want 1", completions.Load())
	}
}

func TestSubmitIgnoresAnsweredGate(t *testing.T) {
	quiz := testQuiz(
		choiceQuestion("q1", []string{"a", "b"}, 0),
		choiceQuestion("q2", []string{"a", "b"}, 0),
	)
	s := startSession(t, quiz, Hooks{})

	r, err := s.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if r.Score != 0 || r.Total != 2 {
		t.Fatalf("score %d/%d, want 0/2", r.Score, r.Total)
	}

	if _, err := s.Submit(); err != ErrNotActive {
		t.Fatalf("second submit should fail with ErrNotActive, got %v", err)
	}
}

func TestQuizTimeoutCompletesExactlyOnce(t *testing.T) {
	var completions atomic.Int32
	quiz := testQuiz(choiceQuestion("q1", []string{"a", "b"}, 0))
	hooks := Hooks{
		OnComplete: func(_ *Session, _ Result, auto bool) {
			if !auto {
				t.Errorf("timeout completion should be flagged auto")
			}
			completions.Add(1)
		},
	}
	s := startSession(t, quiz, hooks)

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	s.quizTimeout(epoch)
	s.quizTimeout(epoch) // duplicate fire must be a no-op

	if completions.Load() != 1 {
		t.Fatalf("OnComplete fired %d times, want 1", completions.Load())
	}
	if s.State() != StateResult {
		t.Fatalf("state %s, want RESULT", s.State())
	}
}

func TestStaleQuizTimeoutAfterExitIsNoop(t *testing.T) {
	var completions atomic.Int32
	quiz := testQuiz(choiceQuestion("q1", []string{"a", "b"}, 0))
	s := startSession(t, quiz, Hooks{
		OnComplete: func(_ *Session, _ Result, _ bool) { completions.Add(1) },
	})

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	if err := s.Exit(); err != nil {
		t.Fatalf("exit: %v", err)
	}
	s.quizTimeout(epoch)

	if completions.Load() != 0 {
		t.Fatalf("stale timer completed an abandoned session")
	}
	if s.State() != StateAbandoned {
		t.Fatalf("state %s, want ABANDONED", s.State())
	}
}

func TestQuestionTimeoutAdvancesWithoutGate(t *testing.T) {
	var advanced atomic.Int32
	quiz := testQuiz(
		choiceQuestion("q1", []string{"a", "b"}, 0),
		choiceQuestion("q2", []string{"a", "b"}, 0),
	)
	quiz.QuestionSeconds = intPtr(30)
	s := startSession(t, quiz, Hooks{
		OnAdvance: func(_ *Session, index int) {
			if index != 1 {
				t.Errorf("advanced to %d, want 1", index)
			}
			advanced.Add(1)
		},
	})

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	s.questionTimeout(epoch, 0) // current question unanswered; gate must not apply
	if advanced.Load() != 1 {
		t.Fatalf("OnAdvance fired %d times, want 1", advanced.Load())
	}

	snap := s.Snapshot()
	if snap.CurrentIndex != 1 {
		t.Fatalf("current index %d, want 1", snap.CurrentIndex)
	}

	// Stale fire for the old index must not advance again.
	s.questionTimeout(epoch, 0)
	if got := s.Snapshot().CurrentIndex; got != 1 {
		t.Fatalf("stale question timer advanced to %d", got)
	}
}

func TestQuestionTimeoutOnLastQuestionSubmits(t *testing.T) {
	var completions atomic.Int32
	quiz := testQuiz(choiceQuestion("q1", []string{"a", "b"}, 0))
	quiz.QuestionSeconds = intPtr(30)
	s := startSession(t, quiz, Hooks{
		OnComplete: func(_ *Session, _ Result, _ bool) { completions.Add(1) },
	})

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	s.questionTimeout(epoch, 0)
	if completions.Load() != 1 {
		t.Fatalf("OnComplete fired %d times, want 1", completions.Load())
	}
}

func TestSecondViolationExpelsAndDiscardsAnswers(t *testing.T) {
	var completions, expulsions atomic.Int32
	quiz := testQuiz(
		choiceQuestion("q1", []string{"a", "b"}, 0),
		choiceQuestion("q2", []string{"a", "b"}, 0),
	)
	s := startSession(t, quiz, Hooks{
		OnComplete: func(_ *Session, _ Result, _ bool) { completions.Add(1) },
		OnExpel:    func(_ *Session, _ ViolationKind) { expulsions.Add(1) },
	})

	if err := s.RecordAnswer(0, Answer{Choice: intPtr(0)}); err != nil {
		t.Fatalf("record answer: %v", err)
	}

	verdict, count, err := s.RecordViolation(ViolationTabHidden)
	if err != nil || verdict != VerdictWarn || count != 1 {
		t.Fatalf("first violation: verdict=%s count=%d err=%v", verdict, count, err)
	}

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	verdict, count, err = s.RecordViolation(ViolationScreenCapture)
	if err != nil || verdict != VerdictExpel || count != 2 {
		t.Fatalf("second violation: verdict=%s count=%d err=%v", verdict, count, err)
	}
	if s.State() != StateExpelled {
		t.Fatalf("state %s, want EXPELLED", s.State())
	}
	if expulsions.Load() != 1 {
		t.Fatalf("OnExpel fired %d times, want 1", expulsions.Load())
	}

	// A quiz timer firing after expulsion must never turn into a submission.
	s.quizTimeout(epoch)
	if completions.Load() != 0 {
		t.Fatalf("expelled session was submitted")
	}

	s.mu.Lock()
	remaining := len(s.answers)
	s.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("answers survived expulsion: %d", remaining)
	}
}

func TestReorderRoundTripThroughSession(t *testing.T) {
	quiz := testQuiz(model.Question{
		ID:      uuid.New(),
		Type:    model.QuestionTypeReorder,
		Prompt:  "rebuild the sentence",
		Options: []string{"alpha", "beta", "gamma", "delta"},
	})
	s := startSession(t, quiz, Hooks{})

	s.mu.Lock()
	presentation := s.questions[0].Presentation
	s.mu.Unlock()

	// Place the shown tokens so the final sequence is the authored order:
	// slot of original token 0 first, then token 1, and so on.
	inverse := make([]int, len(presentation))
	for slot, orig := range presentation {
		inverse[orig] = slot
	}
	if err := s.RecordAnswer(0, Answer{Order: inverse}); err != nil {
		t.Fatalf("record answer: %v", err)
	}

	r, err := s.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if r.Score != 1 {
		t.Fatalf("reconstructed original order scored %d, want 1", r.Score)
	}
}

func TestReviewTransitions(t *testing.T) {
	quiz := testQuiz(choiceQuestion("q1", []string{"a", "b"}, 0))
	s := startSession(t, quiz, Hooks{})

	if err := s.Review(); err != ErrNotResult {
		t.Fatalf("review from ACTIVE should fail, got %v", err)
	}
	if _, err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.ReviewPaper(); err != ErrNotReview {
		t.Fatalf("review paper outside REVIEW should fail, got %v", err)
	}
	if err := s.Review(); err != nil {
		t.Fatalf("review: %v", err)
	}
	entries, err := s.ReviewPaper()
	if err != nil {
		t.Fatalf("review paper: %v", err)
	}
	if len(entries) != 1 || entries[0].CorrectIndex == nil {
		t.Fatalf("review should disclose the answer key, got %+v", entries)
	}
	if err := s.BackToResult(); err != nil {
		t.Fatalf("back to result: %v", err)
	}
	if s.State() != StateResult {
		t.Fatalf("state %s, want RESULT", s.State())
	}
}

func TestPaperHidesReorderOriginalOrder(t *testing.T) {
	quiz := testQuiz(model.Question{
		ID:      uuid.New(),
		Type:    model.QuestionTypeReorder,
		Prompt:  "rebuild",
		Options: []string{"one", "two", "three", "four", "five", "six"},
	})
	s := startSession(t, quiz, Hooks{})

	s.mu.Lock()
	presentation := s.questions[0].Presentation
	s.mu.Unlock()

	paper := s.Paper()
	shown := paper.Questions[0].Options
	for slot, orig := range presentation {
		if shown[slot] != quiz.Questions[0].Options[orig] {
			t.Fatalf("paper slot %d shows %q, want %q", slot, shown[slot], quiz.Questions[0].Options[orig])
		}
	}
}

func TestRegistryOneActiveSessionPerUser(t *testing.T) {
	reg := NewRegistry()
	quiz := testQuiz(choiceQuestion("q1", []string{"a", "b"}, 0))

	first := startSession(t, quiz, Hooks{})
	if err := reg.Put(first); err != nil {
		t.Fatalf("put first: %v", err)
	}

	second := startSession(t, quiz, Hooks{})
	if err := reg.Put(second); err != ErrSessionActive {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}

	// Finishing the first attempt allows a retake to supersede it.
	if _, err := first.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := reg.Put(second); err != nil {
		t.Fatalf("put after completion: %v", err)
	}

	// Removing with a stale session ID must not drop the newer attempt.
	reg.Remove(second.UserID(), first.ID())
	if _, ok := reg.Get(second.UserID()); !ok {
		t.Fatalf("stale remove dropped the live session")
	}
	reg.Remove(second.UserID(), second.ID())
	if _, ok := reg.Get(second.UserID()); ok {
		t.Fatalf("session still registered after removal")
	}
}
