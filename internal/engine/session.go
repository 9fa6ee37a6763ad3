package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session lifecycle errors.
var (
	ErrNoQuestions   = errors.New("quiz has no questions")
	ErrNotActive     = errors.New("session is not active")
	ErrUnanswered    = errors.New("current question is not answered")
	ErrInvalidIndex  = errors.New("question index out of range")
	ErrInvalidAnswer = errors.New("answer shape does not match question type")
	ErrNotResult     = errors.New("session is not in result state")
	ErrNotReview     = errors.New("session is not in review state")
)

// State is the session lifecycle state. SELECTION from the UI's point of
// view is simply the absence of a live Session; expelled and abandoned
// sessions are terminal and get dropped from the registry.
type State string

const (
	StateActive    State = "ACTIVE"
	StateResult    State = "RESULT"
	StateReview    State = "REVIEW"
	StateExpelled  State = "EXPELLED"
	StateAbandoned State = "ABANDONED"
)

// Hooks are the session's outward effects. They are invoked outside the
// session lock and must be safe to call from timer goroutines. All of them
// are optional.
type Hooks struct {
	// OnComplete fires exactly once when the attempt reaches RESULT through
	// normal completion (manual submit, quiz timeout, or last-question
	// auto-advance). auto is true for timer-driven completion.
	OnComplete func(s *Session, r Result, auto bool)
	// OnViolation fires for every recorded violation, for the audit trail.
	OnViolation func(s *Session, kind ViolationKind, verdict Verdict)
	// OnExpel fires when the second violation terminates the attempt.
	OnExpel func(s *Session, kind ViolationKind)
	// OnAdvance fires when the question timer forces an advance (not for
	// manual navigation), so a connected client can be told to move on.
	OnAdvance func(s *Session, index int)
}

// Session is one student's single attempt at one quiz: the controller that
// owns all attempt state and mutates it in response to timer expiry, student
// input and anti-cheat signals.
//
// Both countdowns are deadline-based; remaining time is computed on demand.
// time.AfterFunc callbacks re-check the epoch and state under the lock, so a
// callback that fires after the session has moved on is a no-op. Every
// transition out of ACTIVE stops both timers and bumps the epoch before any
// hook runs; in particular the expulsion flag is set before a pending submit
// timer could be honored.
type Session struct {
	id     uuid.UUID
	userID int
	quiz   *model.Quiz // original, unshuffled; retakes start from here

	mu        sync.Mutex
	state     State
	questions []ActiveQuestion
	answers   map[int]Answer
	current   int
	monitor   violationMonitor
	expelled  bool
	result    *Result
	epoch     uint64

	startedAt        time.Time
	deadline         time.Time
	questionDeadline time.Time
	quizTimer        *time.Timer
	questionTimer    *time.Timer

	hooks Hooks
	log   zerolog.Logger
}

// Start begins a new attempt: derives the shuffled question sequence, arms
// both countdowns and enters ACTIVE. A quiz with zero questions is rejected
// before any state exists.
func Start(quiz *model.Quiz, userID int, hooks Hooks, log zerolog.Logger) (*Session, error) {
	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	s := &Session{
		id:        uuid.New(),
		userID:    userID,
		quiz:      quiz,
		state:     StateActive,
		questions: shuffleQuiz(quiz),
		answers:   make(map[int]Answer),
		hooks:     hooks,
		startedAt: time.Now(),
	}
	s.log = log.With().
		Str("session_id", s.id.String()).
		Str("quiz_id", quiz.ID.String()).
		Int("user_id", userID).
		Logger()

	s.mu.Lock()
	s.deadline = s.startedAt.Add(time.Duration(quiz.DurationMinutes) * time.Minute)
	epoch := s.epoch
	s.quizTimer = time.AfterFunc(time.Until(s.deadline), func() {
		s.quizTimeout(epoch)
	})
	s.armQuestionTimerLocked()
	s.mu.Unlock()

	s.log.Info().Int("questions", len(s.questions)).Msg("Session started")
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// UserID returns the owning student's ID.
func (s *Session) UserID() int { return s.userID }

// Quiz returns the original, unshuffled quiz definition.
func (s *Session) Quiz() *model.Quiz { return s.quiz }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Paper returns the attempt's question sequence stripped of answer keys.
// REORDER tokens are listed in presentation order so the original order is
// never disclosed to the client.
func (s *Session) Paper() model.QuizPaper {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := make([]model.QuestionForStudent, 0, len(s.questions))
	for i := range s.questions {
		q := &s.questions[i]
		options := q.Options
		if q.Type == model.QuestionTypeReorder {
			options = make([]string, len(q.Presentation))
			for slot, orig := range q.Presentation {
				options[slot] = q.Options[orig]
			}
		}
		questions = append(questions, model.QuestionForStudent{
			ID:      q.Question.ID,
			Type:    q.Type,
			Prompt:  q.Prompt,
			Passage: q.Passage,
			Options: options,
		})
	}

	return model.QuizPaper{
		QuizID:          s.quiz.ID,
		SessionID:       s.id,
		Title:           s.quiz.Title,
		DurationMinutes: s.quiz.DurationMinutes,
		QuestionSeconds: s.quiz.QuestionSeconds,
		Questions:       questions,
	}
}

// RecordAnswer stores the student's answer for a question, overwriting any
// prior value. For REORDER questions the incoming Order holds presentation
// slots (positions as shown) and is translated back to original token
// indices before storage, so grading can compare against the identity
// sequence.
func (s *Session) RecordAnswer(index int, a Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrNotActive
	}
	if index < 0 || index >= len(s.questions) {
		return ErrInvalidIndex
	}

	q := &s.questions[index]
	if q.Type == model.QuestionTypeReorder {
		mapped, err := mapPresentation(q.Presentation, a.Order)
		if err != nil {
			return err
		}
		a = Answer{Order: mapped}
	}

	s.answers[index] = a
	return nil
}

// mapPresentation translates presentation-slot indices into original token
// indices. Slots must be in range and distinct; partial placements are
// allowed (they just never satisfy the answered predicate).
func mapPresentation(presentation, slots []int) ([]int, error) {
	if len(slots) > len(presentation) {
		return nil, ErrInvalidAnswer
	}
	seen := make(map[int]bool, len(slots))
	mapped := make([]int, 0, len(slots))
	for _, slot := range slots {
		if slot < 0 || slot >= len(presentation) || seen[slot] {
			return nil, ErrInvalidAnswer
		}
		seen[slot] = true
		mapped = append(mapped, presentation[slot])
	}
	return mapped, nil
}

// Next advances to the next question, or finishes the attempt when the
// current question is the last one. Manual advancement is blocked while the
// current question is unanswered; only the question timer bypasses that
// gate. Returns the new index, or the final result when the attempt ended.
func (s *Session) Next() (int, *Result, error) {
	s.mu.Lock()

	if s.state != StateActive {
		s.mu.Unlock()
		return 0, nil, ErrNotActive
	}

	q := &s.questions[s.current]
	if a, ok := s.answers[s.current]; !ok || !Answered(q, a) {
		s.mu.Unlock()
		return 0, nil, ErrUnanswered
	}

	if s.current == len(s.questions)-1 {
		r := s.finishLocked()
		s.mu.Unlock()
		s.complete(r, false)
		return 0, &r, nil
	}

	s.current++
	s.armQuestionTimerLocked()
	index := s.current
	s.mu.Unlock()
	return index, nil, nil
}

// Submit finishes the attempt immediately, grading whatever has been
// answered. The answered gate does not apply.
func (s *Session) Submit() (*Result, error) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return nil, ErrNotActive
	}
	r := s.finishLocked()
	s.mu.Unlock()
	s.complete(r, false)
	return &r, nil
}

// RecordViolation counts an anti-cheat signal. The first strike warns; the
// second terminates the attempt, discarding all answers without persisting a
// result. Returns the verdict and the running violation count.
func (s *Session) RecordViolation(kind ViolationKind) (Verdict, int, error) {
	s.mu.Lock()

	if s.state != StateActive {
		s.mu.Unlock()
		return "", 0, ErrNotActive
	}

	verdict := s.monitor.record()
	count := s.monitor.violations()

	if verdict == VerdictExpel {
		// The flag goes up before the timers are torn down so that a quiz
		// timer firing concurrently can never turn this into a submission.
		s.expelled = true
		s.stopLocked(StateExpelled)
		s.answers = make(map[int]Answer)
	}
	s.mu.Unlock()

	if s.hooks.OnViolation != nil {
		s.hooks.OnViolation(s, kind, verdict)
	}
	if verdict == VerdictExpel {
		s.log.Warn().Str("kind", string(kind)).Msg("Session expelled")
		if s.hooks.OnExpel != nil {
			s.hooks.OnExpel(s, kind)
		}
	}
	return verdict, count, nil
}

// Exit abandons the attempt: answers are discarded and nothing is persisted.
func (s *Session) Exit() error {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return ErrNotActive
	}
	s.stopLocked(StateAbandoned)
	s.answers = make(map[int]Answer)
	s.mu.Unlock()
	s.log.Info().Msg("Session abandoned")
	return nil
}

// Review enters answer review from the result screen.
func (s *Session) Review() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateResult {
		return ErrNotResult
	}
	s.state = StateReview
	return nil
}

// BackToResult returns from review to the result screen.
func (s *Session) BackToResult() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReview {
		return ErrNotReview
	}
	s.state = StateResult
	return nil
}

// Result returns the graded outcome, present once the attempt completed.
func (s *Session) Result() (*Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, false
	}
	r := *s.result
	return &r, true
}

// Snapshot is a point-in-time view of the attempt for reconnecting clients.
type Snapshot struct {
	SessionID        uuid.UUID `json:"session_id"`
	QuizID           uuid.UUID `json:"quiz_id"`
	State            State     `json:"state"`
	CurrentIndex     int       `json:"current_index"`
	AnsweredCount    int       `json:"answered_count"`
	Violations       int       `json:"violations"`
	TimeLeft         int       `json:"time_left_seconds"`
	QuestionTimeLeft *int      `json:"question_time_left_seconds,omitempty"`
	Result           *Result   `json:"result,omitempty"`
}

// Snapshot reports the current attempt state with remaining time computed
// from the deadlines.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	answered := 0
	for i := range s.questions {
		if a, ok := s.answers[i]; ok && Answered(&s.questions[i], a) {
			answered++
		}
	}

	snap := Snapshot{
		SessionID:     s.id,
		QuizID:        s.quiz.ID,
		State:         s.state,
		CurrentIndex:  s.current,
		AnsweredCount: answered,
		Violations:    s.monitor.violations(),
		Result:        s.result,
	}
	if s.state == StateActive {
		snap.TimeLeft = remainingSeconds(s.deadline)
		if s.quiz.QuestionSeconds != nil {
			left := remainingSeconds(s.questionDeadline)
			snap.QuestionTimeLeft = &left
		}
	}
	return snap
}

// ReviewEntry pairs one question with the student's answer for the review
// screen. Options are listed as they were presented; CorrectOrder holds the
// authored token order for REORDER questions.
type ReviewEntry struct {
	Prompt       string             `json:"prompt"`
	Passage      string             `json:"passage,omitempty"`
	Type         model.QuestionType `json:"question_type"`
	Options      []string           `json:"options,omitempty"`
	CorrectIndex *int               `json:"correct_index,omitempty"`
	CorrectText  *string            `json:"correct_text,omitempty"`
	CorrectOrder []string           `json:"correct_order,omitempty"`
	YourAnswer   *Answer            `json:"your_answer,omitempty"`
	Correct      bool               `json:"correct"`
}

// ReviewPaper discloses the answer key alongside the student's answers.
// Only available while reviewing, after the attempt completed.
func (s *Session) ReviewPaper() ([]ReviewEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReview {
		return nil, ErrNotReview
	}

	entries := make([]ReviewEntry, 0, len(s.questions))
	for i := range s.questions {
		q := &s.questions[i]
		entry := ReviewEntry{
			Prompt:       q.Prompt,
			Passage:      q.Passage,
			Type:         q.Type,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			CorrectText:  q.CorrectText,
		}
		if q.Type == model.QuestionTypeReorder {
			shown := make([]string, len(q.Presentation))
			for slot, orig := range q.Presentation {
				shown[slot] = q.Options[orig]
			}
			entry.Options = shown
			entry.CorrectOrder = q.Options
			entry.CorrectIndex = nil
		}
		if a, ok := s.answers[i]; ok {
			answer := a
			entry.YourAnswer = &answer
			entry.Correct = isCorrect(q, a)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ─── Timer callbacks ────────────────────────────────────────────────

// quizTimeout fires when the quiz-wide countdown reaches zero. A stale
// callback (epoch moved on, or the state already left ACTIVE) does nothing,
// so completion happens exactly once.
func (s *Session) quizTimeout(epoch uint64) {
	s.mu.Lock()
	if s.epoch != epoch || s.state != StateActive || s.expelled {
		s.mu.Unlock()
		return
	}
	r := s.finishLocked()
	s.mu.Unlock()
	s.log.Info().Msg("Quiz timer expired, auto-submitting")
	s.complete(r, true)
}

// questionTimeout fires when the per-question countdown reaches zero. It
// advances without the answered gate; on the last question advancing is
// completion.
func (s *Session) questionTimeout(epoch uint64, index int) {
	s.mu.Lock()
	if s.epoch != epoch || s.state != StateActive || s.current != index {
		s.mu.Unlock()
		return
	}

	if s.current == len(s.questions)-1 {
		r := s.finishLocked()
		s.mu.Unlock()
		s.log.Info().Msg("Question timer expired on last question, auto-submitting")
		s.complete(r, true)
		return
	}

	s.current++
	s.armQuestionTimerLocked()
	next := s.current
	s.mu.Unlock()

	if s.hooks.OnAdvance != nil {
		s.hooks.OnAdvance(s, next)
	}
}

// ─── Internals ──────────────────────────────────────────────────────

// armQuestionTimerLocked resets the per-question countdown for the current
// question. No-op for quizzes without a per-question limit.
func (s *Session) armQuestionTimerLocked() {
	if s.quiz.QuestionSeconds == nil {
		return
	}
	if s.questionTimer != nil {
		s.questionTimer.Stop()
	}
	d := time.Duration(*s.quiz.QuestionSeconds) * time.Second
	s.questionDeadline = time.Now().Add(d)
	epoch, index := s.epoch, s.current
	s.questionTimer = time.AfterFunc(d, func() {
		s.questionTimeout(epoch, index)
	})
}

// finishLocked grades the attempt and moves to RESULT. Callers must hold the
// lock and have verified the state is ACTIVE.
func (s *Session) finishLocked() Result {
	s.stopLocked(StateResult)
	r := Grade(s.questions, s.answers)
	s.result = &r
	return r
}

// stopLocked performs the single exit path out of ACTIVE: bump the epoch so
// in-flight timer callbacks go stale, stop both timers, set the new state.
func (s *Session) stopLocked(next State) {
	s.epoch++
	if s.quizTimer != nil {
		s.quizTimer.Stop()
	}
	if s.questionTimer != nil {
		s.questionTimer.Stop()
	}
	s.state = next
}

func (s *Session) complete(r Result, auto bool) {
	s.log.Info().
		Int("score", r.Score).
		Int("total", r.Total).
		Int("percentage", r.Percentage).
		Bool("passed", r.Passed).
		Msg("Session completed")
	if s.hooks.OnComplete != nil {
		s.hooks.OnComplete(s, r, auto)
	}
}

func remainingSeconds(deadline time.Time) int {
	left := time.Until(deadline)
	if left < 0 {
		return 0
	}
	return int(left.Seconds())
}
