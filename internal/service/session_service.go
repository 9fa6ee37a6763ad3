package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/brightpath/quizhall-backend/internal/cache"
	"github.com/brightpath/quizhall-backend/internal/config"
	"github.com/brightpath/quizhall-backend/internal/engine"
	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Session orchestration errors.
var (
	ErrPremiumRequired = errors.New("quiz requires an active subscription")
	ErrNoAttempt       = errors.New("no attempt in progress")
)

// Event is a push notification produced by a live attempt for a connected
// client: timer-forced advances, grading and expulsion.
type Event struct {
	Type    string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Push event types.
const (
	EventAdvanced = "advanced"
	EventGraded   = "graded"
	EventExpelled = "expelled"
)

// AdvancePayload accompanies EventAdvanced.
type AdvancePayload struct {
	Index    int             `json:"current_index"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

// GradedPayload accompanies EventGraded.
type GradedPayload struct {
	Result engine.Result `json:"result"`
	Auto   bool          `json:"auto"`
}

// ExpelPayload accompanies EventExpelled.
type ExpelPayload struct {
	Kind string `json:"kind"`
}

// SessionService owns the live attempts: it starts engine sessions, wires
// their hooks into the Redis queues and leaderboard, and fans push events out
// to attached websocket connections.
type SessionService struct {
	registry *engine.Registry
	subs     *SubscriptionService
	quizzes  *QuizService
	store    *cache.Store
	rdb      *redis.Client
	log      zerolog.Logger

	mu        sync.Mutex
	listeners map[uuid.UUID]func(Event)
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	registry *engine.Registry,
	subs *SubscriptionService,
	quizzes *QuizService,
	store *cache.Store,
	rdb *redis.Client,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		registry:  registry,
		subs:      subs,
		quizzes:   quizzes,
		store:     store,
		rdb:       rdb,
		log:       log.With().Str("component", "session_service").Logger(),
		listeners: make(map[uuid.UUID]func(Event)),
	}
}

// StartQuiz begins a new attempt for the student. Premium quizzes require an
// active subscription; a still-active attempt on any quiz blocks a new one.
func (s *SessionService) StartQuiz(ctx context.Context, userID int, quizID uuid.UUID) (*engine.Session, error) {
	quiz, err := s.quizzes.GetWithQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if quiz.IsPremium {
		active, err := s.subs.IsActive(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, ErrPremiumRequired
		}
	}

	sess, err := engine.Start(quiz, userID, s.hooks(), s.log)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Put(sess); err != nil {
		sess.Exit()
		return nil, err
	}
	return sess, nil
}

// Current returns the student's live attempt, if any.
func (s *SessionService) Current(userID int) (*engine.Session, error) {
	sess, ok := s.registry.Get(userID)
	if !ok {
		return nil, ErrNoAttempt
	}
	return sess, nil
}

// Exit abandons the student's live attempt. Terminal-state sessions are
// simply dropped from the registry.
func (s *SessionService) Exit(userID int) error {
	sess, ok := s.registry.Get(userID)
	if !ok {
		return ErrNoAttempt
	}
	if err := sess.Exit(); err != nil && !errors.Is(err, engine.ErrNotActive) {
		return err
	}
	s.registry.Remove(userID, sess.ID())
	s.Detach(sess.ID())
	return nil
}

// Retake abandons the current attempt on a quiz (if still active) and starts
// a fresh one from the original, unshuffled definition.
func (s *SessionService) Retake(ctx context.Context, userID int) (*engine.Session, error) {
	prev, ok := s.registry.Get(userID)
	if !ok {
		return nil, ErrNoAttempt
	}
	quizID := prev.Quiz().ID
	if err := prev.Exit(); err != nil && !errors.Is(err, engine.ErrNotActive) {
		return nil, err
	}
	s.registry.Remove(userID, prev.ID())
	s.Detach(prev.ID())
	return s.StartQuiz(ctx, userID, quizID)
}

// Attach registers a push listener for a session's events. One listener per
// session; a reconnect replaces the previous connection's listener.
func (s *SessionService) Attach(sessionID uuid.UUID, fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[sessionID] = fn
}

// Detach removes a session's push listener.
func (s *SessionService) Detach(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, sessionID)
}

func (s *SessionService) push(sessionID uuid.UUID, ev Event) {
	s.mu.Lock()
	fn := s.listeners[sessionID]
	s.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// hooks wires engine callbacks into the platform: result persistence through
// the Redis queue, leaderboard increments, cache invalidation, violation
// auditing and client push events. Hooks run on timer goroutines, so each
// uses a short background context.
func (s *SessionService) hooks() engine.Hooks {
	return engine.Hooks{
		OnComplete:  s.onComplete,
		OnViolation: s.onViolation,
		OnExpel:     s.onExpel,
		OnAdvance:   s.onAdvance,
	}
}

func (s *SessionService) onComplete(sess *engine.Session, r engine.Result, auto bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	quiz := sess.Quiz()
	record := model.QuizResult{
		ID:         uuid.New(),
		SessionID:  sess.ID(),
		UserID:     sess.UserID(),
		QuizID:     quiz.ID,
		QuizTitle:  quiz.Title,
		Subject:    quiz.Subject,
		Score:      r.Score,
		Total:      r.Total,
		Percentage: r.Percentage,
		Passed:     r.Passed,
		XP:         r.XP,
		FinishedAt: time.Now(),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sess.ID().String()).Msg("Failed to marshal result")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, payload).Err(); err != nil {
		s.log.Error().Err(err).Str("session_id", sess.ID().String()).Msg("Failed to enqueue result")
	}

	if r.XP > 0 {
		if err := s.rdb.ZIncrBy(ctx, config.CacheKey.LeaderboardKey(), float64(r.XP), memberID(sess.UserID())).Err(); err != nil {
			s.log.Warn().Err(err).Int("user_id", sess.UserID()).Msg("Leaderboard increment failed")
		}
	}
	s.store.Invalidate(ctx, config.CacheKey.StudentHistoryKey(sess.UserID()))

	s.push(sess.ID(), Event{Type: EventGraded, Payload: GradedPayload{Result: r, Auto: auto}})
}

func (s *SessionService) onViolation(sess *engine.Session, kind engine.ViolationKind, verdict engine.Verdict) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record := model.QuizViolation{
		SessionID:  sess.ID(),
		UserID:     sess.UserID(),
		QuizID:     sess.Quiz().ID,
		Kind:       string(kind),
		Verdict:    string(verdict),
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sess.ID().String()).Msg("Failed to marshal violation")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistViolationsQueue, payload).Err(); err != nil {
		s.log.Error().Err(err).Str("session_id", sess.ID().String()).Msg("Failed to enqueue violation")
	}
}

func (s *SessionService) onExpel(sess *engine.Session, kind engine.ViolationKind) {
	s.registry.Remove(sess.UserID(), sess.ID())
	s.push(sess.ID(), Event{Type: EventExpelled, Payload: ExpelPayload{Kind: string(kind)}})
}

// memberID formats a user ID as a leaderboard sorted-set member.
func memberID(userID int) string {
	return strconv.Itoa(userID)
}

func (s *SessionService) onAdvance(sess *engine.Session, index int) {
	s.push(sess.ID(), Event{Type: EventAdvanced, Payload: AdvancePayload{
		Index:    index,
		Snapshot: sess.Snapshot(),
	}})
}
