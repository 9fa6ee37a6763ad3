package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/brightpath/quizhall-backend/internal/cache"
	"github.com/brightpath/quizhall-backend/internal/config"
	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/brightpath/quizhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Quiz authoring errors.
var (
	ErrNotQuizAuthor    = errors.New("not the quiz author")
	ErrBadQuestionShape = errors.New("question fields do not match its type")
)

// QuizService handles quiz authoring and catalog reads.
type QuizService struct {
	quizRepo *repository.QuizRepository
	store    *cache.Store
	cfg      *config.Config
	log      zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizRepo *repository.QuizRepository, store *cache.Store, cfg *config.Config, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizRepo: quizRepo,
		store:    store,
		cfg:      cfg,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// Catalog lists quizzes for students, served through the read-through cache.
func (s *QuizService) Catalog(ctx context.Context, subject, grade, category string) ([]model.Quiz, error) {
	key := config.CacheKey.QuizCatalogKey(subject, grade, category)
	return cache.Fetch(ctx, s.store, key, s.cfg.CatalogTTL, func(ctx context.Context) ([]model.Quiz, error) {
		return s.quizRepo.List(ctx, subject, grade, category)
	})
}

// GetWithQuestions loads the full quiz definition, cached by quiz ID.
func (s *QuizService) GetWithQuestions(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	key := config.CacheKey.QuizPayloadKey(id.String())
	return cache.Fetch(ctx, s.store, key, s.cfg.CatalogTTL, func(ctx context.Context) (*model.Quiz, error) {
		return s.quizRepo.GetWithQuestions(ctx, id)
	})
}

// ListByAuthor lists a teacher's own quizzes.
func (s *QuizService) ListByAuthor(ctx context.Context, authorID int) ([]model.Quiz, error) {
	return s.quizRepo.ListByAuthor(ctx, authorID)
}

// Create inserts a new quiz for the author.
func (s *QuizService) Create(ctx context.Context, quiz *model.Quiz) error {
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	s.invalidate(ctx, quiz)
	return nil
}

// Update edits a quiz in place. Only the author may edit.
func (s *QuizService) Update(ctx context.Context, authorID int, quiz *model.Quiz) error {
	existing, err := s.quizRepo.GetByID(ctx, quiz.ID)
	if err != nil {
		return fmt.Errorf("get quiz: %w", err)
	}
	if existing.AuthorID != authorID {
		return ErrNotQuizAuthor
	}
	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	s.invalidate(ctx, quiz)
	return nil
}

// Delete removes a quiz. Only the author may delete.
func (s *QuizService) Delete(ctx context.Context, id uuid.UUID, authorID int) error {
	existing, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get quiz: %w", err)
	}
	if existing.AuthorID != authorID {
		return ErrNotQuizAuthor
	}
	if err := s.quizRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.invalidate(ctx, existing)
	return nil
}

// ReplaceQuestions swaps the quiz's question set after validating every
// question's shape against its type tag. correct_index must land inside the
// options at authoring time; the session layer will still defend against
// rows that predate this check.
func (s *QuizService) ReplaceQuestions(ctx context.Context, quizID uuid.UUID, authorID int, reqs []model.AddQuestionRequest) error {
	existing, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return fmt.Errorf("get quiz: %w", err)
	}
	if existing.AuthorID != authorID {
		return ErrNotQuizAuthor
	}

	questions := make([]model.Question, 0, len(reqs))
	for i, req := range reqs {
		q := model.Question{
			Type:         model.QuestionType(req.Type),
			Prompt:       req.Prompt,
			Passage:      req.Passage,
			Options:      req.Options,
			CorrectIndex: req.CorrectIndex,
			CorrectText:  req.CorrectText,
			OrderNum:     req.OrderNum,
		}
		if q.OrderNum == 0 {
			q.OrderNum = i
		}
		if err := validateQuestion(&q); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, q)
	}

	if err := s.quizRepo.ReplaceQuestions(ctx, quizID, questions); err != nil {
		return fmt.Errorf("replace questions: %w", err)
	}
	s.invalidate(ctx, existing)
	return nil
}

func validateQuestion(q *model.Question) error {
	switch {
	case q.Type.IsChoice():
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: choice question needs at least two options", ErrBadQuestionShape)
		}
		if q.CorrectIndex == nil || *q.CorrectIndex < 0 || *q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("%w: correct_index must point into options", ErrBadQuestionShape)
		}
	case q.Type == model.QuestionTypeReorder:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: reorder question needs at least two tokens", ErrBadQuestionShape)
		}
	case q.Type == model.QuestionTypeRewrite:
		if q.CorrectText == nil || *q.CorrectText == "" {
			return fmt.Errorf("%w: rewrite question needs correct_text", ErrBadQuestionShape)
		}
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrBadQuestionShape, q.Type)
	}
	return nil
}

// invalidate drops cached views touched by an authoring mutation: the quiz
// payload plus every filter combination the quiz appears under.
func (s *QuizService) invalidate(ctx context.Context, quiz *model.Quiz) {
	keys := []string{config.CacheKey.QuizPayloadKey(quiz.ID.String())}
	for _, subject := range []string{"", quiz.Subject} {
		for _, grade := range []string{"", quiz.Grade} {
			for _, category := range []string{"", quiz.Category} {
				keys = append(keys, config.CacheKey.QuizCatalogKey(subject, grade, category))
			}
		}
	}
	s.store.Invalidate(ctx, keys...)
}
