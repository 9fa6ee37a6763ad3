package service

import (
	"context"

	"github.com/brightpath/quizhall-backend/internal/cache"
	"github.com/brightpath/quizhall-backend/internal/config"
	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/brightpath/quizhall-backend/internal/repository"
)

// historyLimit caps the result rows returned per student.
const historyLimit = 50

// ResultService serves persisted attempt history.
type ResultService struct {
	resultRepo *repository.ResultRepository
	store      *cache.Store
	cfg        *config.Config
}

// NewResultService creates a new ResultService.
func NewResultService(resultRepo *repository.ResultRepository, store *cache.Store, cfg *config.Config) *ResultService {
	return &ResultService{resultRepo: resultRepo, store: store, cfg: cfg}
}

// History returns a student's completed attempts, newest first. The cached
// copy is invalidated whenever a new result is enqueued or persisted.
func (s *ResultService) History(ctx context.Context, userID int) ([]model.QuizResult, error) {
	key := config.CacheKey.StudentHistoryKey(userID)
	return cache.Fetch(ctx, s.store, key, s.cfg.CatalogTTL, func(ctx context.Context) ([]model.QuizResult, error) {
		return s.resultRepo.ListByUser(ctx, userID, historyLimit)
	})
}

// AttemptCount returns how many attempts a quiz has recorded.
func (s *ResultService) AttemptCount(ctx context.Context, quizID string) (int64, error) {
	return s.resultRepo.CountByQuiz(ctx, quizID)
}
