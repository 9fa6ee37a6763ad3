package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/brightpath/quizhall-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

// SubscriptionService handles premium plan activation and the premium gate.
type SubscriptionService struct {
	subRepo *repository.SubscriptionRepository
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(subRepo *repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo}
}

// Status returns the user's subscription row, or nil when none exists.
func (s *SubscriptionService) Status(ctx context.Context, userID int) (*model.Subscription, error) {
	sub, err := s.subRepo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

// IsActive reports whether the user holds an unexpired subscription. An
// expired row counts the same as no row at all.
func (s *SubscriptionService) IsActive(ctx context.Context, userID int) (bool, error) {
	sub, err := s.Status(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.ActiveAt(time.Now()), nil
}

// Activate starts or renews the user's plan.
func (s *SubscriptionService) Activate(ctx context.Context, userID int, plan model.Plan) (*model.Subscription, error) {
	sub := &model.Subscription{
		UserID: userID,
		Plan:   plan,
	}
	if err := s.subRepo.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("activate subscription: %w", err)
	}
	return sub, nil
}
