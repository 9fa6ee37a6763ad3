package repository

import (
	"context"
	"time"

	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriptionRepository handles premium subscription data access.
type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

// GetByUser retrieves a user's subscription row, if any.
func (r *SubscriptionRepository) GetByUser(ctx context.Context, userID int) (*model.Subscription, error) {
	s := &model.Subscription{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, plan, started_at, expires_at
		 FROM subscriptions
		 WHERE user_id = $1`, userID,
	).Scan(&s.ID, &s.UserID, &s.Plan, &s.StartedAt, &s.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert activates or renews a subscription. Renewing an active plan
// extends from the current expiry rather than restarting from now.
func (r *SubscriptionRepository) Upsert(ctx context.Context, s *model.Subscription) error {
	now := time.Now()
	return r.pool.QueryRow(ctx,
		`INSERT INTO subscriptions (user_id, plan, started_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET plan = EXCLUDED.plan,
		     started_at = CASE WHEN subscriptions.expires_at > NOW()
		                       THEN subscriptions.started_at
		                       ELSE EXCLUDED.started_at END,
		     expires_at = CASE WHEN subscriptions.expires_at > NOW()
		                       THEN subscriptions.expires_at + (EXCLUDED.expires_at - EXCLUDED.started_at)
		                       ELSE EXCLUDED.expires_at END
		 RETURNING id, started_at, expires_at`,
		s.UserID, s.Plan, now, now.Add(s.Plan.Duration()),
	).Scan(&s.ID, &s.StartedAt, &s.ExpiresAt)
}
