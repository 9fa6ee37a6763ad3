package repository

import (
	"context"

	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository handles announcement data access.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a new announcement.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	n.ID = uuid.New()
	return r.pool.QueryRow(ctx,
		`INSERT INTO notifications (id, author_id, title, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		n.ID, n.AuthorID, n.Title, n.Body,
	).Scan(&n.CreatedAt)
}

// ListLatest retrieves the most recent announcements.
func (r *NotificationRepository) ListLatest(ctx context.Context, limit int) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, author_id, title, body, created_at
		 FROM notifications
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.AuthorID, &n.Title, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}
