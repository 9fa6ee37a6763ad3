package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brightpath/quizhall-backend/internal/cache"
	"github.com/brightpath/quizhall-backend/internal/config"
	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/brightpath/quizhall-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// notificationLimit caps the announcement list shown to students.
const notificationLimit = 20

// NotificationService handles teacher announcements: persistence, the cached
// list, and live fan-out over Redis PubSub for connected clients.
type NotificationService struct {
	notifRepo *repository.NotificationRepository
	store     *cache.Store
	rdb       *redis.Client
	cfg       *config.Config
	log       zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	notifRepo *repository.NotificationRepository,
	store *cache.Store,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		store:     store,
		rdb:       rdb,
		cfg:       cfg,
		log:       log.With().Str("component", "notification_service").Logger(),
	}
}

// Create persists an announcement, drops the cached list and publishes the
// new item to the live channel. Publish failures are logged, not returned:
// the announcement is already durable at that point.
func (s *NotificationService) Create(ctx context.Context, authorID int, req *model.CreateNotificationRequest) (*model.Notification, error) {
	n := &model.Notification{
		AuthorID: authorID,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.store.Invalidate(ctx, config.CacheKey.NotificationListKey())

	if payload, err := json.Marshal(n); err == nil {
		if err := s.rdb.Publish(ctx, config.CacheKey.NotificationChannel(), payload).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Notification publish failed")
		}
	}
	return n, nil
}

// List returns the latest announcements through the read-through cache.
func (s *NotificationService) List(ctx context.Context) ([]model.Notification, error) {
	key := config.CacheKey.NotificationListKey()
	return cache.Fetch(ctx, s.store, key, s.cfg.CatalogTTL, func(ctx context.Context) ([]model.Notification, error) {
		return s.notifRepo.ListLatest(ctx, notificationLimit)
	})
}

// Subscribe opens the live announcement stream. The caller owns the returned
// PubSub and must close it.
func (s *NotificationService) Subscribe(ctx context.Context) *redis.PubSub {
	return s.rdb.Subscribe(ctx, config.CacheKey.NotificationChannel())
}
