package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/brightpath/quizhall-backend/internal/config"
	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/brightpath/quizhall-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// leaderboardSize caps the visible XP ranking.
const leaderboardSize = 100

// LeaderboardService maintains the XP ranking in a Redis sorted set.
// Completions increment members in place; Rebuild re-derives the whole set
// from the users table on startup so Redis never has to be durable.
type LeaderboardService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(userRepo *repository.UserRepository, rdb *redis.Client, log zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{
		userRepo: userRepo,
		rdb:      rdb,
		log:      log.With().Str("component", "leaderboard").Logger(),
	}
}

// Top returns the highest-ranked students with names resolved from the
// users table. Ties share their XP but keep distinct ranks in set order.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 || limit > leaderboardSize {
		limit = leaderboardSize
	}

	members, err := s.rdb.ZRevRangeWithScores(ctx, config.CacheKey.LeaderboardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(members))
	for i, m := range members {
		userID, err := strconv.Atoi(fmt.Sprint(m.Member))
		if err != nil {
			s.log.Warn().Str("member", fmt.Sprint(m.Member)).Msg("Skipping malformed leaderboard member")
			continue
		}
		entry := model.LeaderboardEntry{
			Rank:   i + 1,
			UserID: userID,
			XP:     int(m.Score),
		}
		if u, err := s.userRepo.GetByID(ctx, userID); err == nil {
			entry.Name = u.Name
			entry.Grade = u.Grade
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Rebuild replaces the sorted set with the XP totals from the users table.
// Called on startup, when Redis may have started empty.
func (s *LeaderboardService) Rebuild(ctx context.Context) error {
	users, err := s.userRepo.TopByXP(ctx, leaderboardSize)
	if err != nil {
		return fmt.Errorf("load xp totals: %w", err)
	}

	key := config.CacheKey.LeaderboardKey()
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, key)
	for _, u := range users {
		if u.XP == 0 {
			continue
		}
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(u.XP), Member: strconv.Itoa(u.ID)})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rebuild leaderboard: %w", err)
	}

	s.log.Info().Int("members", len(users)).Msg("Leaderboard rebuilt")
	return nil
}
