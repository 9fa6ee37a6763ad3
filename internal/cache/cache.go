package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Store is a Redis-backed read-through cache with explicit invalidation.
// Every cached read goes through the same (key, ttl, fetcher) path, so TTL
// handling and serialization live in one place instead of being re-rolled
// at every call site.
type Store struct {
	rdb *redis.Client
	log zerolog.Logger
}

func New(rdb *redis.Client, log zerolog.Logger) *Store {
	return &Store{
		rdb: rdb,
		log: log.With().Str("component", "cache").Logger(),
	}
}

// Fetch returns the cached value under key, falling back to fetcher on a
// miss and re-caching the result for ttl. Cache-layer failures degrade to a
// live fetch; they never fail the request.
func Fetch[T any](ctx context.Context, s *Store, key string, ttl time.Duration, fetcher func(context.Context) (T, error)) (T, error) {
	var value T

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		if unmarshalErr := json.Unmarshal(raw, &value); unmarshalErr == nil {
			return value, nil
		}
		// Corrupt entry: drop it and refetch.
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed, fetching live")
	}

	value, err = fetcher(ctx)
	if err != nil {
		return value, err
	}

	if raw, marshalErr := json.Marshal(value); marshalErr == nil {
		if setErr := s.rdb.Set(ctx, key, raw, ttl).Err(); setErr != nil {
			s.log.Warn().Err(setErr).Str("key", key).Msg("Cache write failed")
		}
	}
	return value, nil
}

// Invalidate removes the given keys so the next Fetch refetches live data.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Strs("keys", keys).Msg("Cache invalidation failed")
	}
}
