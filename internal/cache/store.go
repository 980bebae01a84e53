package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chirp/internal/middleware"
	"chirp/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	MediaKeyPrefix    = "media:%d"
	UserNameKeyPrefix = "user:name:%s"
)

const (
	DefaultMediaTTL = 10 * time.Minute
	UserTTL         = 5 * time.Minute
)

func MediaKey(mediaID uint) string {
	return fmt.Sprintf(MediaKeyPrefix, mediaID)
}

func UserNameKey(name string) string {
	return fmt.Sprintf(UserNameKeyPrefix, name)
}

// Store is a fail-open cache. A nil Store or a Store without a client simply
// calls through to the loader.
type Store struct {
	client *redis.Client
}

// NewStore wraps client; client may be nil.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) enabled() bool {
	return s != nil && s.client != nil
}

// Aside loads key into dest, or calls fetch (which must fill dest) and
// caches the JSON result for ttl. Cache errors never fail the call.
func (s *Store) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if !s.enabled() {
		return fetch()
	}

	raw, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			observability.CacheLookups.WithLabelValues(keyKind(key), "hit").Inc()
			return nil
		}
	} else if !errors.Is(err, redis.Nil) {
		observability.CacheLookups.WithLabelValues(keyKind(key), "error").Inc()
	}
	observability.CacheLookups.WithLabelValues(keyKind(key), "miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	payload, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

// Bytes is Aside for raw binary values.
func (s *Store) Bytes(ctx context.Context, key string, ttl time.Duration, fetch func() ([]byte, error)) ([]byte, error) {
	if !s.enabled() {
		return fetch()
	}

	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		observability.CacheLookups.WithLabelValues(keyKind(key), "hit").Inc()
		return raw, nil
	case !errors.Is(err, redis.Nil):
		observability.CacheLookups.WithLabelValues(keyKind(key), "error").Inc()
	}
	observability.CacheLookups.WithLabelValues(keyKind(key), "miss").Inc()

	body, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, key, body, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return body, nil
}

// Invalidate drops keys; failures are only logged.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if !s.enabled() || len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed", slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}

func keyKind(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
