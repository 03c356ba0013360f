package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/strogmv/chatnotify/internal/domain"
	"github.com/strogmv/chatnotify/internal/pkg/logger"
	"github.com/strogmv/chatnotify/internal/port"
)

const profileKeyPrefix = "profile:"

// CachedUserRepository is a read-through cache over another UserRepository.
// Redis failures fall through to the base store; missing users are not cached.
type CachedUserRepository struct {
	base   port.UserRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedUserRepository(base port.UserRepository, client *redis.Client, ttl time.Duration) *CachedUserRepository {
	return &CachedUserRepository{base: base, client: client, ttl: ttl}
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	key := profileKeyPrefix + id
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var u domain.User
		if jerr := json.Unmarshal(raw, &u); jerr == nil {
			return &u, nil
		}
	case !errors.Is(err, redis.Nil):
		logger.From(ctx).Debug("profile cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	u, err := r.base.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(u); err == nil {
		if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
			logger.From(ctx).Debug("profile cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return u, nil
}

// Invalidate drops the cached profile for id.
func (r *CachedUserRepository) Invalidate(ctx context.Context, id string) error {
	return r.client.Del(ctx, profileKeyPrefix+id).Err()
}

var _ port.UserRepository = (*CachedUserRepository)(nil)
