package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SecUserIDRepository caches link -> sec_user_id resolutions.
type SecUserIDRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewSecUserIDRepository(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *SecUserIDRepository {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "sec_user_id_cache").Logger()
	}
	return &SecUserIDRepository{client: client, ttl: ttl, logger: l}
}

// Get returns the cached id for link. A miss returns ("", false, nil).
func (r *SecUserIDRepository) Get(ctx context.Context, link string) (string, bool, error) {
	if r == nil || r.client == nil {
		return "", false, nil
	}

	val, err := r.client.Get(ctx, SecUserIDKey(link)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "failed to read sec_user_id cache")
	}

	return val, val != "", nil
}

// Set stores id for link. Empty ids are never cached.
func (r *SecUserIDRepository) Set(ctx context.Context, link, id string) error {
	if r == nil || r.client == nil || id == "" {
		return nil
	}

	if err := r.client.Set(ctx, SecUserIDKey(link), id, r.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to write sec_user_id cache")
	}

	r.logger.Debug().Str("sec_user_id", id).Dur("ttl", r.ttl).Msg("cached sec_user_id")
	return nil
}
