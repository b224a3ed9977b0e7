package revocation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "token:"

// RedisRegistry stores revoked tokens as keys with an absolute expiry, so
// Redis garbage-collects each entry exactly when the token itself lapses.
type RedisRegistry struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Registry = (*RedisRegistry)(nil)

func NewRedisRegistry(url string, logger *slog.Logger) (*RedisRegistry, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRegistry{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

func (r *RedisRegistry) Block(ctx context.Context, token string, expiresAt time.Time) error {
	key := keyPrefix + token

	if err := r.client.Set(ctx, key, "Blocked", 0).Err(); err != nil {
		return fmt.Errorf("block token: %w", err)
	}
	if err := r.client.ExpireAt(ctx, key, expiresAt).Err(); err != nil {
		return fmt.Errorf("expire token: %w", err)
	}
	return nil
}

func (r *RedisRegistry) IsBlocked(ctx context.Context, token string) bool {
	n, err := r.client.Exists(ctx, keyPrefix+token).Result()
	if err != nil {
		r.logger.WarnContext(ctx, "revocation check failed, allowing token",
			slog.String("error", err.Error()))
		return false
	}
	return n > 0
}

func (r *RedisRegistry) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRegistry) Close() error {
	return r.client.Close()
}
