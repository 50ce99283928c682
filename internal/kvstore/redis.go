package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"minimarket/pkg/platform/sentinel"
)

const redisKeyPrefix = "mm:kv:"

// Redis stores entries as plain string keys with an optional TTL that is
// refreshed on every write.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", errors.Join(sentinel.ErrUnavailable, err)
	}
	return v, nil
}

func (s *Redis) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, s.ttl).Err(); err != nil {
		return errors.Join(sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *Redis) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return errors.Join(sentinel.ErrUnavailable, err)
	}
	return nil
}
