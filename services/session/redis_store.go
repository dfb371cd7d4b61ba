package session

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
)

// RedisStore is a Store keeping sessions as JSON values under a per-store
// key prefix with the standard TTL. Expiry is enforced by Redis itself.
type RedisStore[T any] struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a RedisStore using the given key prefix.
func NewRedisStore[T any](client *redis.Client, prefix string) *RedisStore[T] {
	return &RedisStore[T]{client: client, prefix: prefix}
}

func (s *RedisStore[T]) key(phone string) string {
	return s.prefix + NormalizePhone(phone)
}

func (s *RedisStore[T]) Get(ctx context.Context, phone string) (T, bool, error) {
	var zero T
	data, err := s.client.Get(ctx, s.key(phone)).Result()
	if err == redis.Nil {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var value T
	if err := json.Unmarshal([]byte(data), &value); err != nil {
		return zero, false, err
	}
	return value, true, nil
}

func (s *RedisStore[T]) Set(ctx context.Context, phone string, value T) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(phone), b, TTL).Err()
}

func (s *RedisStore[T]) Clear(ctx context.Context, phone string) error {
	return s.client.Del(ctx, s.key(phone)).Err()
}

func (s *RedisStore[T]) HasActive(ctx context.Context, phone string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(phone)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
