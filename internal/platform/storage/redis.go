package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each document as a plain string value under prefix+key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s%s", ErrNotFound, s.prefix, key)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("storage: redis set %s: %w", key, err)
	}
	return nil
}
