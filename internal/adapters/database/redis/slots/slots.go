package slots

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Storage keeps string slots in redis without expiration
type Storage struct {
	redis  *redis.Client
	prefix string
}

func NewStorage(client *redis.Client, prefix string) *Storage {
	return &Storage{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.redis.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *Storage) Set(ctx context.Context, key string, value string) error {
	return s.redis.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	return s.redis.Del(ctx, s.prefix+key).Err()
}
