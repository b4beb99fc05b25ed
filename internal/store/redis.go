package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/youruser/vcardapp/internal/card"
)

type redisStringStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps the design as a JSON string under one key.
type RedisStore struct {
	client redisStringStore
	key    string
}

func NewRedisStore(client redisStringStore, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, doc card.Document) error {
	b, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, string(b), 0).Err(); err != nil {
		return fmt.Errorf("save design to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (card.Document, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return card.Document{}, ErrNotFound
	}
	if err != nil {
		return card.Document{}, fmt.Errorf("load design from redis: %w", err)
	}
	return Decode([]byte(raw))
}
