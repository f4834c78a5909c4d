// Package redisstore keeps state slots as fields of a single Redis hash.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"psrental-backend/internal/logger"
	"psrental-backend/internal/repository"
)

type Store struct {
	client *redis.Client
	key    string
}

var _ repository.SlotRepository = (*Store)(nil)

// Open parses a redis:// URL and verifies the server is reachable.
func Open(ctx context.Context, url, key string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return New(client, key), nil
}

func New(client *redis.Client, key string) *Store {
	return &Store{client: client, key: key}
}

func (s *Store) LoadSlots(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	logger.PersistCall("redis.load", len(keys), "hash", s.key)
	values, err := s.client.HMGet(ctx, s.key, keys...).Result()
	logger.PersistResult("redis.load", len(keys), err, "hash", s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load slots: %w", err)
	}

	for i, v := range values {
		if str, ok := v.(string); ok {
			out[keys[i]] = []byte(str)
		}
	}
	return out, nil
}

// SaveSlots writes every slot plus an updated_on marker inside one MULTI/EXEC block.
func (s *Store) SaveSlots(ctx context.Context, slots map[string][]byte) error {
	if len(slots) == 0 {
		return nil
	}

	fields := make([]any, 0, len(slots)*2)
	for k, v := range slots {
		fields = append(fields, k, string(v))
	}

	logger.PersistCall("redis.save", len(slots), "hash", s.key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, fields...)
		pipe.HSet(ctx, s.key+":meta", "updated_on", time.Now().UTC().Format(time.RFC3339))
		return nil
	})
	logger.PersistResult("redis.save", len(slots), err, "hash", s.key)
	if err != nil {
		return fmt.Errorf("failed to save slots: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
