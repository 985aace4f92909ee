package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PrefsStore keeps one preference profile in a Redis hash.
// Key format: prefs:<profile>
type PrefsStore struct {
	client *redis.Client
	key    string
}

func NewPrefsStore(client *redis.Client, profile string) *PrefsStore {
	return &PrefsStore{client: client, key: "prefs:" + profile}
}

func (s *PrefsStore) Get(ctx context.Context, field string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("prefs get %s: %w", field, err)
	}
	return v, true, nil
}

func (s *PrefsStore) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]any, 0, len(values)*2)
	for k, v := range values {
		args = append(args, k, v)
	}
	if err := s.client.HSet(ctx, s.key, args...).Err(); err != nil {
		return fmt.Errorf("prefs set: %w", err)
	}
	return nil
}

func (s *PrefsStore) Delete(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.key, fields...).Err(); err != nil {
		return fmt.Errorf("prefs delete: %w", err)
	}
	return nil
}

func (s *PrefsStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("prefs clear: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *PrefsStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
