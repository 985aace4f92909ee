package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyRegistry remembers which order was created for an
// Idempotency-Key so that a resubmitted POST replays the first result.
// Key format: idempotency:pedidos:<key>
type IdempotencyRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyRegistry(client *redis.Client) *IdempotencyRegistry {
	return &IdempotencyRegistry{client: client, ttl: idempotencyTTL}
}

// Lookup returns the order id stored under key, if any.
func (r *IdempotencyRegistry) Lookup(ctx context.Context, key string) (int, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: corrupt value %q", v)
	}
	return id, true, nil
}

// Remember stores orderID under key unless the key is already taken.
func (r *IdempotencyRegistry) Remember(ctx context.Context, key string, orderID int) error {
	if err := r.client.SetNX(ctx, r.key(key), strconv.Itoa(orderID), r.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (r *IdempotencyRegistry) key(key string) string {
	return "idempotency:pedidos:" + key
}
