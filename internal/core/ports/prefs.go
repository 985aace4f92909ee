package ports

import "context"

// PrefsStore is a flat string key-value store for local client state.
type PrefsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes every pair in one batch.
	Set(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
