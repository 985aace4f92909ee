package ports

import "context"

type idempotencyKeyCtx struct{}

// WithIdempotencyKey makes order creations sent with ctx carry key, so the
// backend can replay instead of creating a duplicate.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyCtx{}, key)
}

func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKeyCtx{}).(string)
	return key
}
