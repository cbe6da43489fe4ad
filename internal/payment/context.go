package payment

import "context"

type idempotencyKey struct{}

// WithIdempotencyKey attaches the client's idempotency key to ctx. Processors forward
// it so a retried checkout resolves to the same charge.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, idempotencyKey{}, key)
}

func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKey{}).(string)
	return key
}
