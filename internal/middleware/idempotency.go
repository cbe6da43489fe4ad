package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/SergeyBogomolovv/checkout-service/pkg/idempotency"
	"github.com/SergeyBogomolovv/checkout-service/pkg/utils"
)

const maxIdempotencyKeyLen = 255

type IdempotencyStore interface {
	Reserve(ctx context.Context, operation, key string) (idempotency.Response, bool, error)
	Complete(ctx context.Context, operation, key string, res idempotency.Response) error
	Release(ctx context.Context, operation, key string) error
}

// Idempotency makes requests carrying an Idempotency-Key execute at most once per key.
// Successful responses are stored and replayed byte for byte; any other outcome frees
// the key so the client can retry. Requests without the header pass through.
func Idempotency(logger *slog.Logger, store IdempotencyStore, operation string) func(next http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "idempotency"), slog.String("operation", operation))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := idempotency.Key(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxIdempotencyKeyLen {
				utils.WriteError(w, entities.Code(entities.ErrInvalidRequest), "idempotency key is too long", http.StatusBadRequest)
				return
			}

			ctx := r.Context()
			res, replay, err := store.Reserve(ctx, operation, key)
			switch {
			case errors.Is(err, idempotency.ErrInProgress):
				idempotentRequests.WithLabelValues("conflict").Inc()
				utils.WriteError(w, entities.Code(entities.ErrIdempotencyConflict), entities.ErrIdempotencyConflict.Error(), http.StatusConflict)
				return
			case err != nil:
				logger.ErrorContext(ctx, "failed to reserve idempotency key", slog.Any("error", err))
				utils.WriteError(w, "idempotency_unavailable", "idempotency store unavailable", http.StatusServiceUnavailable)
				return
			case replay:
				idempotentRequests.WithLabelValues("replayed").Inc()
				if res.ContentType != "" {
					w.Header().Set("Content-Type", res.ContentType)
				}
				w.WriteHeader(res.StatusCode)
				w.Write(res.Body)
				return
			}

			rw := wrapResponseWriter(w)
			rw.body = &bytes.Buffer{}
			defer func() {
				// a panic must not leave the key reserved until it expires
				if p := recover(); p != nil {
					release(ctx, logger, store, operation, key)
					panic(p)
				}
			}()

			next.ServeHTTP(rw, r)

			// the order exists once the handler answered, even if the client went away
			ctx = context.WithoutCancel(ctx)
			// A failed request may be retried with the same key. The key also reaches the
			// payment processor, so a retry after a capture resolves to the same charge.
			if rw.status < 200 || rw.status >= 300 {
				idempotentRequests.WithLabelValues("released").Inc()
				release(ctx, logger, store, operation, key)
				return
			}

			idempotentRequests.WithLabelValues("stored").Inc()
			err = store.Complete(ctx, operation, key, idempotency.Response{
				StatusCode:  rw.status,
				ContentType: rw.Header().Get("Content-Type"),
				Body:        rw.body.Bytes(),
			})
			if err != nil {
				logger.ErrorContext(ctx, "failed to store idempotent response",
					slog.String("key", key),
					slog.Any("error", err),
				)
			}
		})
	}
}

func release(ctx context.Context, logger *slog.Logger, store IdempotencyStore, operation, key string) {
	if err := store.Release(ctx, operation, key); err != nil {
		logger.ErrorContext(ctx, "failed to release idempotency key",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
