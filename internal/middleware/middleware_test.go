package middleware_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/checkout-service/internal/middleware"
	"github.com/SergeyBogomolovv/checkout-service/pkg/idempotency"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T) (*idempotency.Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return idempotency.NewStore(client, "checkout", time.Hour), mr
}

// countingHandler answers with status and counts how often it ran.
func countingHandler(status int, body string, calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

func post(h http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(idempotency.Header, key)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIdempotency_ReplaysSuccess(t *testing.T) {
	store, _ := newStore(t)
	calls := 0
	h := middleware.Idempotency(testLogger(), store, "create_order")(
		countingHandler(http.StatusCreated, `{"order_number":"ORD-1"}`, &calls),
	)

	first := post(h, "key-1")
	second := post(h, "key-1")

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
}

func TestIdempotency_WithoutKey(t *testing.T) {
	store, _ := newStore(t)
	calls := 0
	h := middleware.Idempotency(testLogger(), store, "create_order")(
		countingHandler(http.StatusCreated, `{}`, &calls),
	)

	post(h, "")
	post(h, "")

	assert.Equal(t, 2, calls)
}

func TestIdempotency_FailureReleasesKey(t *testing.T) {
	store, _ := newStore(t)
	calls := 0
	h := middleware.Idempotency(testLogger(), store, "create_order")(
		countingHandler(http.StatusPaymentRequired, `{"code":"payment_declined"}`, &calls),
	)

	assert.Equal(t, http.StatusPaymentRequired, post(h, "key-1").Code)
	assert.Equal(t, http.StatusPaymentRequired, post(h, "key-1").Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_InProgress(t *testing.T) {
	store, _ := newStore(t)
	_, _, err := store.Reserve(context.Background(), "create_order", "key-1")
	require.NoError(t, err)

	calls := 0
	h := middleware.Idempotency(testLogger(), store, "create_order")(
		countingHandler(http.StatusCreated, `{}`, &calls),
	)

	rr := post(h, "key-1")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"idempotency_conflict"`)
	assert.Zero(t, calls)
}

func TestIdempotency_KeysAreScopedByOperation(t *testing.T) {
	store, _ := newStore(t)
	calls := 0
	next := countingHandler(http.StatusCreated, `{}`, &calls)

	post(middleware.Idempotency(testLogger(), store, "create_order")(next), "key-1")
	post(middleware.Idempotency(testLogger(), store, "refund_order")(next), "key-1")

	assert.Equal(t, 2, calls)
}

func TestIdempotency_StoreUnavailable(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	calls := 0
	h := middleware.Idempotency(testLogger(), store, "create_order")(
		countingHandler(http.StatusCreated, `{}`, &calls),
	)

	rr := post(h, "key-1")

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Zero(t, calls)
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	store, _ := newStore(t)
	calls := 0
	h := middleware.Idempotency(testLogger(), store, "create_order")(
		countingHandler(http.StatusCreated, `{}`, &calls),
	)

	rr := post(h, strings.Repeat("k", 256))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, calls)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)
	r.Get("/orders/{order_number}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orders/ORD-1", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, buf.String(), `"status":404`)
	assert.Contains(t, buf.String(), `"path":"/orders/ORD-1"`)
	assert.Contains(t, buf.String(), `"request_id":`)
}
