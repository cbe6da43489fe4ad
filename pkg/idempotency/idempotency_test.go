package idempotency_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/checkout-service/pkg/idempotency"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*idempotency.Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return idempotency.NewStore(client, "checkout", time.Hour), mr
}

func TestStore_ReserveCompleteReplay(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, replay, err := store.Reserve(ctx, "create_order", "key-1")
	require.NoError(t, err)
	assert.False(t, replay)

	_, _, err = store.Reserve(ctx, "create_order", "key-1")
	assert.ErrorIs(t, err, idempotency.ErrInProgress)

	want := idempotency.Response{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"order_number":"ORD-1"}`)}
	require.NoError(t, store.Complete(ctx, "create_order", "key-1", want))

	got, replay, err := store.Reserve(ctx, "create_order", "key-1")
	require.NoError(t, err)
	assert.True(t, replay)
	assert.Equal(t, 201, got.StatusCode)
	assert.Equal(t, "application/json", got.ContentType)
	assert.JSONEq(t, `{"order_number":"ORD-1"}`, string(got.Body))
}

func TestStore_Release(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "create_order", "key-1")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "create_order", "key-1"))

	_, replay, err := store.Reserve(ctx, "create_order", "key-1")
	require.NoError(t, err)
	assert.False(t, replay)
}

func TestStore_KeysAreScopedByOperation(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "create_order", "key-1")
	require.NoError(t, err)
	_, replay, err := store.Reserve(ctx, "other", "key-1")
	require.NoError(t, err)
	assert.False(t, replay)

	assert.True(t, mr.Exists("checkout:create_order:key-1"))
	assert.True(t, mr.Exists("checkout:other:key-1"))
}

func TestStore_ReservationExpires(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "create_order", "key-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, replay, err := store.Reserve(ctx, "create_order", "key-1")
	require.NoError(t, err)
	assert.False(t, replay)
}

func TestStore_RedisDown(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	_, _, err := store.Reserve(context.Background(), "create_order", "key-1")
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	r := httptest.NewRequest("POST", "/orders", nil)
	r.Header.Set(idempotency.Header, "  abc  ")
	assert.Equal(t, "abc", idempotency.Key(r))
}
