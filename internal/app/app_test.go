package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/SergeyBogomolovv/checkout-service/internal/app"
	"github.com/SergeyBogomolovv/checkout-service/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type starterFunc func(ctx context.Context) error

func (f starterFunc) Start(ctx context.Context) error { return f(ctx) }

type blockingConsumer struct {
	stop   chan struct{}
	closed atomic.Bool
}

func (c *blockingConsumer) Consume(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-c.stop:
	}
}

func (c *blockingConsumer) Close() error {
	c.closed.Store(true)
	close(c.stop)
	return nil
}

type routes struct{ initialized bool }

func (r *routes) Init(chi.Router) { r.initialized = true }

func testConfig() config.Config {
	cfg := config.New()
	cfg.HTTP = config.HTTP{Host: "127.0.0.1", Port: "0"}
	return cfg
}

func TestApplication_Lifecycle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(logger, testConfig())

	h := &routes{}
	consumer := &blockingConsumer{stop: make(chan struct{})}
	started := false

	a.SetHTTPHandlers(h)
	a.SetConsumers(consumer)
	a.SetStarters(starterFunc(func(context.Context) error {
		started = true
		return nil
	}))

	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, a.Stop())

	assert.True(t, h.initialized)
	assert.True(t, started)
	assert.True(t, consumer.closed.Load())
}

func TestApplication_StarterFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(logger, testConfig())

	warmUpErr := errors.New("db unavailable")
	a.SetStarters(starterFunc(func(context.Context) error { return warmUpErr }))

	assert.ErrorIs(t, a.Start(context.Background()), warmUpErr)
}
