package utils

import (
	"context"
	"errors"
	"time"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// Retry calls fn until it succeeds, attempts run out, ctx is done or fn returns one of stopOn.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error, stopOn ...error) error {
	return RetryIf(ctx, cfg, fn, func(err error) bool {
		for _, target := range stopOn {
			if errors.Is(err, target) {
				return false
			}
		}
		return true
	})
}

// RetryIf retries only while retryable reports true for the returned error.
func RetryIf(ctx context.Context, cfg RetryConfig, fn func() error, retryable func(error) bool) error {
	cfg = cfg.withDefaults()

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if attempt == cfg.MaxAttempts || !retryable(err) {
			return err
		}

		timer := time.NewTimer(cfg.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
	return nil
}

// Backoff is the wait after the given failed attempt, counting from 1:
// InitialDelay grown by Multiplier per attempt and capped at MaxDelay.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	c = c.withDefaults()
	delay := float64(c.InitialDelay)
	for range attempt - 1 {
		delay *= c.Multiplier
		if c.MaxDelay > 0 && delay >= float64(c.MaxDelay) {
			return c.MaxDelay
		}
	}
	return time.Duration(delay)
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Multiplier <= 1 {
		c.Multiplier = 2.0
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = time.Millisecond * 100
	}
	return c
}
