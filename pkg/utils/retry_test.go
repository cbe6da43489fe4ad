package utils_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/checkout-service/pkg/utils"
	"github.com/stretchr/testify/assert"
)

var fastRetry = utils.RetryConfig{MaxAttempts: 4, InitialDelay: time.Millisecond, Multiplier: 2}

func TestRetry(t *testing.T) {
	errTemp := errors.New("temporary")
	errFatal := errors.New("fatal")

	testCases := []struct {
		name         string
		results      []error
		stopOn       []error
		wantErr      error
		wantAttempts int
	}{
		{
			name:         "first attempt succeeds",
			results:      []error{nil},
			wantAttempts: 1,
		},
		{
			name:         "succeeds after failures",
			results:      []error{errTemp, errTemp, nil},
			wantAttempts: 3,
		},
		{
			name:         "gives up after max attempts",
			results:      []error{errTemp, errTemp, errTemp, errTemp},
			wantErr:      errTemp,
			wantAttempts: 4,
		},
		{
			name:         "stops on listed error",
			results:      []error{errFatal},
			stopOn:       []error{errFatal},
			wantErr:      errFatal,
			wantAttempts: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			attempts := 0
			err := utils.Retry(context.Background(), fastRetry, func() error {
				err := tc.results[attempts]
				attempts++
				return err
			}, tc.stopOn...)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantAttempts, attempts)
		})
	}
}

func TestRetryIf(t *testing.T) {
	errConflict := errors.New("conflict")
	attempts := 0

	err := utils.RetryIf(context.Background(), fastRetry, func() error {
		attempts++
		if attempts < 3 {
			return errConflict
		}
		return errors.New("other")
	}, func(err error) bool { return errors.Is(err, errConflict) })

	assert.EqualError(t, err, "other")
	assert.Equal(t, 3, attempts)
}

func TestRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := utils.Retry(ctx, utils.RetryConfig{MaxAttempts: 5, InitialDelay: time.Hour}, func() error {
		attempts++
		return errors.New("temporary")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := utils.RetryConfig{InitialDelay: time.Second, MaxDelay: 10 * time.Second, Multiplier: 2}

	testCases := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: time.Second},
		{attempt: 2, want: 2 * time.Second},
		{attempt: 4, want: 8 * time.Second},
		{attempt: 5, want: 10 * time.Second},
		{attempt: 50, want: 10 * time.Second},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, cfg.Backoff(tc.attempt), "attempt %d", tc.attempt)
	}

	assert.Equal(t, 100*time.Millisecond, utils.RetryConfig{}.Backoff(1))
}
