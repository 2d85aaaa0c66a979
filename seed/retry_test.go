package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff_Success(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return nil
	}

	err := RetryWithBackoff(context.Background(), operation, 3, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts, "should succeed on first try")
}

func TestRetryWithBackoff_SingleRetry(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		if attempts == 1 {
			return errors.New("edge function timeout")
		}
		return nil
	}

	start := time.Now()
	err := RetryWithBackoff(context.Background(), operation, 2, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond, "should wait baseDelay before retrying")
}

func TestRetryWithBackoff_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("persistent error")
	operation := func() error {
		attempts++
		return expectedErr
	}

	err := RetryWithBackoff(context.Background(), operation, 3, time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, expectedErr, err, "should return the original error")
	assert.Equal(t, 3, attempts, "should attempt exactly maxAttempts times")
}

func TestRetryWithBackoff_NoRetry(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		return errors.New("fail")
	}, 1, time.Hour)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	operation := func() error {
		attempts++
		if attempts == 2 {
			cancel() // Cancel after second attempt
		}
		return errors.New("error")
	}

	err := RetryWithBackoff(ctx, operation, 10, 10*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled, "should return context.Canceled")
	assert.Equal(t, 2, attempts, "should stop when context is canceled")
}

func TestRetryWithBackoff_ContextTimeoutDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	attempts := 0
	err := RetryWithBackoff(ctx, func() error {
		attempts++
		return errors.New("error")
	}, 3, time.Second)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBackoff_InvalidMaxAttempts(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
	}{
		{"zero attempts", 0},
		{"negative attempts", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RetryWithBackoff(context.Background(), func() error { return nil }, tt.maxAttempts, time.Millisecond)
			assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		name    string
		base    time.Duration
		attempt int
		want    time.Duration
	}{
		{"first retry waits base", time.Second, 1, time.Second},
		{"second retry doubles", time.Second, 2, 2 * time.Second},
		{"third retry doubles again", time.Second, 3, 4 * time.Second},
		{"capped", time.Second, 10, MaxRetryDelay},
		{"shift past 64 bits stays capped", time.Second, 100, MaxRetryDelay},
		{"huge attempt count", 100 * time.Millisecond, 1 << 30, MaxRetryDelay},
		{"base above cap is kept", time.Minute, 5, time.Minute},
		{"zero base", 0, 7, 0},
		{"negative base", -time.Second, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, backoffDelay(tt.base, tt.attempt))
		})
	}
}

func TestBackoffDelay_StaysPositiveAndBounded(t *testing.T) {
	for attempt := 1; attempt < 200; attempt++ {
		d := backoffDelay(time.Millisecond, attempt)
		require.Positive(t, d, "attempt %d", attempt)
		require.LessOrEqual(t, d, MaxRetryDelay, "attempt %d", attempt)
	}
}

func TestSleep(t *testing.T) {
	require.NoError(t, sleep(context.Background(), 0))
	require.NoError(t, sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, sleep(ctx, 0), context.Canceled)
}
