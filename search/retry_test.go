package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryFixedDelay_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryFixedDelay(context.Background(), func() error {
		calls++
		return nil
	}, 3, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryFixedDelay_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := RetryFixedDelay(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, 3, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryFixedDelay_ExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("persistent")
	err := RetryFixedDelay(context.Background(), func() error {
		calls++
		return wantErr
	}, 3, time.Millisecond)

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, calls)
}

func TestRetryFixedDelay_InvalidMaxAttempts(t *testing.T) {
	err := RetryFixedDelay(context.Background(), func() error { return nil }, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRetryFixedDelay_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryFixedDelay(ctx, func() error {
		calls++
		return nil
	}, 3, time.Millisecond)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestRetryFixedDelay_CancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- RetryFixedDelay(ctx, func() error {
			calls++
			return errors.New("always fails")
		}, 3, time.Minute)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("retry did not observe cancellation")
	}
}
