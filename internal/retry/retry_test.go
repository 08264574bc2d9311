package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingSleep(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestDoRetriesUntilExhausted(t *testing.T) {
	var waits []time.Duration
	policy := Policy{MaxAttempts: 3, BaseDelay: 4 * time.Second, MaxDelay: 10 * time.Second, Sleep: recordingSleep(&waits)}

	calls := 0
	_, err := Do(context.Background(), policy, "lexica", func(context.Context) (string, error) {
		calls++
		return "", errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{4 * time.Second, 8 * time.Second}, waits)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDoStopsOnSuccess(t *testing.T) {
	var waits []time.Duration
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Second, Sleep: recordingSleep(&waits)}

	calls := 0
	got, err := Do(context.Background(), policy, "op", func(context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("timeout")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 2, calls)
	assert.Len(t, waits, 1)
}

func TestDoPermanentErrorIsNotRetried(t *testing.T) {
	policy := Policy{MaxAttempts: 5, Sleep: func(context.Context, time.Duration) error { return nil }}
	decodeErr := errors.New("bad json")

	calls := 0
	_, err := Do(context.Background(), policy, "op", func(context.Context) (struct{}, error) {
		calls++
		return struct{}{}, Permanent(decodeErr)
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, decodeErr)
	assert.True(t, IsPermanent(err))
}

func TestDoHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, Policy{MaxAttempts: 3, BaseDelay: time.Hour}, "op", func(context.Context) (int, error) {
		calls++
		return 0, errors.New("boom")
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffCaps(t *testing.T) {
	p := Policy{BaseDelay: 4 * time.Second, MaxDelay: 10 * time.Second}

	assert.Equal(t, 4*time.Second, p.Backoff(1))
	assert.Equal(t, 8*time.Second, p.Backoff(2))
	assert.Equal(t, 10*time.Second, p.Backoff(3))
	assert.Equal(t, 10*time.Second, p.Backoff(9))
	assert.Nil(t, Permanent(nil))
}
