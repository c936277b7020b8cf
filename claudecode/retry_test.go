package claudecode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyDelay(t *testing.T) {
	p := defaultPolicy()

	assert.Equal(t, 1*time.Second, p.delay(0))
	assert.Equal(t, 2*time.Second, p.delay(1))
	assert.Equal(t, 4*time.Second, p.delay(2))
}

func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	policy := Policy{MaxRetries: 3, BaseDelay: time.Millisecond}
	calls := 0

	result, err := withRetry(context.Background(), zerolog.Nop(), "op", policy,
		func(error) bool { return true },
		func(context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("socket hang up")
			}
			return "ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestWithRetryStopsOnNonRetryableError(t *testing.T) {
	policy := Policy{MaxRetries: 3, BaseDelay: time.Millisecond}
	cause := errors.New("invalid token")
	calls := 0

	_, err := withRetry(context.Background(), zerolog.Nop(), "op", policy,
		func(error) bool { return false },
		func(context.Context) (string, error) {
			calls++
			return "", cause
		})

	assert.Equal(t, 1, calls)
	assert.Same(t, cause, err, "the final attempt's error must surface unmodified")
}

func TestWithRetryZeroBudgetMeansOneAttempt(t *testing.T) {
	policy := Policy{MaxRetries: 0, BaseDelay: time.Second}
	calls := 0
	start := time.Now()

	_, err := withRetry(context.Background(), zerolog.Nop(), "op", policy,
		func(error) bool { return true },
		func(context.Context) (int, error) {
			calls++
			return 0, errors.New("overloaded")
		})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "no backoff pause should happen")
}

func TestWithRetryExhaustsBudget(t *testing.T) {
	policy := Policy{MaxRetries: 2, BaseDelay: time.Millisecond}
	cause := errors.New("rate limit exceeded")
	calls := 0

	_, err := withRetry(context.Background(), zerolog.Nop(), "op", policy,
		func(error) bool { return true },
		func(context.Context) (int, error) {
			calls++
			return 0, cause
		})

	assert.Equal(t, 3, calls, "MaxRetries=2 allows three attempts total")
	assert.Same(t, cause, err)
}

func TestWithRetryContextCancelDuringBackoff(t *testing.T) {
	policy := Policy{MaxRetries: 5, BaseDelay: time.Minute}
	cause := errors.New("temporarily unavailable")
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := withRetry(ctx, zerolog.Nop(), "op", policy,
		func(error) bool { return true },
		func(context.Context) (int, error) {
			calls++
			cancel()
			return 0, cause
		})

	assert.Equal(t, 1, calls)
	assert.Same(t, cause, err, "cancellation surfaces the last attempt's error")
}
