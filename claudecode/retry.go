package claudecode

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Policy bounds the retry executor. MaxRetries counts retries, not attempts:
// MaxRetries=3 means up to four attempts total, MaxRetries=0 exactly one.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func defaultPolicy() Policy {
	return Policy{MaxRetries: 3, BaseDelay: time.Second}
}

// delay returns the pause before re-attempting after attempt number
// `attempt` (0-based) failed: BaseDelay doubled per attempt, so 1s, 2s, 4s
// with the defaults.
func (p Policy) delay(attempt int) time.Duration {
	return p.BaseDelay * (1 << attempt)
}

// withRetry runs fn until it succeeds, a failure is judged non-transient, or
// the retry budget is spent. The error from the final attempt is returned
// unmodified so the classifier downstream sees the raw text. Context
// cancellation during a backoff pause also surfaces the last attempt's error.
func withRetry[T any](
	ctx context.Context,
	log zerolog.Logger,
	op string,
	policy Policy,
	retryable func(error) bool,
	fn func(context.Context) (T, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt >= policy.MaxRetries || !retryable(err) {
			return zero, lastErr
		}

		wait := policy.delay(attempt)
		log.Debug().
			Str("op", op).
			Int("attempt", attempt+1).
			Dur("backoff", wait).
			Err(err).
			Msg("transient failure, retrying")

		select {
		case <-ctx.Done():
			return zero, lastErr
		case <-time.After(wait):
		}
	}
	return zero, lastErr
}
