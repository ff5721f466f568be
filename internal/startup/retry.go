package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/votemonitor/internal/logger"
)

// firstRetryAfter is the first pause; later pauses double up to 30s.
var firstRetryAfter = 2 * time.Second

// withRetry calls connect until it succeeds or maxWait elapses. The site must not crash
// just because its database or cache came up a bit later. maxWait <= 0 means one attempt.
func withRetry[T any](name string, maxWait time.Duration, connect func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = firstRetryAfter
	b.Multiplier = 2
	b.MaxInterval = 30 * time.Second

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Errorf("%s failed, retry in %v: %v", name, next.Round(time.Millisecond), err)
		}),
	}
	if maxWait > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(maxWait))
	} else {
		opts = append(opts, backoff.WithMaxTries(1))
	}

	v, err := backoff.Retry(context.Background(), backoff.Operation[T](connect), opts...)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s (gave up after %v): %w", name, maxWait, err)
	}
	return v, nil
}
