package services

import (
	"context"
	"time"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// DefaultMaxAttempts is the default total number of attempts for
// retryable external calls.
const DefaultMaxAttempts = 3

// DefaultBackoffBase is the initial retry delay; it doubles per attempt.
const DefaultBackoffBase = 500 * time.Millisecond

// maxBackoff caps the exponential delay.
const maxBackoff = 10 * time.Second

// withRetry runs op up to maxAttempts times, backing off exponentially
// between attempts. Only errors wrapping domain.ErrTransientService are
// retried; everything else surfaces immediately. Context cancellation
// aborts the wait.
func withRetry(ctx context.Context, maxAttempts int, backoffBase time.Duration, op func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if backoffBase <= 0 {
		backoffBase = DefaultBackoffBase
	}

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(backoffBase, attempt-1)
			logger.Debug("Retrying after %s (attempt %d/%d)", delay, attempt+1, maxAttempts)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err = op()
		if err == nil {
			return nil
		}
		if !domain.IsRetryable(err) {
			return err
		}
		logger.Warn("Transient failure: %v", err)
	}
	return err
}

// backoffDelay returns base << attempt, capped at maxBackoff.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	d := base << attempt
	if d > maxBackoff || d <= 0 {
		return maxBackoff
	}
	return d
}
