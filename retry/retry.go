package retry

import (
	"context"
	"time"

	"github.com/bsv-blockchain/go-p2psync/ulogger"
)

// Do calls fn until it succeeds, the retry budget is exhausted, or ctx is
// cancelled, backing off between attempts per the configured Options.
func Do(ctx context.Context, logger ulogger.Logger, fn func() error, opts ...Options) error {
	s := newSettings(opts...)

	var lastErr error
	wait := s.backoffDuration

	for attempt := 1; s.infiniteRetry || attempt <= s.retryCount; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		logger.Warnf("%sattempt %d failed: %v", s.message, attempt, lastErr)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}

		if s.exponentialBackoff {
			wait = time.Duration(float64(wait) * s.backoffFactor)
			if wait > s.maxBackoff {
				wait = s.maxBackoff
			}
		} else {
			wait = wait * time.Duration(s.backoffMultiplier)
		}
	}

	return lastErr
}
