// Package retry provides a configurable retry-with-backoff helper, used by
// cmd/p2psync-node to dial and handshake a peer, and available to any other
// collaborator that talks to a peer over an unreliable connection.
package retry

import "time"

// Options configures a Do call.
type Options func(s *settings)

type settings struct {
	message             string
	backoffDuration     time.Duration
	backoffMultiplier   int
	retryCount          int
	infiniteRetry       bool
	exponentialBackoff  bool
	backoffFactor       float64
	maxBackoff          time.Duration
}

func newSettings(opts ...Options) *settings {
	s := &settings{
		message:            "retry: ",
		backoffDuration:    time.Second,
		backoffMultiplier:  2,
		retryCount:         3,
		infiniteRetry:      false,
		exponentialBackoff: false,
		backoffFactor:      2.0,
		maxBackoff:         30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithMessage sets the log message prefix used on each retry.
func WithMessage(message string) Options {
	return func(s *settings) { s.message = message }
}

// WithBackoffDurationType sets the base wait duration between retries.
func WithBackoffDurationType(d time.Duration) Options {
	return func(s *settings) { s.backoffDuration = d }
}

// WithBackoffMultiplier sets the integer factor the wait is multiplied by
// after each failed attempt when exponential backoff is off.
func WithBackoffMultiplier(m int) Options {
	return func(s *settings) { s.backoffMultiplier = m }
}

// WithRetryCount sets how many attempts are made before giving up.
func WithRetryCount(n int) Options {
	return func(s *settings) { s.retryCount = n }
}

// WithInfiniteRetry retries indefinitely until ctx is cancelled.
func WithInfiniteRetry() Options {
	return func(s *settings) { s.infiniteRetry = true }
}

// WithExponentialBackoff scales the wait by the backoff factor after each
// failed attempt, capped at the maximum backoff, instead of by the backoff
// multiplier (which is uncapped).
func WithExponentialBackoff() Options {
	return func(s *settings) { s.exponentialBackoff = true }
}

// WithBackoffFactor sets the exponential backoff factor.
func WithBackoffFactor(factor float64) Options {
	return func(s *settings) { s.backoffFactor = factor }
}

// WithMaxBackoff caps the exponential backoff duration.
func WithMaxBackoff(maxBackoff time.Duration) Options {
	return func(s *settings) { s.maxBackoff = maxBackoff }
}
