package xtream

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Nomadcxx/xtreamcached/internal/logging"
)

// RetryConfig controls the Retry Policy wrapping every fetch. Defaults
// match spec's documented {3, 1000ms, 30000ms, 2.0}.
type RetryConfig struct {
	MaxRetries        int
	InitialDelayMs    int
	MaxDelayMs        int
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the spec-mandated defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialDelayMs:    1000,
		MaxDelayMs:        30000,
		BackoffMultiplier: 2.0,
	}
}

func (c RetryConfig) newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Duration(c.InitialDelayMs) * time.Millisecond
	b.MaxInterval = time.Duration(c.MaxDelayMs) * time.Millisecond
	b.Multiplier = c.BackoffMultiplier
	b.MaxElapsedTime = 0 // attempt count governs termination, not elapsed wall time
	b.Reset()
	return b
}

// isRetryable classifies an error from Client per spec §4.5. 5xx and
// network-level failures are retryable; auth, parse, and 4xx failures
// are not, since another attempt cannot change their outcome.
func isRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return false
}

// Do runs fn up to cfg.MaxRetries+1 times, sleeping with exponential
// backoff between retryable failures. It returns immediately on a
// non-retryable error, on success, or when ctx is cancelled while
// waiting out a backoff delay.
func Do(ctx context.Context, cfg RetryConfig, logger *logging.Logger, op string, fn func() error) error {
	b := cfg.newBackoff()

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return &CancelledError{}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var cancelled *CancelledError
		if errors.As(lastErr, &cancelled) {
			return lastErr
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxRetries {
			break
		}

		delay := b.NextBackOff()
		if logger != nil {
			logger.Warn("xtream", "retrying "+op, logging.F("attempt", attempt+1), logging.F("delay_ms", delay.Milliseconds()), logging.F("err", lastErr.Error()))
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return &CancelledError{}
		case <-timer.C:
		}
	}
	return lastErr
}
