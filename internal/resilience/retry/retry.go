// Package retry provides retry logic with exponential backoff for transient
// fetch failures. An attempt outcome is classified by IsRetryable: transient
// conditions (HTTP 429/5xx, transport errors, timeouts) are retried under a
// bounded budget, everything else fails immediately.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// Config holds the configuration for retry logic.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first
	MaxAttempts int

	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries
	MaxDelay time.Duration

	// Multiplier is the multiplier for exponential backoff
	Multiplier float64

	// JitterFraction is the fraction of delay to add as random jitter (0.0 to 1.0)
	JitterFraction float64
}

// DefaultConfig returns a default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   1 * time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// APIFetchConfig returns the configuration used for data source fetches:
// up to 5 total attempts, delays doubling from 500ms and capped at 8s.
func APIFetchConfig() Config {
	return Config{
		MaxAttempts:    5,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       8 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0,
	}
}

// WithBackoff executes the given function with retry logic and exponential
// backoff. It returns nil if the function succeeds, or the last error once
// the attempt budget is exhausted or a non-retryable error occurs.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()

		if lastErr == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry",
					slog.Int("attempt", attempt))
			}
			return nil
		}

		if !IsRetryable(lastErr) {
			slog.Warn("non-retryable error, aborting",
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr))
			return lastErr
		}

		// Don't wait after last attempt
		if attempt == cfg.MaxAttempts {
			break
		}

		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", lastErr))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
		delay = addJitter(delay, cfg.JitterFraction)
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

// IsRetryable reports whether an error is a transient condition worth
// retrying. HTTP 429 and any 5xx are transient; every other HTTP status is
// terminal. Network transport failures and timeouts are also transient;
// cancellation of the surrounding operation is terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Network timeouts must be classified before the context errors below:
	// the HTTP client's per-attempt timeout reports Is(context.DeadlineExceeded)
	// even though only the attempt expired, not the surrounding operation.
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Context errors are not retryable. A deadline of the surrounding
	// operation that expires mid-attempt also stops the retry loop itself
	// at its ctx.Done() select.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// HTTP status codes
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode >= 500 && httpErr.StatusCode < 600 {
			return true
		}
		return httpErr.StatusCode == http.StatusTooManyRequests
	}

	// Transport-level failures surfaced by net/http
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	// Syscall errors
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	// Anything else is terminal. Circuit breaker rejections (open state,
	// half-open overflow) land here: an open breaker must not be retried
	// into during its window.
	return false
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// addJitter adds random jitter to a duration to prevent thundering herd.
func addJitter(duration time.Duration, jitterFraction float64) time.Duration {
	if jitterFraction <= 0 {
		return duration
	}
	if jitterFraction > 1.0 {
		jitterFraction = 1.0
	}
	// #nosec G404 -- math/rand is fine for backoff jitter.
	jitter := time.Duration(rand.Float64() * float64(duration) * jitterFraction)
	return duration + jitter
}
