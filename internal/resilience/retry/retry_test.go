package retry

import (
	"context"
	"errors"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

// attemptTimeoutError mimics the error net/http produces when the client's
// per-attempt timeout fires: a net.Error timeout that also matches
// context.DeadlineExceeded.
type attemptTimeoutError struct{}

func (attemptTimeoutError) Error() string {
	return "context deadline exceeded (Client.Timeout exceeded while awaiting headers)"
}
func (attemptTimeoutError) Timeout() bool        { return true }
func (attemptTimeoutError) Temporary() bool      { return true }
func (attemptTimeoutError) Is(target error) bool { return target == context.DeadlineExceeded }

func fastConfig() Config {
	return Config{
		MaxAttempts:    5,
		InitialDelay:   time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0,
	}
}

func TestWithBackoff_Success(t *testing.T) {
	attempts := 0
	fn := func() error {
		attempts++
		return nil
	}

	err := WithBackoff(context.Background(), fastConfig(), fn)

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestWithBackoff_SuccessAfterRetry(t *testing.T) {
	attempts := 0
	fn := func() error {
		attempts++
		if attempts < 3 {
			return &HTTPError{StatusCode: 503, Message: "Service Unavailable"}
		}
		return nil
	}

	err := WithBackoff(context.Background(), fastConfig(), fn)

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithBackoff_BudgetExhausted(t *testing.T) {
	attempts := 0
	testErr := &HTTPError{StatusCode: 500, Message: "Server Error"}
	fn := func() error {
		attempts++
		return testErr // Always fail
	}

	err := WithBackoff(context.Background(), fastConfig(), fn)

	if err == nil {
		t.Error("expected error, got nil")
	}
	if attempts != 5 {
		t.Errorf("expected 5 attempts, got %d", attempts)
	}
	// The last transient error must be surfaced, not swallowed
	if !errors.Is(err, testErr) {
		t.Errorf("expected wrapped error to contain original error")
	}
}

func TestWithBackoff_FatalNeverRetries(t *testing.T) {
	attempts := 0
	testErr := &HTTPError{StatusCode: 404, Message: "Not Found"}
	fn := func() error {
		attempts++
		return testErr
	}

	err := WithBackoff(context.Background(), fastConfig(), fn)

	if err == nil {
		t.Error("expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt (non-retryable), got %d", attempts)
	}
	if err != testErr {
		t.Errorf("expected same error, got different error")
	}
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	fn := func() error {
		attempts++
		cancel()
		return &HTTPError{StatusCode: 500, Message: "Server Error"}
	}

	cfg := fastConfig()
	cfg.InitialDelay = 100 * time.Millisecond

	err := WithBackoff(ctx, cfg, fn)

	if err == nil {
		t.Error("expected error, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", attempts)
	}
}

func TestWithBackoff_AttemptTimeoutConsumesBudget(t *testing.T) {
	attempts := 0
	fn := func() error {
		attempts++
		return &url.Error{Op: "Get", URL: "http://x", Err: attemptTimeoutError{}}
	}

	err := WithBackoff(context.Background(), fastConfig(), fn)

	if err == nil {
		t.Error("expected error, got nil")
	}
	if attempts != 5 {
		t.Errorf("expected 5 attempts (attempt timeouts are transient), got %d", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"429 is transient", &HTTPError{StatusCode: 429}, true},
		{"500 is transient", &HTTPError{StatusCode: 500}, true},
		{"503 is transient", &HTTPError{StatusCode: 503}, true},
		{"599 is transient", &HTTPError{StatusCode: 599}, true},
		{"400 is fatal", &HTTPError{StatusCode: 400}, false},
		{"404 is fatal", &HTTPError{StatusCode: 404}, false},
		{"408 is fatal", &HTTPError{StatusCode: 408}, false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"per-attempt timeout", attemptTimeoutError{}, true},
		{"per-attempt timeout behind url.Error", &url.Error{Op: "Get", URL: "http://x", Err: attemptTimeoutError{}}, true},
		{"transport error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("EOF")}, true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"connection reset", syscall.ECONNRESET, true},
		{"breaker open", gobreaker.ErrOpenState, false},
		{"breaker half-open limit", gobreaker.ErrTooManyRequests, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAPIFetchConfig(t *testing.T) {
	cfg := APIFetchConfig()

	if cfg.MaxAttempts != 5 {
		t.Errorf("expected 5 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != 500*time.Millisecond {
		t.Errorf("expected 500ms initial delay, got %v", cfg.InitialDelay)
	}
	if cfg.MaxDelay != 8*time.Second {
		t.Errorf("expected 8s max delay, got %v", cfg.MaxDelay)
	}
	if cfg.Multiplier != 2.0 {
		t.Errorf("expected multiplier 2.0, got %f", cfg.Multiplier)
	}
}
