package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-export/internal/resilience/retry"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	cfg := DefaultConfig(baseURL)
	cfg.RateLimitRPS = 0 // no throttling in tests
	cfg.Retry = retry.Config{
		MaxAttempts:    5,
		InitialDelay:   time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0,
	}

	c, err := New(cfg, nil)
	require.NoError(t, err)
	return c
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err)
}

func TestGet_Success(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "name": "A"}, {"id": 2, "name": "B"}]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	params := url.Values{}
	params.Set("userId", "2")
	records, err := c.Get(context.Background(), "/posts", params)

	require.NoError(t, err)
	require.Len(t, records, 2)

	id, ok := records[0].Int("id")
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)

	// Query parameters are passed through unmodified
	assert.Equal(t, "2", gotQuery.Get("userId"))
}

func TestGet_RetriesTransientThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"id": 7}]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	records, err := c.Get(context.Background(), "/users", nil)

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_RetryBudgetExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	_, err := c.Get(context.Background(), "/users", nil)

	require.Error(t, err)
	assert.Equal(t, int32(5), calls.Load(), "transient condition retries up to 5 total attempts")

	// The last transient error is surfaced, not swallowed
	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestGet_TooManyRequestsIsTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	records, err := c.Get(context.Background(), "/users", nil)

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGet_FatalStatusNeverRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	_, err := c.Get(context.Background(), "/users", nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx other than 429 must fail immediately")

	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestGet_AttemptTimeoutIsTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := DefaultConfig(srv.URL)
	cfg.RateLimitRPS = 0
	cfg.Timeout = 30 * time.Millisecond
	cfg.Retry = retry.Config{
		MaxAttempts:    3,
		InitialDelay:   time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0,
	}
	c, err := New(cfg, nil)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/users", nil)

	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load(), "a per-attempt timeout retries under the full budget")
}

func TestGet_MalformedBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	_, err := c.Get(context.Background(), "/users", nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "parse failures are terminal")
}

func TestGet_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "/users", nil)
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("https://jsonplaceholder.typicode.com")

	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.NoError(t, cfg.Validate())
}
