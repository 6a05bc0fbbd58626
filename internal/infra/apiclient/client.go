// Package apiclient implements the HTTP client against the remote data
// source. One logical fetch issues a GET for a collection of loosely-typed
// JSON records, classifies failures, and retries transient ones with
// exponential backoff. Attempts pass through a token-bucket rate limiter and
// a circuit breaker before reaching the wire.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"community-export/internal/domain/entity"
	"community-export/internal/observability/metrics"
	"community-export/internal/resilience/circuitbreaker"
	"community-export/internal/resilience/retry"
)

// maxErrorBodyBytes bounds how much of an error response body is kept for
// the error message.
const maxErrorBodyBytes = 200

// Client fetches collections of raw records from the remote data source.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	retryCfg   retry.Config
	logger     *slog.Logger
}

// New creates a data source client from the given configuration.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		limiter:   limiter,
		breaker:   circuitbreaker.New(circuitbreaker.APIFetchConfig()),
		retryCfg:  cfg.Retry,
		logger:    logger,
	}, nil
}

// Get performs one logical fetch of the collection at path, passing query
// parameters through unmodified. Transient failures (HTTP 429/5xx, transport
// errors, timeouts) are retried under the configured backoff schedule; any
// other non-2xx status fails immediately. After the retry budget is
// exhausted the last transient error is returned.
func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]entity.RawRecord, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var records []entity.RawRecord
	attempt := 0

	err := retry.WithBackoff(ctx, c.retryCfg, func() error {
		attempt++
		start := time.Now()

		c.logger.Info("api get start",
			slog.String("url", u),
			slog.Int("attempt", attempt))

		result, err := c.doAttempt(ctx, u)
		duration := time.Since(start)

		if err != nil {
			metrics.RecordAPIRequest(path, outcomeOf(err), duration)
			return err
		}

		metrics.RecordAPIRequest(path, "success", duration)
		c.logger.Info("api get done",
			slog.String("url", u),
			slog.Int("attempt", attempt),
			slog.Int("records", len(result)),
			slog.Duration("duration", duration))

		records = result
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return records, nil
}

// doAttempt performs a single HTTP attempt through the rate limiter and the
// circuit breaker.
func (c *Client) doAttempt(ctx context.Context, u string) ([]entity.RawRecord, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return result.([]entity.RawRecord), nil
}

func (c *Client) roundTrip(ctx context.Context, u string) ([]entity.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors and per-attempt timeouts surface as *url.Error,
		// which IsRetryable treats as transient.
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var records []entity.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	return records, nil
}

// outcomeOf maps an attempt error to a metrics outcome label.
func outcomeOf(err error) string {
	if retry.IsRetryable(err) {
		return "transient"
	}
	return "fatal"
}
