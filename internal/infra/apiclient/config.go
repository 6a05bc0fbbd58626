package apiclient

import (
	"fmt"
	"net/url"
	"time"

	"community-export/internal/resilience/retry"
)

// Config holds the configuration for the data source client.
type Config struct {
	// BaseURL is the root endpoint of the remote data source.
	BaseURL string

	// Timeout is the absolute budget of a single attempt, covering
	// connection, request and body read.
	// Default: 15s
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// RateLimitRPS is the sustained request rate; 0 disables rate limiting.
	RateLimitRPS float64

	// RateLimitBurst is the token bucket burst size.
	RateLimitBurst int

	// Retry is the backoff schedule applied to transient failures.
	Retry retry.Config
}

// DefaultConfig returns the production client configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		Timeout:        15 * time.Second,
		UserAgent:      "community-export/1.0",
		RateLimitRPS:   20,
		RateLimitBurst: 10,
		Retry:          retry.APIFetchConfig(),
	}
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
