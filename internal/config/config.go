// Package config holds the exporter's application configuration.
//
// Values are resolved in three layers, lowest precedence first: built-in
// defaults, an optional YAML config file (CONFIG_FILE), then environment
// variables. Loading is fail-open: a value that does not parse or validate
// falls back to the previous layer and is reported as a warning.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	pkgcfg "community-export/internal/pkg/config"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings for the exporter.
type Config struct {
	// BaseURL is the root endpoint of the remote data source.
	BaseURL string `yaml:"base_url"`

	// OutputPath is the destination of the CSV artifact.
	OutputPath string `yaml:"output_path"`

	// MaxConcurrency bounds the number of simultaneously in-flight data
	// source requests across the posts and comments stages combined.
	MaxConcurrency int `yaml:"max_concurrency"`

	// PostLimit is the per-user bound of the selected post set.
	PostLimit int `yaml:"post_limit"`

	// CommentLimit is the per-post bound of the selected comment set.
	CommentLimit int `yaml:"comment_limit"`

	// ExportTimeout bounds one whole export run.
	ExportTimeout time.Duration `yaml:"export_timeout"`

	// RateLimitRPS is the sustained request rate against the data source.
	RateLimitRPS float64 `yaml:"rate_limit_rps"`

	// RateLimitBurst is the token bucket burst size.
	RateLimitBurst int `yaml:"rate_limit_burst"`

	// MetricsPort is the port of the Prometheus metrics / health server.
	MetricsPort int `yaml:"metrics_port"`

	// RunOnce selects single-shot mode; when false the exporter runs on
	// CronSchedule until stopped.
	RunOnce bool `yaml:"run_once"`

	// CronSchedule is the schedule for recurring exports ("m h dom mon dow").
	CronSchedule string `yaml:"cron_schedule"`

	// Timezone is the IANA timezone the cron schedule is evaluated in.
	Timezone string `yaml:"timezone"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        "https://jsonplaceholder.typicode.com",
		OutputPath:     "output.csv",
		MaxConcurrency: 10,
		PostLimit:      5,
		CommentLimit:   3,
		ExportTimeout:  10 * time.Minute,
		RateLimitRPS:   20,
		RateLimitBurst: 10,
		MetricsPort:    9090,
		RunOnce:        true,
		CronSchedule:   "30 5 * * *",
		Timezone:       "UTC",
	}
}

// Load resolves the configuration from defaults, the optional YAML file
// named by CONFIG_FILE, and environment variables, in that order. It returns
// the resolved config together with fail-open warnings collected while
// loading. The returned config has already passed Validate.
func Load() (Config, []string, error) {
	cfg := Default()
	var warnings []string

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, nil, fmt.Errorf("load config file: %w", err)
		}
	}

	warnings = append(warnings, cfg.mergeEnv()...)

	if err := cfg.Validate(); err != nil {
		return Config{}, warnings, err
	}
	return cfg, warnings, nil
}

// mergeFile overlays values from a YAML file onto the config. Fields absent
// from the file keep their current values.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's own environment
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// mergeEnv overlays environment variables onto the config and returns the
// fail-open warnings generated while doing so.
func (c *Config) mergeEnv() []string {
	var warnings []string
	collect := func(w string, applied bool) {
		if applied {
			warnings = append(warnings, w)
		}
	}

	baseURL := pkgcfg.String("BASE_URL", c.BaseURL, nil)
	c.BaseURL = baseURL.Value

	outputPath := pkgcfg.String("OUTPUT_PATH", c.OutputPath, nil)
	c.OutputPath = outputPath.Value

	concurrency := pkgcfg.Int("MAX_CONCURRENCY", c.MaxConcurrency, pkgcfg.ValidateIntRange(1, 100))
	collect(concurrency.Warning, concurrency.FallbackApplied)
	c.MaxConcurrency = concurrency.Value

	postLimit := pkgcfg.Int("POST_LIMIT", c.PostLimit, pkgcfg.ValidateIntRange(1, 100))
	collect(postLimit.Warning, postLimit.FallbackApplied)
	c.PostLimit = postLimit.Value

	commentLimit := pkgcfg.Int("COMMENT_LIMIT", c.CommentLimit, pkgcfg.ValidateIntRange(1, 100))
	collect(commentLimit.Warning, commentLimit.FallbackApplied)
	c.CommentLimit = commentLimit.Value

	timeout := pkgcfg.Duration("EXPORT_TIMEOUT", c.ExportTimeout, pkgcfg.ValidatePositiveDuration)
	collect(timeout.Warning, timeout.FallbackApplied)
	c.ExportTimeout = timeout.Value

	rps := pkgcfg.Float("RATE_LIMIT_RPS", c.RateLimitRPS, pkgcfg.ValidatePositiveFloat)
	collect(rps.Warning, rps.FallbackApplied)
	c.RateLimitRPS = rps.Value

	burst := pkgcfg.Int("RATE_LIMIT_BURST", c.RateLimitBurst, pkgcfg.ValidateIntRange(1, 1000))
	collect(burst.Warning, burst.FallbackApplied)
	c.RateLimitBurst = burst.Value

	metricsPort := pkgcfg.Int("METRICS_PORT", c.MetricsPort, pkgcfg.ValidatePort)
	collect(metricsPort.Warning, metricsPort.FallbackApplied)
	c.MetricsPort = metricsPort.Value

	runOnce := pkgcfg.Bool("RUN_ONCE", c.RunOnce)
	collect(runOnce.Warning, runOnce.FallbackApplied)
	c.RunOnce = runOnce.Value

	schedule := pkgcfg.String("CRON_SCHEDULE", c.CronSchedule, pkgcfg.ValidateCronSchedule)
	collect(schedule.Warning, schedule.FallbackApplied)
	c.CronSchedule = schedule.Value

	timezone := pkgcfg.String("TIMEZONE", c.Timezone, pkgcfg.ValidateTimezone)
	collect(timezone.Warning, timezone.FallbackApplied)
	c.Timezone = timezone.Value

	return warnings
}

// Validate checks the fully-resolved configuration. All violations are
// collected and returned together.
func (c *Config) Validate() error {
	var errs []error

	if c.BaseURL == "" {
		errs = append(errs, fmt.Errorf("base_url must not be empty"))
	}
	if c.OutputPath == "" {
		errs = append(errs, fmt.Errorf("output_path must not be empty"))
	}
	if c.MaxConcurrency < 1 {
		errs = append(errs, fmt.Errorf("max_concurrency must be at least 1, got %d", c.MaxConcurrency))
	}
	if c.PostLimit < 1 {
		errs = append(errs, fmt.Errorf("post_limit must be at least 1, got %d", c.PostLimit))
	}
	if c.CommentLimit < 1 {
		errs = append(errs, fmt.Errorf("comment_limit must be at least 1, got %d", c.CommentLimit))
	}
	if err := pkgcfg.ValidatePositiveDuration(c.ExportTimeout); err != nil {
		errs = append(errs, fmt.Errorf("export_timeout: %w", err))
	}
	if err := pkgcfg.ValidatePort(c.MetricsPort); err != nil {
		errs = append(errs, fmt.Errorf("metrics_port: %w", err))
	}
	if !c.RunOnce {
		if err := pkgcfg.ValidateCronSchedule(c.CronSchedule); err != nil {
			errs = append(errs, err)
		}
		if err := pkgcfg.ValidateTimezone(c.Timezone); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
