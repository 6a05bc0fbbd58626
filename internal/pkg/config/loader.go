// Package config provides reusable, fail-open configuration loading from
// environment variables. A value that fails to parse or validate falls back
// to its default and surfaces a warning instead of an error, so a bad
// environment never prevents the exporter from starting with safe settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Result holds one loaded configuration value together with any warning
// generated while loading it. FallbackApplied is true when the default value
// was used because the environment value failed parsing or validation.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// String loads a string value from an environment variable, with optional
// validation. If the variable is unset the default is used without warning;
// if validation fails the default is used and a warning is recorded.
func String(envKey, defaultValue string, validate func(string) error) Result[string] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[string]{Value: defaultValue}
	}
	if validate != nil {
		if err := validate(raw); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return Result[string]{Value: raw}
}

// Int loads an integer value from an environment variable, with optional
// validation and fail-open fallback.
func Int(envKey string, defaultValue int, validate func(int) error) Result[int] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[int]{Value: defaultValue}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return Result[int]{Value: v}
}

// Float loads a float64 value from an environment variable, with optional
// validation and fail-open fallback.
func Float(envKey string, defaultValue float64, validate func(float64) error) Result[float64] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[float64]{Value: defaultValue}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return Result[float64]{Value: v}
}

// Bool loads a boolean value from an environment variable with fail-open
// fallback. Accepted forms are those of strconv.ParseBool.
func Bool(envKey string, defaultValue bool) Result[bool] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[bool]{Value: defaultValue}
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}
	return Result[bool]{Value: v}
}

// Duration loads a time.Duration value from an environment variable, with
// optional validation and fail-open fallback. The value must be in Go
// duration syntax, e.g. "30s" or "10m".
func Duration(envKey string, defaultValue time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[time.Duration]{Value: defaultValue}
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return Result[time.Duration]{Value: v}
}

func fallback[T any](envKey, raw string, defaultValue T, err error) Result[T] {
	return Result[T]{
		Value:           defaultValue,
		Warning:         fmt.Sprintf("%s=%q rejected (%v), using default %v", envKey, raw, err, defaultValue),
		FallbackApplied: true,
	}
}
