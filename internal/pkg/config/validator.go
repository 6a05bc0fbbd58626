package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidateCronSchedule validates a cron expression using the robfig/cron/v3
// standard parser ("minute hour day month weekday").
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ValidateTimezone validates an IANA timezone name by attempting to load it.
// May fail for valid names when the system lacks tzdata.
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}

	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}
	return nil
}

// ValidateIntRange returns a validator that requires min <= value <= max.
func ValidateIntRange(min, max int) func(int) error {
	return func(v int) error {
		if v < min || v > max {
			return fmt.Errorf("value %d out of range [%d, %d]", v, min, max)
		}
		return nil
	}
}

// ValidatePositiveDuration requires a strictly positive duration.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidatePositiveFloat requires a strictly positive float.
func ValidatePositiveFloat(v float64) error {
	if v <= 0 {
		return fmt.Errorf("value must be positive, got %v", v)
	}
	return nil
}

// ValidatePort requires a non-privileged TCP port.
func ValidatePort(port int) error {
	if port < 1024 || port > 65535 {
		return fmt.Errorf("port %d out of range [1024, 65535]", port)
	}
	return nil
}
