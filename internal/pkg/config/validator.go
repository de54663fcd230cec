package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidateCronSchedule checks a five-field cron expression ("minute hour day
// month weekday") with the same robfig/cron parser the sweep scheduler uses,
// so anything accepted here is guaranteed to schedule. Descriptor strings
// like "@daily" are rejected on purpose; the worker documents only the
// five-field form.
//
//	ValidateCronSchedule("30 5 * * *")   // nightly sweep at 5:30
//	ValidateCronSchedule("0 */6 * * *")  // every six hours
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

// ValidateTimezone checks an IANA timezone name ("UTC",
// "America/Los_Angeles") by loading it. Loading depends on tzdata being
// present in the runtime image, so a valid name can still fail in a
// container missing the tzdata package; the error carries the underlying
// reason for that case.
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}

	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}
	return nil
}

// ValidateDuration checks that a duration falls inside [min, max]. Both
// bounds are inclusive. The sweep timeout uses this to keep one run from
// being scheduled over the next.
func ValidateDuration(duration, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if duration < min {
		return fmt.Errorf("duration %v is below minimum %v", duration, min)
	}
	if duration > max {
		return fmt.Errorf("duration %v exceeds maximum %v", duration, max)
	}
	return nil
}

// ValidateIntRange checks that an integer falls inside [min, max], both
// inclusive. Used for sweep concurrency (1-50) and the health port
// (1024-65535).
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}
	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}
	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}
	return nil
}

// ValidatePositiveDuration checks that a duration is strictly greater than
// zero. Zero is rejected too: a zero timeout reads as "disabled" and a
// disabled sweep timeout would let a wedged run block forever.
func ValidatePositiveDuration(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}
	return nil
}
