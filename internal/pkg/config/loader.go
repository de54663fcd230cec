package config

import (
	"fmt"
	"os"
	"time"
)

// ConfigLoadResult is the outcome of loading one configuration value. The
// loaders below never fail: an unparseable or invalid environment value is
// replaced by the caller's default, FallbackApplied is set, and Warnings
// carries the human-readable reason. Callers log the warnings and bump their
// fallback metrics instead of refusing to start.
//
//	result := LoadEnvDuration("SWEEP_TIMEOUT", 30*time.Minute, ValidatePositiveDuration)
//	timeout := result.Value.(time.Duration)
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

func fallback(envKey, value string, reason error, defaultValue interface{}) ConfigLoadResult {
	warning := fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'",
		envKey, value, reason, defaultValue)
	return ConfigLoadResult{
		Value:           defaultValue,
		Warnings:        []string{warning},
		FallbackApplied: true,
	}
}

// LoadEnvWithFallback loads a string from an environment variable, runs it
// through the validator, and falls back to defaultValue when validation
// fails. An unset or empty variable uses the default silently; only a
// present-but-invalid value counts as a fallback.
//
//	result := LoadEnvWithFallback("CRON_SCHEDULE", "30 5 * * *", ValidateCronSchedule)
//	schedule := result.Value.(string)
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(envKey, value, err, defaultValue)
		}
	}
	return ConfigLoadResult{Value: value}
}

// LoadEnvDuration loads a Go duration string ("90s", "10m", "1h30m") from an
// environment variable. A value that fails time.ParseDuration or the
// validator falls back to defaultValue with a warning.
//
//	result := LoadEnvDuration("SWEEP_TIMEOUT", 30*time.Minute, func(d time.Duration) error {
//	    return ValidateDuration(d, time.Minute, 4*time.Hour)
//	})
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	parsed, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback(envKey, valueStr, err, defaultValue)
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, valueStr, err, defaultValue)
		}
	}
	return ConfigLoadResult{Value: parsed}
}

// LoadEnvInt loads an integer from an environment variable. A value that
// does not parse as a plain base-10 integer or fails the validator falls
// back to defaultValue with a warning.
//
//	result := LoadEnvInt("SWEEP_MAX_CONCURRENT", 10, func(v int) error {
//	    return ValidateIntRange(v, 1, 50)
//	})
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	var parsed int
	if _, err := fmt.Sscanf(valueStr, "%d", &parsed); err != nil {
		return fallback(envKey, valueStr, fmt.Errorf("invalid integer format"), defaultValue)
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, valueStr, err, defaultValue)
		}
	}
	return ConfigLoadResult{Value: parsed}
}
