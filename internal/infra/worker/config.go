// Package worker holds the runtime pieces of the maintenance worker: its
// environment-driven configuration, health endpoints, and Prometheus
// metrics. The worker itself is assembled in cmd/worker.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"voter-guides/internal/pkg/config"
)

// WorkerConfig controls the sweep schedule and operational parameters of the
// worker service.
//
// Configuration is loaded from environment variables with a fail-open
// strategy: an invalid value falls back to its default, logs a warning, and
// increments the fallback metrics. The worker never refuses to start over a
// bad schedule string.
type WorkerConfig struct {
	// CronSchedule is the cron expression for the nightly maintenance
	// sweep. Format: "minute hour day month weekday".
	// Default: "30 5 * * *" (every day at 5:30).
	CronSchedule string

	// Timezone is the IANA timezone name used for cron scheduling.
	// Default: "America/Los_Angeles".
	Timezone string

	// SweepMaxConcurrent caps how many guides are refreshed in parallel
	// during one sweep. Range: 1-50. Default: 10.
	SweepMaxConcurrent int

	// SweepTimeout bounds a single maintenance sweep. The sweep context is
	// cancelled when it elapses. Default: 30 minutes.
	SweepTimeout time.Duration

	// HealthPort is the port for the worker's health check HTTP server.
	// Range: 1024-65535. Default: 9091.
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with production-ready defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:       "30 5 * * *",
		Timezone:           "America/Los_Angeles",
		SweepMaxConcurrent: 10,
		SweepTimeout:       30 * time.Minute,
		HealthPort:         9091,
	}
}

// Validate checks every field and returns all violations together.
func (c *WorkerConfig) Validate() error {
	var errors []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errors = append(errors, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errors = append(errors, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.SweepMaxConcurrent, 1, 50); err != nil {
		errors = append(errors, fmt.Errorf("sweep max concurrent: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.SweepTimeout); err != nil {
		errors = append(errors, fmt.Errorf("sweep timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errors = append(errors, fmt.Errorf("health port: %w", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}
	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default "30 5 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default "America/Los_Angeles")
//   - SWEEP_MAX_CONCURRENT: integer 1-50 (default 10)
//   - SWEEP_TIMEOUT: duration string between 1m and 4h (default 30m)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default 9091)
//
// Invalid values fall back to defaults; the returned error is always nil so
// callers can ignore it, and fallbacks show up in logs and metrics instead.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field string, warnings []string) {
		for _, warning := range warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("cron_schedule")
		metrics.RecordFallback("cron_schedule", "default")
		warn("CronSchedule", result.Warnings)
	}

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("timezone")
		metrics.RecordFallback("timezone", "default")
		warn("Timezone", result.Warnings)
	}

	result = config.LoadEnvInt("SWEEP_MAX_CONCURRENT", cfg.SweepMaxConcurrent, func(v int) error {
		return config.ValidateIntRange(v, 1, 50)
	})
	cfg.SweepMaxConcurrent = result.Value.(int)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("sweep_max_concurrent")
		metrics.RecordFallback("sweep_max_concurrent", "default")
		warn("SweepMaxConcurrent", result.Warnings)
	}

	result = config.LoadEnvDuration("SWEEP_TIMEOUT", cfg.SweepTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.SweepTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("sweep_timeout")
		metrics.RecordFallback("sweep_timeout", "default")
		warn("SweepTimeout", result.Warnings)
	}

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("health_port")
		metrics.RecordFallback("health_port", "default")
		warn("HealthPort", result.Warnings)
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
