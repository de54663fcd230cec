// Package config reads simple environment-backed settings for the API and
// worker binaries. Unlike the fail-open loader used for the sweep schedule,
// these helpers are for settings where a silent default is always acceptable,
// such as listen ports and rate limits.
package config

import (
	"log/slog"
	"os"
	"strconv"
)

// GetEnvString returns the value of key, or defaultValue when the variable
// is unset or empty.
func GetEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvInt returns the integer value of key. Unset, empty, or unparseable
// values yield defaultValue; a bad value is logged rather than treated as
// fatal so a typo in a port setting does not keep the binary from starting.
func GetEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer environment variable, using default",
			slog.String("key", key),
			slog.String("value", v),
			slog.Int("default", defaultValue),
		)
		return defaultValue
	}
	return n
}
