package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	valid := []struct {
		name     string
		schedule string
	}{
		{"nightly sweep", "30 5 * * *"},
		{"every six hours", "0 */6 * * *"},
		{"weekdays only", "30 9 * * 1-5"},
		{"first of the month", "0 0 1 * *"},
		{"step minutes", "*/15 * * * *"},
	}
	for _, tt := range valid {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateCronSchedule(tt.schedule))
		})
	}

	invalid := []struct {
		name     string
		schedule string
	}{
		{"empty", ""},
		{"prose", "every night"},
		{"too few fields", "30 5 * *"},
		{"minute out of range", "75 5 * * *"},
		// the parser is configured for five fields only
		{"descriptor string", "@daily"},
		{"seconds field", "0 30 5 * * *"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateCronSchedule(tt.schedule))
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	valid := []string{"UTC", "America/Los_Angeles", "America/New_York", "Europe/London", "Local"}
	for _, tz := range valid {
		t.Run(tz, func(t *testing.T) {
			assert.NoError(t, ValidateTimezone(tz))
		})
	}

	invalid := []struct {
		name string
		tz   string
	}{
		{"empty", ""},
		{"fictional zone", "Mars/Olympus_Mons"},
		{"utc offset instead of name", "+09:00"},
		{"trailing space", "UTC "},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateTimezone(tt.tz))
		})
	}
}

func TestValidateDuration(t *testing.T) {
	min, max := time.Minute, 4*time.Hour

	assert.NoError(t, ValidateDuration(30*time.Minute, min, max))
	assert.NoError(t, ValidateDuration(min, min, max), "minimum is inclusive")
	assert.NoError(t, ValidateDuration(max, min, max), "maximum is inclusive")

	assert.Error(t, ValidateDuration(30*time.Second, min, max))
	assert.Error(t, ValidateDuration(5*time.Hour, min, max))
	assert.Error(t, ValidateDuration(time.Hour, max, min), "inverted range is rejected")
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(10, 1, 50))
	assert.NoError(t, ValidateIntRange(1, 1, 50))
	assert.NoError(t, ValidateIntRange(50, 1, 50))

	assert.Error(t, ValidateIntRange(0, 1, 50))
	assert.Error(t, ValidateIntRange(51, 1, 50))
	assert.Error(t, ValidateIntRange(10, 50, 1))
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.NoError(t, ValidatePositiveDuration(30*time.Minute))

	assert.Error(t, ValidatePositiveDuration(0), "zero reads as disabled and is rejected")
	assert.Error(t, ValidatePositiveDuration(-time.Minute))
}
