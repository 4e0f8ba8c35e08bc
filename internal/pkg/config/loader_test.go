package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// LoadEnvString
// ============================================================================

func TestLoadEnvString_WithValue(t *testing.T) {
	t.Setenv("TEST_STRING", "custom_value")

	assert.Equal(t, "custom_value", LoadEnvString("TEST_STRING", "default_value"))
}

func TestLoadEnvString_EmptyString(t *testing.T) {
	t.Setenv("TEST_STRING", "")

	// Empty string should use default
	assert.Equal(t, "default_value", LoadEnvString("TEST_STRING", "default_value"))
}

// ============================================================================
// LoadEnvWithFallback
// ============================================================================

func TestLoadEnvWithFallback(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		validator    func(string) error
		wantValue    string
		wantFallback bool
	}{
		{name: "valid value", value: "json", validator: ValidateLogFormat, wantValue: "json"},
		{name: "unset uses default", value: "", validator: ValidateLogFormat, wantValue: "text"},
		{name: "invalid falls back", value: "xml", validator: ValidateLogFormat, wantValue: "text", wantFallback: true},
		{name: "nil validator accepts anything", value: "xml", validator: nil, wantValue: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FORMAT", tt.value)

			result := LoadEnvWithFallback("TEST_FORMAT", "text", tt.validator)

			assert.Equal(t, tt.wantValue, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantFallback {
				assert.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], "TEST_FORMAT='xml'")
				assert.Contains(t, result.Warnings[0], "falling back to default 'text'")
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

// ============================================================================
// LoadEnvInt
// ============================================================================

func TestLoadEnvInt(t *testing.T) {
	inRange := func(v int) error { return ValidateIntRange(v, 1, 365) }

	tests := []struct {
		name         string
		value        string
		validator    func(int) error
		wantValue    int
		wantFallback bool
		wantWarning  string
	}{
		{name: "valid value", value: "7", validator: inRange, wantValue: 7},
		{name: "surrounding spaces trimmed", value: " 21 ", validator: inRange, wantValue: 21},
		{name: "unset uses default", value: "", validator: inRange, wantValue: 14},
		{name: "not a number", value: "two weeks", validator: inRange, wantValue: 14, wantFallback: true, wantWarning: "invalid integer format"},
		{name: "decimal rejected", value: "1.5", validator: inRange, wantValue: 14, wantFallback: true, wantWarning: "invalid integer format"},
		{name: "below minimum", value: "0", validator: inRange, wantValue: 14, wantFallback: true, wantWarning: "below minimum"},
		{name: "above maximum", value: "400", validator: inRange, wantValue: 14, wantFallback: true, wantWarning: "exceeds maximum"},
		{name: "nil validator", value: "-3", validator: nil, wantValue: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)

			result := LoadEnvInt("TEST_INT", 14, tt.validator)

			assert.Equal(t, tt.wantValue, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantWarning != "" {
				assert.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], tt.wantWarning)
				assert.Contains(t, result.Warnings[0], fmt.Sprintf("default '%d'", 14))
			}
		})
	}
}
