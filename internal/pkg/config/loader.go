// Package config provides environment loading helpers with validation and
// fail-open fallback to defaults, plus the validators and metrics they share.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ConfigLoadResult represents the result of loading a configuration value
// from an environment variable with validation.
//
// Fields:
//   - Value: The loaded value (string or int), or the default on failure
//   - Warnings: Human-readable messages explaining why a fallback happened
//   - FallbackApplied: true if the environment value was rejected
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString returns the value of envKey, or defaultValue when it is unset or empty.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvWithFallback loads a string from envKey and validates it.
// An unset variable yields the default without a warning; a value rejected by
// validator yields the default with a warning and FallbackApplied set.
//
// Example:
//
//	result := LoadEnvWithFallback("LOG_FORMAT", "text", ValidateLogFormat)
//	format := result.Value.(string)
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return ConfigLoadResult{
				Value: defaultValue,
				Warnings: []string{fmt.Sprintf(
					"Invalid %s='%s': %v, falling back to default '%s'",
					envKey, value, err, defaultValue,
				)},
				FallbackApplied: true,
			}
		}
	}

	return ConfigLoadResult{Value: value}
}

// LoadEnvInt loads an integer from envKey and validates it, with the same
// fallback rules as LoadEnvWithFallback.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	valueStr := strings.TrimSpace(os.Getenv(envKey))
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	parsed, err := strconv.Atoi(valueStr)
	if err != nil {
		return ConfigLoadResult{
			Value: defaultValue,
			Warnings: []string{fmt.Sprintf(
				"Invalid %s='%s': invalid integer format, falling back to default '%d'",
				envKey, valueStr, defaultValue,
			)},
			FallbackApplied: true,
		}
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return ConfigLoadResult{
				Value: defaultValue,
				Warnings: []string{fmt.Sprintf(
					"Invalid %s='%s': %v, falling back to default '%d'",
					envKey, valueStr, err, defaultValue,
				)},
				FallbackApplied: true,
			}
		}
	}

	return ConfigLoadResult{Value: parsed}
}
