package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateIntRange validates that value lies within [min, max].
//
// Example:
//
//	// Gap threshold between 1 day and a year
//	err := ValidateIntRange(14, 1, 365)
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

// ValidateFileName checks that name is a bare file name: non-empty and free of
// path separators, so the output always lands inside the output directory.
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("file name '%s' must not contain path separators", name)
	}
	return nil
}

// ValidatePath checks that a file system path is non-empty after cleaning.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path '%s' contains a NUL byte", path)
	}
	return nil
}

// ValidateLogFormat accepts "text" or "json" (case-insensitive).
func ValidateLogFormat(format string) error {
	switch strings.ToLower(format) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid log format '%s': expected 'text' or 'json'", format)
	}
}
