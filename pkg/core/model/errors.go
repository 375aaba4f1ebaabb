package model

import (
	"errors"
	"fmt"
)

// ConfigError is a fatal configuration problem: weights that do not sum to
// 1.0, an active criterion with no score source, or a required column missing
// from an input sheet. It aborts a run before any optimization work starts.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// NewConfigError builds a ConfigError with a formatted reason.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
