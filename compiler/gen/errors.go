package gen

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("gen: invalid configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("gen: code generation failed")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("gen: config %s=%v: %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("gen: config %s: %s", e.Option, e.Message)
}

// Is reports whether the target matches ErrMissingConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrMissingConfig }

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError reports the file whose generation failed.
type GenerationError struct {
	Entity string
	File   string
	Cause  error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("gen: generate %s for %s: %v", e.File, e.Entity, e.Cause)
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error { return e.Cause }

// Is reports whether the target matches ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }
