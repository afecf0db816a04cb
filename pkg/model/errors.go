package model

import "fmt"

// ConfigError represents an invalid model definition. Construction of a
// ModelMeta either fully succeeds or fails with a single ConfigError; no
// partially validated state is ever observable.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}
