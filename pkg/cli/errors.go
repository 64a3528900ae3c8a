package cli

import (
	"errors"
	"fmt"

	"mercator-hq/textstudio/pkg/config"
	"mercator-hq/textstudio/pkg/gateway"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitConfig   = 2
	ExitProvider = 3
)

// ConfigError represents an invalid flag or configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *ConfigError
	var validationErr config.ValidationError
	var gwErr *gateway.Error
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &validationErr):
		return ExitConfig
	case errors.As(err, &gwErr):
		return ExitProvider
	default:
		return ExitError
	}
}
