package cli

import (
	"errors"
	"fmt"

	"mercator-hq/tokenscope/pkg/i18n"
	"mercator-hq/tokenscope/pkg/providers"
)

// Exit codes returned by the tokenscope command.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitUsage    = 2
	ExitProvider = 3
)

// ConfigError represents an error in configuration or flags.
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

// ExitCode maps an error to the process exit code. Provider errors
// (vendor, fetch, validation) exit with ExitProvider so scripts can tell
// them from usage mistakes.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitUsage
	}

	var provErr *providers.Error
	if errors.As(err, &provErr) {
		if provErr.Kind == providers.KindUnsupportedProvider {
			return ExitUsage
		}
		return ExitProvider
	}

	return ExitError
}

// UserMessage renders err for the terminal. Provider errors are localized
// with tr; anything else is printed as is.
func UserMessage(err error, tr *i18n.Translations) string {
	var provErr *providers.Error
	if tr != nil && errors.As(err, &provErr) {
		return tr.Error(provErr)
	}
	return err.Error()
}
