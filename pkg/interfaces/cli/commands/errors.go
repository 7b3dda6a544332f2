package commands

import (
	"errors"
	"fmt"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitRejected     = 1 // The operation was refused by a domain rule (stock, state, validation)
	ExitCommandError = 2 // Command error (bad flags, configuration, storage failure)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitRejected or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitCommandError if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// operationError maps a service error onto an exit code
func operationError(message string, err error) error {
	if err == nil {
		return nil
	}
	if entities.IsPersistence(err) {
		return WrapExitError(ExitCommandError, message, err)
	}
	return WrapExitError(ExitRejected, message, err)
}

// usageError reports bad arguments
func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitCommandError, Message: fmt.Sprintf(format, args...)}
}
