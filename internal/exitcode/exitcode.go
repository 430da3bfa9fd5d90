package exitcode

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/rask/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ConfigError indicates a discovery, parse, or structure failure
	ConfigError = 3

	// ExecutionFailed indicates that a task process exited non-zero
	ExecutionFailed = 4

	// Interrupted indicates the run was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var raskErr *errors.RaskError
	if stderrors.As(err, &raskErr) {
		switch {
		case strings.HasPrefix(string(raskErr.Code), "EXEC-"):
			return ExecutionFailed
		case strings.HasPrefix(string(raskErr.Code), "CONFIG-"),
			strings.HasPrefix(string(raskErr.Code), "DISCOVER-"),
			strings.HasPrefix(string(raskErr.Code), "STRUCT-"),
			strings.HasPrefix(string(raskErr.Code), "ENGINE-"):
			return ConfigError
		}
		return GeneralError
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "unknown command") || strings.Contains(errMsg, "unknown flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "accepts") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ConfigError:
		return "Configuration error (discovery, parse, or structure failure)"
	case ExecutionFailed:
		return "Task execution failed"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
