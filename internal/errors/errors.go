package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodePathNotFound  ErrorCode = "CONFIG-001"
	ErrCodeConfigParse   ErrorCode = "CONFIG-002"
	ErrCodeDuplicateName ErrorCode = "CONFIG-003"

	// Discovery errors (DISCOVER-001 to DISCOVER-099)
	ErrCodeGlobPattern ErrorCode = "DISCOVER-001"

	// Structure errors (STRUCT-001 to STRUCT-099)
	ErrCodeUnknownConfigPath ErrorCode = "STRUCT-001"
	ErrCodeCycleDetected     ErrorCode = "STRUCT-002"

	// Task engine errors (ENGINE-001 to ENGINE-099)
	ErrCodeManifestMissing ErrorCode = "ENGINE-001"
	ErrCodeManifestInvalid ErrorCode = "ENGINE-002"

	// Execution errors (EXEC-001 to EXEC-099)
	ErrCodeTaskFailed  ErrorCode = "EXEC-001"
	ErrCodeSpawnFailed ErrorCode = "EXEC-002"
	ErrCodeWorkerPanic ErrorCode = "EXEC-003"

	// Init errors (INIT-001 to INIT-099)
	ErrCodeAlreadyInitialised ErrorCode = "INIT-001"
)

// RaskError represents an enhanced error with code, suggestions, and documentation
type RaskError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *RaskError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *RaskError) Unwrap() error {
	return e.Cause
}

// New creates a new RaskError
func New(code ErrorCode, message string) *RaskError {
	return &RaskError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new RaskError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *RaskError {
	return &RaskError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *RaskError) WithSuggestion(suggestion string) *RaskError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *RaskError) WithSuggestions(suggestions ...string) *RaskError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *RaskError) WithDocs(url string) *RaskError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewPathNotFoundError creates an entry-path resolution error
func NewPathNotFoundError(path string) *RaskError {
	return New(ErrCodePathNotFound, fmt.Sprintf("target does not exist: %s", path)).
		WithSuggestion("Check if the path is correct").
		WithSuggestion("Run 'rask init' to create a configuration in this directory")
}

// NewConfigParseError creates a configuration parse error
func NewConfigParseError(path string, cause error) *RaskError {
	return Wrap(ErrCodeConfigParse, fmt.Sprintf("failed to parse configuration: %s", path), cause).
		WithSuggestion("Check the YAML syntax of the configuration file").
		WithDocs("https://github.com/felixgeelhaar/rask#configuration-format")
}

// NewDuplicateNameError creates a duplicate configuration name error
func NewDuplicateNameError(name, path string) *RaskError {
	return New(ErrCodeDuplicateName, fmt.Sprintf("duplicate configuration name %q found at %s", name, path)).
		WithSuggestion("Give every configuration a unique name, or drop --require-unique-names")
}

// NewGlobPatternError creates an invalid directory pattern error
func NewGlobPatternError(pattern string, cause error) *RaskError {
	return Wrap(ErrCodeGlobPattern, fmt.Sprintf("invalid directory pattern: %s", pattern), cause).
		WithSuggestion("Check the glob syntax in the 'directories' list")
}

// NewUnknownConfigPathError reports a structure-build lookup miss.
// This indicates an internal invariant violation, not a user mistake.
func NewUnknownConfigPathError(path string) *RaskError {
	return New(ErrCodeUnknownConfigPath, fmt.Sprintf("no loaded configuration for discovered path: %s", path)).
		WithSuggestion("This is a bug in rask; please report it")
}

// NewCycleDetectedError creates a configuration cycle error
func NewCycleDetectedError(path string) *RaskError {
	return New(ErrCodeCycleDetected, fmt.Sprintf("configuration cycle detected at: %s", path)).
		WithSuggestion("Check for directory patterns that match an ancestor configuration")
}

// NewManifestMissingError creates a missing package manifest error
func NewManifestMissingError(engine, dir string) *RaskError {
	return New(ErrCodeManifestMissing, fmt.Sprintf("task engine %q requires a manifest, none found in %s", engine, dir)).
		WithSuggestion("Add the package manifest, or switch the configuration to taskEngine: shell")
}

// NewManifestInvalidError creates an unparsable package manifest error
func NewManifestInvalidError(path string, cause error) *RaskError {
	return Wrap(ErrCodeManifestInvalid, fmt.Sprintf("failed to parse manifest: %s", path), cause).
		WithSuggestion("Check that the manifest is valid JSON")
}

// NewTaskFailedError creates a non-zero-exit task error
func NewTaskFailedError(command string, exitCode int) *RaskError {
	return New(ErrCodeTaskFailed, fmt.Sprintf("task failed with exit code %d: %s", exitCode, command))
}

// NewSpawnFailedError creates a process start failure error
func NewSpawnFailedError(command string, cause error) *RaskError {
	return Wrap(ErrCodeSpawnFailed, fmt.Sprintf("failed to start task: %s", command), cause).
		WithSuggestion("Check that a POSIX shell is available on PATH")
}

// NewWorkerPanicError creates an abnormal worker termination error
func NewWorkerPanicError(command string, value any) *RaskError {
	return New(ErrCodeWorkerPanic, fmt.Sprintf("task worker panicked running %s: %v", command, value)).
		WithSuggestion("This is a bug in rask; please report it")
}

// NewAlreadyInitialisedError creates an init-refused error
func NewAlreadyInitialisedError(path string) *RaskError {
	return New(ErrCodeAlreadyInitialised, fmt.Sprintf("rask already initialised at %s", path)).
		WithSuggestion("Edit the existing rask.yaml instead of re-initialising")
}
