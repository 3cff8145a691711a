// Package model defines the domain types for the vertexctl CLI.
//
// These types are shared between the API client, the release workflow
// and the cobra commands that present their results.
package model

import "fmt"

// StepStatus represents the outcome of a single release workflow step.
// The transitions are:
//
//	pending → ok
//	pending → failed (terminal, remaining steps become skipped)
//	pending → skipped
type StepStatus string

const (
	// StepPending indicates the step has not run yet.
	StepPending StepStatus = "pending"

	// StepOK indicates the step completed successfully.
	StepOK StepStatus = "ok"

	// StepFailed indicates the step aborted the workflow.
	StepFailed StepStatus = "failed"

	// StepSkipped indicates the step never ran because the workflow
	// stopped earlier (clean tree or an earlier failure).
	StepSkipped StepStatus = "skipped"
)

// String returns the string representation of StepStatus.
func (s StepStatus) String() string {
	return string(s)
}

// Camera is a single camera feed as reported by GET /cameras.
type Camera struct {
	// ID is the device-side identifier (e.g., "camera-1").
	ID string `json:"id"`

	// Name is the display label.
	Name string `json:"name"`

	// Active reports whether the feed is currently streaming.
	Active bool `json:"active"`

	// FeedURL is where the dashboard loads the video or still image from.
	FeedURL string `json:"feed_url"`
}

// CameraList is the payload of GET /cameras.
type CameraList struct {
	Cameras []Camera `json:"cameras"`

	// Placeholder is set when the list was synthesized locally because
	// the device could not be reached. It is never serialized.
	Placeholder bool `json:"-"`
}

// ExitCode defines standard CLI exit codes.
// These codes allow scripts and CI systems to programmatically determine
// the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred. It is also
	// used when an external command fails without a known exit status.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the configuration file or an override
	// could not be read or parsed.
	ExitConfigError ExitCode = 2

	// ExitAPIError indicates a request to the device API failed.
	ExitAPIError ExitCode = 3

	// ExitUserCancelled indicates the user interrupted an interactive prompt.
	ExitUserCancelled ExitCode = 130
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
