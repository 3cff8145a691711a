package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// UnknownExitCode is reported when the child never produced an exit status
// (it could not be started, or was killed by a signal).
const UnknownExitCode = -1

// Executor is the behaviour the git and npm wrappers depend on. *Runner
// implements it; tests substitute recording fakes.
type Executor interface {
	// Run executes the command with inherited stdio.
	Run(ctx context.Context, name string, args ...string) error

	// Capture executes the command and returns its stdout without
	// trailing whitespace.
	Capture(ctx context.Context, name string, args ...string) (string, error)
}

// ExitError reports a command that did not exit with status 0.
type ExitError struct {
	// Command is the command line as echoed.
	Command string

	// Code is the exit status, or UnknownExitCode.
	Code int

	// Stderr holds captured error output (Capture mode only).
	Stderr string

	// Err is the underlying error from os/exec.
	Err error
}

// Error returns a one-line description including stderr when available.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Command)
	if e.Code != UnknownExitCode {
		msg = fmt.Sprintf("%s (exit status %d)", msg, e.Code)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	if e.Err != nil && e.Code == UnknownExitCode {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying os/exec error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Runner executes commands with os/exec.
type Runner struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner returns a Runner attached to the process's own stdio.
func NewRunner() *Runner {
	return &Runner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run echoes "> name args..." to Stdout and runs the command with the
// runner's stdio.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	line := CommandLine(name, args...)
	if r.Stdout != nil {
		fmt.Fprintf(r.Stdout, "> %s\n", line)
	}

	// #nosec G204 -- commands are fixed by the release workflow
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return newExitError(line, "", err)
	}
	return nil
}

// Capture runs the command silently and returns its stdout with trailing
// whitespace removed. Leading whitespace is kept because it is significant
// in formats such as `git status --porcelain`.
func (r *Runner) Capture(ctx context.Context, name string, args ...string) (string, error) {
	line := CommandLine(name, args...)

	// #nosec G204 -- commands are fixed by the release workflow
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", newExitError(line, strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimRight(stdout.String(), " \t\r\n"), nil
}

// newExitError extracts the exit status from an os/exec error.
func newExitError(line, stderr string, err error) *ExitError {
	code := UnknownExitCode
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ExitCode is -1 when the process was terminated by a signal,
		// which matches UnknownExitCode.
		code = exitErr.ExitCode()
	}
	return &ExitError{Command: line, Code: code, Stderr: stderr, Err: err}
}

// CommandLine joins a command for display.
func CommandLine(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// ExitCode returns the exit status carried by err, or UnknownExitCode.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return UnknownExitCode
}
