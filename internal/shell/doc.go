// Package shell runs external commands for the release workflow.
//
// Two modes are offered. Run echoes the command line as "> cmd args" and
// lets the child inherit the terminal, so build and push output reaches the
// user unchanged. Capture collects stdout for callers that parse it (for
// example `git status --porcelain`).
//
// Both modes report a non-zero exit as *ExitError carrying the child's
// exit status, so callers can terminate with the same code.
package shell
