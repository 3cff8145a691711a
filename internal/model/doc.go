// Package model defines the domain types and value objects for the
// vertexctl CLI.
//
// This package contains pure data structures with no external dependencies.
// Nothing here is persisted: camera lists and release step outcomes are
// transient values that live only as long as a single command invocation.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
