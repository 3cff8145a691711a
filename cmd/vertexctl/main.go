// Package main is the entry point for the vertexctl CLI.
//
// vertexctl drives the device-management API of a vertex board computer and
// automates dashboard releases. All functionality lives in internal/cli.
//
// Build-time variables (version, commit, date) are injected via ldflags,
// e.g. -ldflags "-X main.version=1.2.0". During development they default
// to "dev", "none", and "unknown".
package main

import (
	"github.com/shinji-kodama/vertexctl/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Execute handles error formatting and exit codes.
	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
