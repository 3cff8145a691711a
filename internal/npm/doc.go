// Package npm wraps the npm invocations used by the release workflow and
// reads the resulting package version.
//
// package.json is read through github.com/tidwall/jsonc so that files
// carrying comments or trailing commas (tolerated by many editors and by
// some toolchains) do not break the version report.
package npm
