package git

import (
	"context"
	"runtime"
	"strings"

	"github.com/shinji-kodama/vertexctl/internal/shell"
)

// Binary returns the git executable name for the current platform.
func Binary() string {
	if runtime.GOOS == "windows" {
		return "git.exe"
	}
	return "git"
}

// Repo runs git commands against one working tree.
type Repo struct {
	// Dir is passed to git via -C. Empty means the current directory, in
	// which case no -C flag is added and the echoed commands stay short.
	Dir string

	exec shell.Executor
	bin  string
}

// NewRepo creates a Repo for dir that runs git through exec.
func NewRepo(dir string, exec shell.Executor) *Repo {
	return &Repo{Dir: dir, exec: exec, bin: Binary()}
}

// StatusEntry is one line of `git status --porcelain`.
type StatusEntry struct {
	// Code is the two-letter XY status (e.g., " M", "??", "A ").
	Code string

	// Path is the file path. For renames it is the destination.
	Path string
}

// Status returns the raw porcelain status. An empty string means the
// working tree is clean.
func (r *Repo) Status(ctx context.Context) (string, error) {
	return r.exec.Capture(ctx, r.bin, r.args("status", "--porcelain")...)
}

// Changes returns the parsed porcelain status.
func (r *Repo) Changes(ctx context.Context) ([]StatusEntry, error) {
	out, err := r.Status(ctx)
	if err != nil {
		return nil, err
	}
	return ParsePorcelain(out), nil
}

// AddAll stages every change, including deletions and untracked files.
func (r *Repo) AddAll(ctx context.Context) error {
	return r.exec.Run(ctx, r.bin, r.args("add", "-A")...)
}

// Commit records staged changes with message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	return r.exec.Run(ctx, r.bin, r.args("commit", "-m", message)...)
}

// Push pushes ref (usually HEAD) to remote.
func (r *Repo) Push(ctx context.Context, remote, ref string) error {
	return r.exec.Run(ctx, r.bin, r.args("push", remote, ref)...)
}

// PushTags pushes all tags to remote.
func (r *Repo) PushTags(ctx context.Context, remote string) error {
	return r.exec.Run(ctx, r.bin, r.args("push", remote, "--tags")...)
}

// CurrentBranch returns the short name of the checked-out branch, or
// "HEAD" when detached.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	return r.exec.Capture(ctx, r.bin, r.args("rev-parse", "--abbrev-ref", "HEAD")...)
}

// args prepends -C <Dir> when a directory is set.
func (r *Repo) args(args ...string) []string {
	if r.Dir == "" {
		return args
	}
	return append([]string{"-C", r.Dir}, args...)
}

// ParsePorcelain parses `git status --porcelain` (v1) output.
//
// Example input:
//
//	 M src/services/api.js
//	?? scripts/new.js
//	R  old.txt -> new.txt
func ParsePorcelain(output string) []StatusEntry {
	var entries []StatusEntry
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		// The XY code takes two columns followed by a space.
		if len(line) < 4 {
			continue
		}
		path := line[3:]
		if _, dest, ok := strings.Cut(path, " -> "); ok {
			path = dest
		}
		entries = append(entries, StatusEntry{Code: line[:2], Path: path})
	}
	return entries
}
