package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/vertexctl/internal/shell"
)

// PatchBump is the `npm version` argument used when no explicit version
// is given.
const PatchBump = "patch"

// Tool runs npm through a shell.Executor.
type Tool struct {
	exec    shell.Executor
	windows bool
}

// New creates a Tool for the current platform.
func New(exec shell.Executor) *Tool {
	return &Tool{exec: exec, windows: runtime.GOOS == "windows"}
}

// RunScript runs `npm run <script>`.
func (t *Tool) RunScript(ctx context.Context, script string) error {
	return t.run(ctx, "run", script)
}

// Version runs `npm version <version>`. An empty version means PatchBump.
// npm creates the version commit and tag itself.
func (t *Tool) Version(ctx context.Context, version string) error {
	if strings.TrimSpace(version) == "" {
		version = PatchBump
	}
	return t.run(ctx, "version", version)
}

// run invokes npm. On Windows npm is a .cmd shim, which CreateProcess
// cannot start directly, so it goes through cmd.exe.
func (t *Tool) run(ctx context.Context, args ...string) error {
	name, full := t.command(args...)
	return t.exec.Run(ctx, name, full...)
}

// command returns the executable and arguments for an npm invocation.
func (t *Tool) command(args ...string) (string, []string) {
	if t.windows {
		return "cmd.exe", append([]string{"/d", "/s", "/c", "npm"}, args...)
	}
	return "npm", args
}

// Package is the subset of package.json vertexctl reads.
type Package struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Scripts map[string]string `json:"scripts"`
}

// ReadPackage parses dir/package.json.
func ReadPackage(dir string) (*Package, error) {
	path := filepath.Join(dir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var pkg Package
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &pkg, nil
}

// ReadVersion returns the version field of dir/package.json.
func ReadVersion(dir string) (string, error) {
	pkg, err := ReadPackage(dir)
	if err != nil {
		return "", err
	}
	if pkg.Version == "" {
		return "", errors.New("package.json has no version field")
	}
	return pkg.Version, nil
}
