package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/vertexctl/internal/model"
)

const (
	// DefaultBaseURL is the device address used when nothing overrides it.
	// The board computer announces itself over mDNS under this name.
	DefaultBaseURL = "http://cdo-vertex.local"

	// DefaultTimeout bounds every API request.
	DefaultTimeout = 15 * time.Second

	// DefaultBuildDir is the directory a successful dashboard build fills.
	DefaultBuildDir = "dist"

	// DefaultRemote is the git remote the release pushes to.
	DefaultRemote = "origin"
)

// Environment variable names.
const (
	EnvBaseURL     = "VERTEX_API_BASE_URL"
	EnvViteBaseURL = "VITE_API_BASE_URL"
	EnvTimeout     = "VERTEX_API_TIMEOUT"
)

// Config is the fully resolved configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Release ReleaseConfig `yaml:"release"`

	// Source is the file the config was read from, empty when only
	// defaults and environment were used.
	Source string `yaml:"-"`
}

// APIConfig controls the device API client.
type APIConfig struct {
	// BaseURL is the raw device address. It is normalized by the api
	// package, so trailing slashes and a trailing /api are both fine.
	BaseURL string `yaml:"baseURL"`

	// Timeout is the per-request deadline.
	Timeout time.Duration `yaml:"timeout"`
}

// ReleaseConfig controls the release workflow.
type ReleaseConfig struct {
	BuildDir string `yaml:"buildDir"`
	Remote   string `yaml:"remote"`
}

// Default returns a Config populated with built-in defaults only.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Release: ReleaseConfig{
			BuildDir: DefaultBuildDir,
			Remote:   DefaultRemote,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vertexctl", "config.yaml"), nil
}

// Load resolves the configuration.
//
// If path is empty the default location is tried and silently skipped when
// absent. An explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

// load is Load with an injectable environment lookup for tests.
func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		// A missing per-user file is the common case and is not an error.
		if err := cfg.readFile(path); err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
			return nil, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

// readFile merges the YAML file at path into cfg.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("config file not found: %s", path), err)
		}
		return model.WrapCLIError(model.ExitConfigError, "failed to read config file", err)
	}

	// yaml.v3 leaves fields that are absent from the document untouched,
	// so defaults survive a partial file.
	if err := yaml.Unmarshal(data, c); err != nil {
		return model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to parse config file %s", path), err)
	}
	c.Source = path
	return nil
}

// applyEnv overlays environment variables. VERTEX_API_BASE_URL wins over
// the dashboard's VITE_API_BASE_URL so the CLI can be pointed elsewhere
// without touching the front-end build environment.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvViteBaseURL); ok && strings.TrimSpace(v) != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookup(EnvBaseURL); ok && strings.TrimSpace(v) != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookup(EnvTimeout); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("invalid %s value %q", EnvTimeout, v), err)
		}
		c.API.Timeout = d
	}
	return nil
}

// fillDefaults restores defaults for values a file explicitly blanked.
func (c *Config) fillDefaults() {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.Release.BuildDir == "" {
		c.Release.BuildDir = DefaultBuildDir
	}
	if c.Release.Remote == "" {
		c.Release.Remote = DefaultRemote
	}
}
