// Package cli implements the cobra-based CLI commands for vertexctl.
//
// Each command group (system, autodarts, cameras, settings, release,
// mock-server) is defined in its own file within this package. This file
// defines the root command that serves as the parent for all subcommands
// and handles global flags, configuration and error output.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vertexctl/internal/api"
	"github.com/shinji-kodama/vertexctl/internal/config"
	"github.com/shinji-kodama/vertexctl/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables debug logging and [verbose] trace lines on stderr.
	verbose bool

	// configPath points at a YAML config file. Empty means the default
	// per-user location, which may be absent.
	configPath string

	// baseURL overrides the configured device address.
	baseURL string

	// timeout overrides the configured per-request timeout.
	timeout time.Duration
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action. It only provides
// help text and global flags; functionality lives in the subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vertexctl",
		Short: "Command-line companion for the vertex Autodarts board computer",
		Long: `vertexctl talks to the device-management API of a vertex board computer
(system telemetry, the Autodarts service, cameras and settings) and automates
releases of the dashboard front-end.

The device address defaults to http://cdo-vertex.local and can be changed with
--base-url, the VERTEX_API_BASE_URL environment variable, or a config file.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors lets Execute format errors (text or JSON).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/vertexctl/config.yaml)")
	flags.StringVar(&baseURL, "base-url", "", "Device API base URL (overrides config and environment)")
	flags.DurationVar(&timeout, "timeout", 0, "Per-request timeout (default 15s)")

	rootCmd.AddCommand(NewHealthCommand())
	rootCmd.AddCommand(NewSystemCommand())
	rootCmd.AddCommand(NewAutodartsCommand())
	rootCmd.AddCommand(NewCamerasCommand())
	rootCmd.AddCommand(NewSettingsCommand())
	rootCmd.AddCommand(NewReleaseCommand())
	rootCmd.AddCommand(NewMockServerCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// An interrupt cancels the command's context; running child processes are
// killed and the release workflow exits with 130. CLIError types carry
// their own exit codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		printError(os.Stderr, err)
		os.Exit(int(exitCodeFor(err)))
	}
}

// exitCodeFor returns the process exit code for err.
func exitCodeFor(err error) model.ExitCode {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return model.ExitGeneralError
}

// printError outputs an error in the appropriate format (JSON or text)
// based on the --json global flag. API failures include their normalized
// status, code and request URL.
func printError(w io.Writer, err error) {
	message := err.Error()
	var underlying error

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		message = cliErr.Message
		underlying = cliErr.Err
	}

	var apiErr *api.Error
	hasAPIErr := errors.As(err, &apiErr)

	if jsonOutput {
		errObj := map[string]any{"message": message}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		if hasAPIErr {
			errObj["api"] = apiErr
		}
		data, _ := json.MarshalIndent(map[string]any{"error": errObj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
	if hasAPIErr {
		fmt.Fprintf(w, "  url: %s\n", apiErr.RequestURL)
		if apiErr.Status != 0 {
			fmt.Fprintf(w, "  status: %d\n", apiErr.Status)
		}
		if apiErr.Code != "" {
			fmt.Fprintf(w, "  code: %s\n", apiErr.Code)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}

// newLogger returns the structured logger handed to library packages.
// It is silent unless --verbose is set.
func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadConfig resolves configuration and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.API.Timeout = timeout
	}
	if cfg.Source != "" {
		VerboseLog("Loaded config from %s", cfg.Source)
	}
	return cfg, nil
}

// newAPIClient builds a device API client from the resolved configuration.
func newAPIClient() (*api.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client := api.New(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(newLogger()),
	)
	VerboseLog("Device API: %s (timeout %s)", client.Endpoint(), cfg.API.Timeout)
	return client, nil
}
