package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vertexctl/internal/api"
	"github.com/shinji-kodama/vertexctl/internal/model"
)

// apiCall is one request against the device API.
type apiCall func(ctx context.Context, client *api.Client) (*api.Response, error)

// runAPICall builds a client, performs call and prints the response.
func runAPICall(cmd *cobra.Command, call apiCall) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	resp, err := call(cmd.Context(), client)
	if err != nil {
		return wrapAPIError(err)
	}
	VerboseLog("%d %s (request id %s)", resp.Status, resp.URL, resp.RequestID)

	return printResponse(cmd.OutOrStdout(), resp)
}

// wrapAPIError converts a client failure into a CLIError with the API exit code.
func wrapAPIError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return model.WrapCLIError(model.ExitAPIError, "API request failed", apiErr)
	}
	return model.WrapCLIError(model.ExitGeneralError, "request could not be made", err)
}

// NewHealthCommand creates the "health" subcommand.
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the device API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAPICall(cmd, func(ctx context.Context, c *api.Client) (*api.Response, error) {
				return c.Health(ctx)
			})
		},
	}
}

// NewSystemCommand creates the "system" subcommand, which reads one of the
// device telemetry endpoints.
func NewSystemCommand() *cobra.Command {
	names := make([]string, 0, len(api.SystemEndpoints))
	for _, e := range api.SystemEndpoints {
		names = append(names, e.Name)
	}

	return &cobra.Command{
		Use:   "system <name>",
		Short: "Read device telemetry",
		Long: fmt.Sprintf(`Read one of the device telemetry endpoints.

Available names: %s`, strings.Join(names, ", ")),
		Example: `  vertexctl system temperature
  vertexctl system wifi --json`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return runAPICall(cmd, func(ctx context.Context, c *api.Client) (*api.Response, error) {
				return c.System(ctx, name)
			})
		},
	}
}
