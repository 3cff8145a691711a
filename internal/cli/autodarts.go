package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vertexctl/internal/api"
)

// NewAutodartsCommand creates the "autodarts" command group, which manages
// the Autodarts board service on the device.
func NewAutodartsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autodarts",
		Short: "Manage the Autodarts service on the device",
	}

	cmd.AddCommand(simpleAPICommand("status", "Show Autodarts installation and service status",
		func(ctx context.Context, c *api.Client) (*api.Response, error) { return c.AutodartsStatus(ctx) }))
	cmd.AddCommand(bodyAPICommand("install", "Install Autodarts",
		func(ctx context.Context, c *api.Client, body any) (*api.Response, error) {
			return c.InstallAutodarts(ctx, body)
		}))
	cmd.AddCommand(bodyAPICommand("update", "Update Autodarts to the latest or a given version",
		func(ctx context.Context, c *api.Client, body any) (*api.Response, error) {
			return c.UpdateAutodarts(ctx, body)
		}))
	cmd.AddCommand(simpleAPICommand("check-update", "Check whether a newer Autodarts version is available",
		func(ctx context.Context, c *api.Client) (*api.Response, error) { return c.CheckAutodartsUpdate(ctx) }))
	cmd.AddCommand(simpleAPICommand("start", "Start the Autodarts service",
		func(ctx context.Context, c *api.Client) (*api.Response, error) { return c.StartAutodartsService(ctx) }))
	cmd.AddCommand(simpleAPICommand("stop", "Stop the Autodarts service",
		func(ctx context.Context, c *api.Client) (*api.Response, error) { return c.StopAutodartsService(ctx) }))
	cmd.AddCommand(simpleAPICommand("restart", "Restart the Autodarts service",
		func(ctx context.Context, c *api.Client) (*api.Response, error) { return c.RestartAutodartsService(ctx) }))
	cmd.AddCommand(newAutodartsLogsCommand())

	return cmd
}

// logLines is the shape of GET /autodarts/logs.
type logLines struct {
	Lines []string `json:"lines"`
}

func newAutodartsLogsCommand() *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the most recent Autodarts service log lines",
		Example: `  vertexctl autodarts logs
  vertexctl autodarts logs --lines 200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			resp, err := client.AutodartsLogs(cmd.Context(), lines)
			if err != nil {
				return wrapAPIError(err)
			}

			out := cmd.OutOrStdout()
			var logs logLines
			if IsJSONOutput() || resp.Decode(&logs) != nil || logs.Lines == nil {
				return printResponse(out, resp)
			}
			for _, line := range logs.Lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", api.DefaultLogLines, "Number of lines to fetch")
	return cmd
}

// simpleAPICommand builds a leaf command that performs one request with no
// payload.
func simpleAPICommand(use, short string, call apiCall) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAPICall(cmd, call)
		},
	}
}

// bodyAPICommand builds a leaf command whose optional JSON payload comes
// from --data or --file.
func bodyAPICommand(use, short string, call func(ctx context.Context, c *api.Client, body any) (*api.Response, error)) *cobra.Command {
	var data, file string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := readBody(data, file)
			if err != nil {
				return err
			}
			return runAPICall(cmd, func(ctx context.Context, c *api.Client) (*api.Response, error) {
				return call(ctx, c, body)
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body (comments allowed)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the JSON request body from a file")
	cmd.MarkFlagsMutuallyExclusive("data", "file")
	return cmd
}
