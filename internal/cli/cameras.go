package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vertexctl/internal/api"
)

// NewCamerasCommand creates the "cameras" command group.
func NewCamerasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cameras",
		Short: "List and control the board cameras",
	}

	cmd.AddCommand(newCamerasListCommand())
	cmd.AddCommand(simpleAPICommand("start", "Start all camera feeds",
		func(ctx context.Context, c *api.Client) (*api.Response, error) { return c.StartCameras(ctx) }))
	cmd.AddCommand(simpleAPICommand("stop", "Stop all camera feeds",
		func(ctx context.Context, c *api.Client) (*api.Response, error) { return c.StopCameras(ctx) }))

	return cmd
}

// cameraListJSON is the --json form of "cameras list". Unlike the API
// payload it exposes whether the list is a placeholder.
type cameraListJSON struct {
	Cameras     any  `json:"cameras"`
	Placeholder bool `json:"placeholder"`
}

func newCamerasListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cameras (shows a placeholder when the device is unreachable)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			list := client.Cameras(cmd.Context())
			if list.Placeholder {
				VerboseLog("Camera request failed; using placeholder list")
			}

			if IsJSONOutput() {
				return printJSON(cmd.OutOrStdout(), cameraListJSON{Cameras: list.Cameras, Placeholder: list.Placeholder})
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatCameraTable(list))
			return nil
		},
	}
}
