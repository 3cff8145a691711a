package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vertexctl/internal/api"
)

// NewSettingsCommand creates the "settings" command group.
func NewSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change device settings",
	}

	cmd.AddCommand(simpleAPICommand("get", "Show device settings",
		func(ctx context.Context, c *api.Client) (*api.Response, error) { return c.Settings(ctx) }))

	set := bodyAPICommand("set", "Update device settings",
		func(ctx context.Context, c *api.Client, body any) (*api.Response, error) {
			return c.UpdateSettings(ctx, body)
		})
	set.Example = `  vertexctl settings set --data '{"brightness": 80}'
  vertexctl settings set --file settings.jsonc`
	cmd.AddCommand(set)

	cmd.AddCommand(simpleAPICommand("auto-update", "Show auto-update settings",
		func(ctx context.Context, c *api.Client) (*api.Response, error) { return c.AutoUpdateSettings(ctx) }))
	cmd.AddCommand(bodyAPICommand("set-auto-update", "Update auto-update settings",
		func(ctx context.Context, c *api.Client, body any) (*api.Response, error) {
			return c.UpdateAutoUpdateSettings(ctx, body)
		}))
	cmd.AddCommand(simpleAPICommand("reset", "Reset device settings to defaults",
		func(ctx context.Context, c *api.Client) (*api.Response, error) { return c.ResetSettings(ctx) }))

	return cmd
}
