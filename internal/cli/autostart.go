package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aether-ai/aether/internal/daemon/server"
)

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage launching Aether at login",
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Launch Aether at login",
	RunE:  func(cmd *cobra.Command, args []string) error { return setAutostart(true) },
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop launching Aether at login",
	RunE:  func(cmd *cobra.Command, args []string) error { return setAutostart(false) },
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether Aether launches at login",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(ctx context.Context, c *server.CommandsClient) error {
			enabled, err := c.IsAutostartEnabled(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Autostart is %s.\n", onOff(enabled))
			return nil
		})
	},
}

func init() {
	autostartCmd.AddCommand(autostartEnableCmd)
	autostartCmd.AddCommand(autostartDisableCmd)
	autostartCmd.AddCommand(autostartStatusCmd)
}

func setAutostart(enable bool) error {
	return withDaemon(func(ctx context.Context, c *server.CommandsClient) error {
		enabled, err := c.ToggleAutostart(ctx, enable)
		if err != nil {
			return fmt.Errorf("failed to update autostart: %w", err)
		}
		fmt.Printf("Autostart is %s.\n", onOff(enabled))
		return nil
	})
}
