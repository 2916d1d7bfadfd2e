// Package cli implements the aether CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aether",
	Short: "Control the Aether desktop companion",
	Long: `Aether keeps a companion running in the system tray, listens for global
hotkeys and captures ideas, storing them locally when the backend is offline.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(autostartCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(offlineCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(windowsCmd)
}
