// Package cmd implements the aetherd command line.
package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/aether-ai/aether/internal/config"
)

var (
	foreground bool
	port       int
)

var rootCmd = &cobra.Command{
	Use:   "aetherd",
	Short: "Aether desktop companion daemon",
	Long: `aetherd keeps Aether running in the background: it owns the system tray
icon, global hotkeys and the app windows, and serves the command API used by
the UI and the aether CLI.`,
	SilenceUsage: true,
	RunE:         runDaemon,
}

// Execute runs the daemon command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&foreground, "foreground", false, "Run in foreground without a system tray (for development)")
	rootCmd.Flags().IntVar(&port, "port", 0, "Port to listen on (0 for dynamic allocation; default from settings)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log.SetPrefix("[aetherd] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := config.EnsureGlobalDir(); err != nil {
		log.Fatalf("Failed to create global directory: %v", err)
	}

	running, info, err := config.IsDaemonRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon already running on port %d (PID %d)", info.Port, info.PID)
	}

	d, err := newDaemon(!foreground)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		d.settings.Server.Port = port
	}

	if foreground {
		log.Println("Running in foreground mode (no system tray)")
		runForeground(d)
	} else {
		log.Println("Running in background mode (with system tray)")
		runWithTray(d)
	}
	return nil
}
