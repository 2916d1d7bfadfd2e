package cli

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aether-ai/aether/internal/config"
	"github.com/aether-ai/aether/internal/daemon/server"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the Aether daemon",
	Long:  `Manage the aetherd background process that owns the tray, hotkeys and windows.`,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	info, err := runningDaemon()
	if err != nil {
		return err
	}
	if info != nil {
		fmt.Printf("Daemon is already running (PID %d, port %d).\n", info.PID, info.Port)
		return nil
	}

	fmt.Print("Starting daemon...")
	if err := startDaemon(); err != nil {
		fmt.Println()
		return err
	}

	info, err = runningDaemon()
	if err != nil || info == nil {
		fmt.Println(" started.")
		return nil
	}
	fmt.Printf(" %s (PID %d, port %d).\n", styleSuccess.Render("started"), info.PID, info.Port)
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	info, err := runningDaemon()
	if err != nil {
		return err
	}
	if info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	uptime := time.Since(info.StartedAt).Truncate(time.Second)
	mode := "foreground"
	if info.Tray {
		mode = "tray"
	}

	fmt.Println("Daemon is running.")
	printField("Version", fmt.Sprint(info.Version))
	printField("Address", fmt.Sprintf("%s:%d", info.Host, info.Port))
	printField("PID", fmt.Sprint(info.PID))
	printField("Mode", mode)
	printField("Uptime", uptime.String())

	// Live details are best effort.
	conn, err := connectDaemon()
	if err != nil {
		return nil
	}
	defer conn.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	st, err := server.NewCommandsClient(conn).GetStatus(ctx)
	if err != nil {
		fmt.Println(styleHint.Render("  (daemon did not answer: " + err.Error() + ")"))
		return nil
	}
	fields := st.AsMap()
	if url, ok := fields["backend_url"].(string); ok {
		printField("Backend", url)
	}
	if hotkeys, ok := fields["hotkeys"].([]any); ok {
		if len(hotkeys) == 0 {
			printField("Hotkeys", styleWarning.Render("none registered"))
		}
		for _, h := range hotkeys {
			printField("Hotkey", fmt.Sprint(h))
		}
	}
	if enabled, ok := fields["autostart"].(bool); ok {
		printField("Autostart", onOff(enabled))
	}
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	info, err := runningDaemon()
	if err != nil {
		return err
	}
	if info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	// Ask nicely first; the quit goes through the same path as the tray menu.
	if conn, err := connectDaemon(); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = server.NewCommandsClient(conn).Shutdown(ctx)
		cancel()
		conn.Close()
		if err == nil && waitDaemonStopped() {
			fmt.Println("Daemon stopped.")
			return nil
		}
	}

	process, err := os.FindProcess(info.PID)
	if err != nil {
		return fmt.Errorf("failed to find daemon process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send stop signal: %w", err)
	}
	if waitDaemonStopped() {
		fmt.Println("Daemon stopped.")
		return nil
	}
	return fmt.Errorf("daemon did not stop within timeout")
}

func waitDaemonStopped() bool {
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, _, err := config.IsDaemonRunning()
		if err == nil && !running {
			return true
		}
	}
	return false
}

func printField(label, value string) {
	fmt.Printf("  %s %s\n", styleLabel.Render(fmt.Sprintf("%-10s", label+":")), styleValue.Render(value))
}

func onOff(b bool) string {
	if b {
		return styleSuccess.Render("enabled")
	}
	return styleHint.Render("disabled")
}
