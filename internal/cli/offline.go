package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aether-ai/aether/internal/capture"
	"github.com/aether-ai/aether/internal/config"
)

var offlineCmd = &cobra.Command{
	Use:   "offline",
	Short: "Inspect ideas stored while offline",
}

var offlineListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List ideas stored locally",
	RunE:    runOfflineList,
}

var offlinePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the local idea log path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.OfflineIdeasFile())
	},
}

func init() {
	offlineCmd.AddCommand(offlineListCmd)
	offlineCmd.AddCommand(offlinePathCmd)
}

func runOfflineList(cmd *cobra.Command, args []string) error {
	entries, err := capture.NewStore(config.OfflineIdeasFile()).Records()
	if err != nil {
		return fmt.Errorf("failed to read offline ideas: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No ideas stored offline.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", styleLabel.Render(e.Timestamp.Format(time.RFC3339)), e.Content)
	}
	fmt.Fprintln(cmd.OutOrStdout(), styleHint.Render(fmt.Sprintf("%d idea(s) waiting in %s", len(entries), config.OfflineIdeasFile())))
	return nil
}
