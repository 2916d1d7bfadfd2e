package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aether-ai/aether/internal/daemon/server"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the main window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(ctx context.Context, c *server.CommandsClient) error {
			return c.ShowMainWindow(ctx)
		})
	},
}

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Hide the main window to the tray",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(ctx context.Context, c *server.CommandsClient) error {
			return c.HideMainWindow(ctx)
		})
	},
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List managed windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(ctx context.Context, c *server.CommandsClient) error {
			list, err := c.ListWindows(ctx)
			if err != nil {
				return err
			}
			for _, v := range list.GetValues() {
				fmt.Println(formatWindow(v.GetStructValue().AsMap()))
			}
			return nil
		})
	},
}

// formatWindow renders one window handle as "label  state[, focused]".
func formatWindow(w map[string]any) string {
	label, _ := w["label"].(string)
	visible, _ := w["visible"].(bool)
	focused, _ := w["focused"].(bool)
	minimized, _ := w["minimized"].(bool)

	var states []string
	if visible {
		states = append(states, badgeVisible.Render("visible"))
	} else {
		states = append(states, badgeHidden.Render("hidden"))
	}
	if minimized {
		states = append(states, badgeHidden.Render("minimized"))
	}
	if focused {
		states = append(states, badgeFocused.Render("focused"))
	}
	return fmt.Sprintf("  %-14s %s", label, strings.Join(states, ", "))
}
