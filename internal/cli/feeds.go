package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aether-ai/aether/internal/daemon/server"
)

var feedsJSON bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(ctx context.Context, c *server.CommandsClient) error {
			data, err := c.GetDashboardData(ctx)
			if err != nil {
				return err
			}
			if feedsJSON {
				return printJSON(data.AsMap())
			}
			printDashboard(data.AsMap())
			return nil
		})
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(func(ctx context.Context, c *server.CommandsClient) error {
			list, err := c.GetNotifications(ctx)
			if err != nil {
				return err
			}
			items := list.AsSlice()
			if feedsJSON {
				return printJSON(items)
			}
			if len(items) == 0 {
				fmt.Println("No notifications.")
				return nil
			}
			for _, item := range items {
				fmt.Println("  • " + notificationTitle(item))
			}
			return nil
		})
	},
}

func init() {
	dashboardCmd.Flags().BoolVar(&feedsJSON, "json", false, "Print raw JSON")
	notificationsCmd.Flags().BoolVar(&feedsJSON, "json", false, "Print raw JSON")
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// printDashboard prints each top-level section's scalar counters.
func printDashboard(data map[string]any) {
	sections := make([]string, 0, len(data))
	for k := range data {
		sections = append(sections, k)
	}
	sort.Strings(sections)

	for _, name := range sections {
		fmt.Println(styleBrand.Render(name))
		switch v := data[name].(type) {
		case map[string]any:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if nested, ok := v[k].(map[string]any); ok {
					printField(k, fmt.Sprint(nested["status"]))
					continue
				}
				printField(k, fmt.Sprint(v[k]))
			}
		case []any:
			for _, item := range v {
				fmt.Println("  • " + notificationTitle(item))
			}
		default:
			printField("value", fmt.Sprint(v))
		}
	}
}

func notificationTitle(item any) string {
	m, ok := item.(map[string]any)
	if !ok {
		return fmt.Sprint(item)
	}
	for _, key := range []string{"title", "message", "text"} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	data, _ := json.Marshal(m)
	return string(data)
}
