package cli

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aether-ai/aether/internal/config"
	"github.com/aether-ai/aether/internal/daemon/hotkey"
	"github.com/aether-ai/aether/internal/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show global settings",
	Long: `Show the settings in ~/.aether/settings.yaml.

A running daemon picks up backend changes immediately; hotkey and server
changes apply on the next daemon start.`,
	RunE: runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. Keys:
  backend.url             Aether backend base URL
  backend.timeout         request timeout, e.g. 30s
  hotkeys.quick_capture   e.g. ctrl+shift+space ("" disables)
  hotkeys.show_window     e.g. ctrl+shift+a ("" disables)
  analytics.enabled       true or false
  server.port             daemon port, 0 for dynamic`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsConfigureCmd = &cobra.Command{
	Use:     "configure",
	Aliases: []string{"config"},
	Short:   "Configure settings interactively",
	Long: `Configure settings interactively.

Press Enter to keep the current value for any setting.`,
	RunE: runSettingsConfigure,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsConfigureCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	printField("Backend", settings.Backend.URL)
	printField("Timeout", settings.Backend.Timeout.String())
	printField("Capture", hotkeyOrOff(settings.Hotkeys.QuickCapture))
	printField("Show", hotkeyOrOff(settings.Hotkeys.ShowWindow))
	printField("Analytics", onOff(settings.Analytics.Enabled))
	port := "dynamic"
	if settings.Server.Port != 0 {
		port = strconv.Itoa(settings.Server.Port)
	}
	printField("Port", port)
	if env := os.Getenv(config.BackendURLEnv); env != "" {
		fmt.Println(styleHint.Render("  (backend overridden by " + config.BackendURLEnv + ")"))
	}
	return nil
}

func hotkeyOrOff(s string) string {
	if s == "" {
		return styleHint.Render("disabled")
	}
	return s
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	settings, err := loadStoredSettings()
	if err != nil {
		return err
	}
	if err := applySetting(settings, args[0], args[1]); err != nil {
		return err
	}
	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Printf("%s = %s\n", args[0], args[1])
	return nil
}

// loadStoredSettings loads settings.yaml without the environment override
// so that saving does not persist it.
func loadStoredSettings() (*models.Settings, error) {
	path, err := config.GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := config.LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	settings.ApplyDefaults()
	return settings, nil
}

// applySetting validates and sets one key.
func applySetting(s *models.Settings, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "backend.url":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid backend URL %q: expected http(s)://host[:port]", value)
		}
		s.Backend.URL = strings.TrimRight(value, "/")
	case "backend.timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout %q: expected a positive duration like 30s", value)
		}
		s.Backend.Timeout = d
	case "hotkeys.quick_capture", "hotkeys.show_window":
		normalized := ""
		if value != "" {
			b, err := hotkey.ParseBinding(value)
			if err != nil {
				return err
			}
			normalized = b.String()
		}
		if key == "hotkeys.quick_capture" {
			s.Hotkeys.QuickCapture = normalized
		} else {
			s.Hotkeys.ShowWindow = normalized
		}
	case "analytics.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		s.Analytics.Enabled = b
	case "server.port":
		port, err := strconv.Atoi(value)
		if err != nil || port < 0 || port > 65535 {
			return fmt.Errorf("invalid port %q", value)
		}
		s.Server.Port = port
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func runSettingsConfigure(cmd *cobra.Command, args []string) error {
	settings, err := loadStoredSettings()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	changed := false

	for _, field := range []struct {
		key, prompt, current string
	}{
		{"backend.url", "Backend URL", settings.Backend.URL},
		{"backend.timeout", "Backend timeout", settings.Backend.Timeout.String()},
		{"hotkeys.quick_capture", "Quick capture hotkey", settings.Hotkeys.QuickCapture},
		{"hotkeys.show_window", "Show window hotkey", settings.Hotkeys.ShowWindow},
	} {
		fmt.Printf("%s [%s]: ", field.prompt, field.current)
		value, _ := reader.ReadString('\n')
		value = strings.TrimSpace(value)
		if value == "" || value == field.current {
			continue
		}
		if err := applySetting(settings, field.key, value); err != nil {
			return err
		}
		changed = true
	}

	enabled := promptYesNoWithCurrent(reader, "Send anonymous usage analytics?", settings.Analytics.Enabled)
	if enabled != settings.Analytics.Enabled {
		settings.Analytics.Enabled = enabled
		changed = true
	}

	if !changed {
		fmt.Println("\nNo changes made.")
		return nil
	}
	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("\n" + styleSuccess.Render("Settings updated."))
	return nil
}

// promptYesNoWithCurrent prompts for a yes/no value showing the current value.
func promptYesNoWithCurrent(reader *bufio.Reader, prompt string, current bool) bool {
	currentStr := "no"
	if current {
		currentStr = "yes"
	}

	fmt.Printf("%s [%s]: ", prompt, currentStr)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))

	if response == "" {
		return current
	}
	return response == "y" || response == "yes"
}
