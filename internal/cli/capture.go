package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aether-ai/aether/internal/backend"
	"github.com/aether-ai/aether/internal/capture"
	"github.com/aether-ai/aether/internal/config"
	"github.com/aether-ai/aether/internal/daemon/server"
)

var captureDirect bool

var captureCmd = &cobra.Command{
	Use:   "capture [idea...]",
	Short: "Capture an idea",
	Long: `Capture an idea. With no arguments the idea is read from an interactive
prompt, or from standard input when it is not a terminal.

Ideas go to the Aether backend through the daemon. If the backend cannot be
reached the idea is stored locally; see "aether offline list".`,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().BoolVar(&captureDirect, "direct", false, "Capture without the daemon")
}

func runCapture(cmd *cobra.Command, args []string) error {
	content, err := readIdea(args, os.Stdin)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		fmt.Println(styleHint.Render("Nothing captured."))
		return nil
	}

	var outcome capture.Outcome
	if captureDirect {
		outcome, err = captureLocally(content)
	} else {
		outcome, err = captureViaDaemon(content)
	}
	if err != nil {
		return err
	}

	printOutcome(outcome)
	return nil
}

// readIdea joins args, or falls back to the prompt or piped stdin.
func readIdea(args []string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return promptIdea()
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read idea from stdin: %w", err)
	}
	return string(data), nil
}

func captureViaDaemon(content string) (capture.Outcome, error) {
	var outcome capture.Outcome
	err := withDaemon(func(ctx context.Context, c *server.CommandsClient) error {
		res, err := c.CaptureIdea(ctx, content)
		if err != nil {
			return err
		}
		outcome = outcomeFromStruct(res.AsMap())
		return nil
	})
	return outcome, err
}

// captureLocally runs the same capture path as the daemon in-process.
func captureLocally(content string) (capture.Outcome, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return capture.Outcome{}, fmt.Errorf("failed to load settings: %w", err)
	}
	client := backend.NewClient(settings.Backend.URL, settings.Backend.Timeout)
	svc := capture.NewService(client, capture.NewStore(config.OfflineIdeasFile()))
	return svc.Capture(context.Background(), content)
}

func outcomeFromStruct(fields map[string]any) capture.Outcome {
	o := capture.Outcome{}
	if v, ok := fields["kind"].(string); ok {
		o.Kind = capture.Kind(v)
	}
	if v, ok := fields["response"].(string); ok {
		o.Response = v
	}
	if v, ok := fields["reason"].(string); ok {
		o.Reason = capture.Reason(v)
	}
	if v, ok := fields["status_code"].(float64); ok {
		o.StatusCode = int(v)
	}
	return o
}

func printOutcome(o capture.Outcome) {
	if !o.Offline() {
		fmt.Println(styleSuccess.Render("✓ Idea captured."))
		if o.Response != "" {
			fmt.Println(styleHint.Render(o.Response))
		}
		return
	}

	fmt.Println(styleWarning.Render("✓ " + o.Response))
	switch {
	case o.Reason == capture.ReasonRejected && o.StatusCode != 0:
		fmt.Println(styleHint.Render(fmt.Sprintf("  The backend answered with status %d.", o.StatusCode)))
	case o.Reason == capture.ReasonUnreachable:
		fmt.Println(styleHint.Render("  The backend could not be reached."))
	}
}
