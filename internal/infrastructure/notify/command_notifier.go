package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/stintd/stint/internal/application/port/output"
)

// CommandNotifier delivers desktop notifications by running a platform
// notify command. The command is fire-and-forget: the caller treats a
// failure as a logged degradation, never as an operation failure.
type CommandNotifier struct {
	command string // optional override, platform default when empty
}

// NewCommandNotifier creates a notifier.
// A non-empty command overrides the platform default; it is split on
// whitespace and receives the title and body as its final two arguments.
func NewCommandNotifier(command string) *CommandNotifier {
	return &CommandNotifier{command: command}
}

// Notify runs the notify command for one notification
func (n *CommandNotifier) Notify(ctx context.Context, notification output.Notification) error {
	argv, err := n.buildArgs(runtime.GOOS, notification)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notify command %s failed: %w (%s)", argv[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// buildArgs resolves the argv for one notification
func (n *CommandNotifier) buildArgs(goos string, notification output.Notification) ([]string, error) {
	if n.command != "" {
		argv := strings.Fields(n.command)
		return append(argv, notification.Title, notification.Body), nil
	}

	switch goos {
	case "linux":
		return []string{"notify-send", "--app-name", "stint", notification.Title, notification.Body}, nil
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", notification.Body, notification.Title)
		return []string{"osascript", "-e", script}, nil
	case "windows":
		return []string{"msg", "*", fmt.Sprintf("%s: %s", notification.Title, notification.Body)}, nil
	default:
		return nil, fmt.Errorf("no notify command for %s, configure one in settings", goos)
	}
}
