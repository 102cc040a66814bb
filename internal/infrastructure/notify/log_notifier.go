package notify

import (
	"context"

	"github.com/stintd/stint/internal/application/port/output"
)

// LogNotifier writes notifications to the log instead of the desktop.
// Used when desktop notifications are disabled and in tests.
type LogNotifier struct {
	log output.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(log output.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the notification
func (n *LogNotifier) Notify(ctx context.Context, notification output.Notification) error {
	n.log.Info("%s: %s", notification.Title, notification.Body)
	return nil
}
