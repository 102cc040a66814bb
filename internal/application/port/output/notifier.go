package output

import "context"

// Notification is a short user-facing message about a phase completion
type Notification struct {
	Title string
	Body  string
}

// Notifier delivers phase-completion notifications to the user.
// Delivery is fire-and-forget: failures are logged by the caller and never
// affect timer state, which is already durable when Notify is called.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
