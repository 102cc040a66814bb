package output

import "time"

// EventType classifies a timer state change
type EventType string

const (
	EventStarted        EventType = "STARTED"
	EventPaused         EventType = "PAUSED"
	EventResumed        EventType = "RESUMED"
	EventCancelled      EventType = "CANCELLED"
	EventFocusCompleted EventType = "FOCUS_COMPLETED"
	EventAcknowledged   EventType = "ACKNOWLEDGED"
	EventBreakCompleted EventType = "BREAK_COMPLETED"
	EventTick           EventType = "TICK" // heartbeat refresh, no transition
)

// TimerEvent describes a state change pushed to observers
type TimerEvent struct {
	Type             EventType
	Phase            string
	Label            string
	RemainingSeconds int64
	EndAt            time.Time // zero when no phase is running
	At               time.Time
}

// EventBus fans timer events out to in-process subscribers.
//
// Delivery is best-effort: publishing never blocks, so a subscriber that
// falls behind misses events and is expected to re-poll for the current
// snapshot instead of trusting the stream to be complete.
type EventBus interface {
	// Publish pushes an event to all current subscribers without blocking
	Publish(ev TimerEvent)

	// Subscribe registers a subscriber with the given channel buffer size
	// and returns the event channel plus a token for Unsubscribe
	Subscribe(buffer int) (<-chan TimerEvent, string)

	// Unsubscribe removes a subscriber and closes its channel.
	// Unknown tokens are ignored.
	Unsubscribe(token string)
}
