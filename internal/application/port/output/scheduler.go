package output

import "time"

// WakeFunc is invoked when a scheduled wake-up fires, carrying the ID the
// wake-up was registered under
type WakeFunc func(id string)

// WakeScheduler requests deferred wake-ups for the timer.
//
// Wake-ups only bound how quickly a completion is noticed; correctness never
// depends on them firing. A wake-up that fires late, twice, or after the
// cycle it belonged to was cancelled must be harmless, because the handler
// re-validates against the stored state.
type WakeScheduler interface {
	// ScheduleAt registers a one-shot wake-up at an absolute time.
	// Re-registering an ID replaces the previous schedule.
	ScheduleAt(id string, at time.Time) error

	// ScheduleEvery registers a repeating wake-up with the given interval.
	// Re-registering an ID replaces the previous schedule.
	ScheduleEvery(id string, interval time.Duration) error

	// Cancel removes a scheduled wake-up. Unknown IDs are ignored.
	Cancel(id string)
}
