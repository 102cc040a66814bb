package dto

// StatusDTO is the presentable projection of the timer state.
// Times are UTC RFC3339 strings; remaining time is whole seconds rounded up.
type StatusDTO struct {
	Phase            string `json:"phase"`
	Label            string `json:"label,omitempty"`
	Running          bool   `json:"running"`
	Paused           bool   `json:"paused"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	EndAt            string `json:"end_at,omitempty"` // empty unless a phase is running
	FocusSeconds     int64  `json:"focus_seconds"`
	BreakSeconds     int64  `json:"break_seconds"`
	CycleID          string `json:"cycle_id,omitempty"`
}

// RejectionKind classifies why an operation was refused
type RejectionKind string

const (
	RejectionValidation RejectionKind = "VALIDATION" // malformed input
	RejectionTransition RejectionKind = "TRANSITION" // not legal in the current phase
)

// OperationResult reports the outcome of a timer operation.
// Refusals come back as values with a kind and reason so hosts can render
// them directly; Go errors are reserved for infrastructure failures.
type OperationResult struct {
	Ok        bool          `json:"ok"`
	Rejection RejectionKind `json:"rejection,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Status    StatusDTO     `json:"status"`
}

// StartTimerRequest carries the parameters of a start operation
type StartTimerRequest struct {
	FocusSeconds int64
	BreakSeconds int64
	Label        string
}
