package dto

// CycleDTO is the presentable form of a history cycle.
// Times are UTC RFC3339 strings, empty when not reached.
type CycleDTO struct {
	ID             string `json:"id"`
	Label          string `json:"label,omitempty"`
	FocusSeconds   int64  `json:"focus_seconds"`
	BreakSeconds   int64  `json:"break_seconds"`
	StartedAt      string `json:"started_at"`
	FocusDoneAt    string `json:"focus_done_at,omitempty"`
	EndedAt        string `json:"ended_at,omitempty"`
	Outcome        string `json:"outcome"`
	CancelledPhase string `json:"cancelled_phase,omitempty"`
}

// StatsDTO aggregates history cycles over a window
type StatsDTO struct {
	WindowDays         int     `json:"window_days"`
	TotalCycles        int     `json:"total_cycles"`
	CompletedCycles    int     `json:"completed_cycles"`
	CancelledCycles    int     `json:"cancelled_cycles"`
	CompletionRate     float64 `json:"completion_rate"`
	FocusSecondsTotal  int64   `json:"focus_seconds_total"`
	FocusWallMeanSec   float64 `json:"focus_wall_mean_seconds"`
	FocusWallStdDevSec float64 `json:"focus_wall_stddev_seconds"`
}

// ExportResult describes a written export document
type ExportResult struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	SizeBytes int64  `json:"size_bytes"`
	Cycles    int    `json:"cycles"`
}
