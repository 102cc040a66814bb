package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/stintd/stint/internal/application/dto"
)

// formatSeconds renders a whole-second count the way durations print
func formatSeconds(seconds int64) string {
	return (time.Duration(seconds) * time.Second).String()
}

// renderStatus writes the human-readable status block
func renderStatus(w io.Writer, st dto.StatusDTO) {
	fmt.Fprintf(w, "Phase     : %s\n", st.Phase)
	if st.Label != "" {
		fmt.Fprintf(w, "Label     : %s\n", st.Label)
	}
	if st.Phase != "IDLE" {
		fmt.Fprintf(w, "Remaining : %s\n", formatSeconds(st.RemainingSeconds))
	}
	if st.EndAt != "" {
		fmt.Fprintf(w, "Ends at   : %s\n", st.EndAt)
	}
	fmt.Fprintf(w, "Focus     : %s\n", formatSeconds(st.FocusSeconds))
	fmt.Fprintf(w, "Break     : %s\n", formatSeconds(st.BreakSeconds))
}

// renderResult writes an operation outcome. Rejections are ordinary
// outcomes here, not command failures: the message names the refusal and
// the exit status stays zero so scripts read ok from the JSON form.
func renderResult(w io.Writer, res *dto.OperationResult, jsonOutput bool) error {
	if jsonOutput {
		return printJSON(w, res)
	}
	if !res.Ok {
		fmt.Fprintf(w, "Rejected (%s): %s\n", res.Rejection, res.Reason)
	}
	renderStatus(w, res.Status)
	return nil
}

// printJSON writes v as a single JSON line
func printJSON(w io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}
