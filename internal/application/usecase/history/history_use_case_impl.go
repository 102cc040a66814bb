package history

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/stat"

	"github.com/stintd/stint/internal/application/dto"
	"github.com/stintd/stint/internal/application/port/output"
	"github.com/stintd/stint/internal/domain/model/cycle"
	"github.com/stintd/stint/internal/domain/repository"
)

// HistoryUseCaseImpl reads and aggregates cycle history
type HistoryUseCaseImpl struct {
	cycles  repository.CycleRepository
	archive output.ArchiveGateway
	clock   output.Clock
}

// NewHistoryUseCaseImpl creates a history use case
func NewHistoryUseCaseImpl(
	cycles repository.CycleRepository,
	archive output.ArchiveGateway,
	clock output.Clock,
) *HistoryUseCaseImpl {
	return &HistoryUseCaseImpl{
		cycles:  cycles,
		archive: archive,
		clock:   clock,
	}
}

// ListRecent returns up to limit cycles, newest first
func (u *HistoryUseCaseImpl) ListRecent(ctx context.Context, limit int) ([]dto.CycleDTO, error) {
	records, err := u.cycles.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}

	result := make([]dto.CycleDTO, 0, len(records))
	for _, rec := range records {
		result = append(result, toCycleDTO(rec))
	}
	return result, nil
}

// Stats aggregates the cycles of the past windowDays days
func (u *HistoryUseCaseImpl) Stats(ctx context.Context, windowDays int) (*dto.StatsDTO, error) {
	records, err := u.cycles.ListSince(ctx, u.windowStart(windowDays))
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}

	stats := &dto.StatsDTO{
		WindowDays:  windowDays,
		TotalCycles: len(records),
	}

	var focusWalls []float64
	for _, rec := range records {
		switch rec.Outcome() {
		case cycle.OutcomeCompleted:
			stats.CompletedCycles++
		case cycle.OutcomeCancelled:
			stats.CancelledCycles++
		}
		if wall := rec.FocusWallTime(); wall > 0 {
			seconds := wall.Seconds()
			focusWalls = append(focusWalls, seconds)
			stats.FocusSecondsTotal += int64(seconds)
		}
	}

	if stats.TotalCycles > 0 {
		stats.CompletionRate = float64(stats.CompletedCycles) / float64(stats.TotalCycles)
	}
	if len(focusWalls) > 0 {
		stats.FocusWallMeanSec = stat.Mean(focusWalls, nil)
	}
	if len(focusWalls) > 1 {
		stats.FocusWallStdDevSec = stat.StdDev(focusWalls, nil)
	}
	return stats, nil
}

// Export writes the cycles of the past windowDays days to the archive
// as NDJSON, one cycle per line, newest first. A windowDays of zero
// exports everything.
func (u *HistoryUseCaseImpl) Export(ctx context.Context, windowDays int) (*dto.ExportResult, error) {
	records, err := u.cycles.ListSince(ctx, u.windowStart(windowDays))
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}

	var content []byte
	for _, rec := range records {
		line, err := json.Marshal(toCycleDTO(rec))
		if err != nil {
			return nil, fmt.Errorf("marshal cycle %s: %w", rec.ID(), err)
		}
		content = append(content, line...)
		content = append(content, '\n')
	}

	name := fmt.Sprintf("cycles-%s.ndjson", u.clock.Now().UTC().Format("20060102-150405"))
	meta, err := u.archive.SaveArchive(ctx, output.SaveArchiveRequest{
		Name:        name,
		Content:     content,
		ContentType: "application/x-ndjson",
	})
	if err != nil {
		return nil, fmt.Errorf("save archive: %w", err)
	}

	return &dto.ExportResult{
		Name:      meta.Name,
		Location:  meta.Location,
		SizeBytes: meta.SizeBytes,
		Cycles:    len(records),
	}, nil
}

// windowStart converts a day window into the earliest admitted start time.
// Zero or negative windows admit everything.
func (u *HistoryUseCaseImpl) windowStart(windowDays int) time.Time {
	if windowDays <= 0 {
		return time.Time{}
	}
	return u.clock.Now().Add(-time.Duration(windowDays) * 24 * time.Hour)
}

// toCycleDTO maps a domain cycle to its presentable form
func toCycleDTO(rec *cycle.Cycle) dto.CycleDTO {
	d := dto.CycleDTO{
		ID:             rec.ID(),
		Label:          rec.Label(),
		FocusSeconds:   rec.FocusSeconds(),
		BreakSeconds:   rec.BreakSeconds(),
		StartedAt:      rec.StartedAt().UTC().Format(time.RFC3339),
		Outcome:        rec.Outcome().String(),
		CancelledPhase: rec.CancelledPhase(),
	}
	if !rec.FocusDoneAt().IsZero() {
		d.FocusDoneAt = rec.FocusDoneAt().UTC().Format(time.RFC3339)
	}
	if !rec.EndedAt().IsZero() {
		d.EndedAt = rec.EndedAt().UTC().Format(time.RFC3339)
	}
	return d
}
