package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"

	"github.com/stintd/stint/internal/domain/model/cycle"
	"github.com/stintd/stint/internal/domain/repository"
)

const cyclesFile = "cycles.ndjson"

// cycleRecord is one NDJSON line in the cycle history file
type cycleRecord struct {
	ID             string     `json:"id"`
	Label          string     `json:"label,omitempty"`
	FocusSeconds   int64      `json:"focus_seconds"`
	BreakSeconds   int64      `json:"break_seconds"`
	StartedAt      time.Time  `json:"started_at"`
	FocusDoneAt    *time.Time `json:"focus_done_at,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	Outcome        string     `json:"outcome"`
	CancelledPhase string     `json:"cancelled_phase,omitempty"`
}

// CycleRepositoryImpl implements repository.CycleRepository as an
// append-only NDJSON journal. Every Save appends a full snapshot line;
// on read the last line per cycle ID wins, so updates never rewrite
// the file.
type CycleRepositoryImpl struct {
	fs  afero.Fs
	dir string
}

// NewCycleRepository creates a file-based cycle repository rooted at dir
func NewCycleRepository(fs afero.Fs, dir string) repository.CycleRepository {
	return &CycleRepositoryImpl{fs: fs, dir: dir}
}

// Save appends a snapshot of the cycle to the journal
func (r *CycleRepositoryImpl) Save(ctx context.Context, c *cycle.Cycle) error {
	rec := cycleRecord{
		ID:             c.ID(),
		Label:          c.Label(),
		FocusSeconds:   c.FocusSeconds(),
		BreakSeconds:   c.BreakSeconds(),
		StartedAt:      c.StartedAt().UTC(),
		Outcome:        c.Outcome().String(),
		CancelledPhase: c.CancelledPhase(),
	}
	if t := c.FocusDoneAt(); !t.IsZero() {
		utc := t.UTC()
		rec.FocusDoneAt = &utc
	}
	if t := c.EndedAt(); !t.IsZero() {
		utc := t.UTC()
		rec.EndedAt = &utc
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode cycle failed: %w", err)
	}
	if err := r.appendLine(append(line, '\n')); err != nil {
		return fmt.Errorf("append cycle failed: %w", err)
	}
	return nil
}

// Find retrieves a cycle by ID
func (r *CycleRepositoryImpl) Find(ctx context.Context, id string) (*cycle.Cycle, error) {
	cycles, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	for _, c := range cycles {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ListRecent returns up to limit cycles, newest first.
// A non-positive limit returns none.
func (r *CycleRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*cycle.Cycle, error) {
	if limit <= 0 {
		return nil, nil
	}
	cycles, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	if limit < len(cycles) {
		cycles = cycles[:limit]
	}
	return cycles, nil
}

// ListSince returns cycles started at or after the given time, newest first
func (r *CycleRepositoryImpl) ListSince(ctx context.Context, since time.Time) ([]*cycle.Cycle, error) {
	cycles, err := r.loadAll()
	if err != nil {
		return nil, err
	}
	var result []*cycle.Cycle
	for _, c := range cycles {
		if !c.StartedAt().Before(since) {
			result = append(result, c)
		}
	}
	return result, nil
}

// appendLine adds one line to the journal file
func (r *CycleRepositoryImpl) appendLine(line []byte) error {
	if err := r.fs.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create directory failed: %w", err)
	}

	f, err := r.fs.OpenFile(filepath.Join(r.dir, cyclesFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal failed: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("write journal failed: %w", err)
	}
	return nil
}

// loadAll folds the journal into its current records, newest first
func (r *CycleRepositoryImpl) loadAll() ([]*cycle.Cycle, error) {
	f, err := r.fs.Open(filepath.Join(r.dir, cyclesFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal failed: %w", err)
	}
	defer f.Close()

	latest := make(map[string]*cycle.Cycle)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec cycleRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("decode journal line %d failed: %w", lineNum, err)
		}
		latest[rec.ID] = toCycle(rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal failed: %w", err)
	}

	cycles := make([]*cycle.Cycle, 0, len(latest))
	for _, c := range latest {
		cycles = append(cycles, c)
	}
	sort.Slice(cycles, func(i, j int) bool {
		if !cycles[i].StartedAt().Equal(cycles[j].StartedAt()) {
			return cycles[i].StartedAt().After(cycles[j].StartedAt())
		}
		return cycles[i].ID() > cycles[j].ID()
	})
	return cycles, nil
}

// toCycle reconstructs a domain cycle from a journal record
func toCycle(rec cycleRecord) *cycle.Cycle {
	var focusDone, ended time.Time
	if rec.FocusDoneAt != nil {
		focusDone = *rec.FocusDoneAt
	}
	if rec.EndedAt != nil {
		ended = *rec.EndedAt
	}
	return cycle.ReconstructCycle(rec.ID, rec.Label, rec.FocusSeconds, rec.BreakSeconds,
		rec.StartedAt, focusDone, ended, cycle.Outcome(rec.Outcome), rec.CancelledPhase)
}
