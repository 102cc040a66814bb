package sqlite

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stintd/stint/internal/domain/model/cycle"
	"github.com/stintd/stint/internal/domain/repository"
)

var cycleBase = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestCycleRepository_SaveAndFindRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	startedAt := cycleBase.Add(123456789 * time.Nanosecond)
	rec, err := cycle.NewCycle("01A", "writing", 1500, 300, startedAt)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rec))

	found, err := repo.Find(ctx, "01A")
	require.NoError(t, err)
	assert.Equal(t, "01A", found.ID())
	assert.Equal(t, "writing", found.Label())
	assert.Equal(t, int64(1500), found.FocusSeconds())
	assert.Equal(t, int64(300), found.BreakSeconds())
	assert.True(t, found.StartedAt().Equal(startedAt))
	assert.True(t, found.FocusDoneAt().IsZero())
	assert.True(t, found.EndedAt().IsZero())
	assert.Equal(t, cycle.OutcomeOpen, found.Outcome())
}

func TestCycleRepository_FindMissingReturnsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCycleRepository(db)

	_, err := repo.Find(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCycleRepository_SaveUpdatesLifecycleTimestamps(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	rec, err := cycle.NewCycle("01A", "", 1500, 300, cycleBase)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rec))

	focusDone := cycleBase.Add(25 * time.Minute)
	require.NoError(t, rec.MarkFocusDone(focusDone))
	require.NoError(t, repo.Save(ctx, rec))

	ended := focusDone.Add(5 * time.Minute)
	require.NoError(t, rec.Close(cycle.OutcomeCompleted, "", ended))
	require.NoError(t, repo.Save(ctx, rec))

	found, err := repo.Find(ctx, "01A")
	require.NoError(t, err)
	assert.Equal(t, cycle.OutcomeCompleted, found.Outcome())
	assert.True(t, found.FocusDoneAt().Equal(focusDone))
	assert.True(t, found.EndedAt().Equal(ended))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM cycles").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestCycleRepository_ListRecentOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	for i, id := range []string{"01A", "01B", "01C"} {
		rec, err := cycle.NewCycle(id, "", 1500, 300, cycleBase.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rec))
	}

	got, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "01C", got[0].ID())
	assert.Equal(t, "01B", got[1].ID())
}

func TestCycleRepository_ListRecentNonPositiveLimitReturnsNone(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	rec, err := cycle.NewCycle("01A", "", 1500, 300, cycleBase)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rec))

	for _, limit := range []int{0, -1} {
		got, err := repo.ListRecent(ctx, limit)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestCycleRepository_ListRecentOrdersWithinTheSameSecond(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	// Sub-second starts must still sort chronologically, which only works
	// because stored timestamps have fixed-width fractions
	offsets := []time.Duration{500 * time.Millisecond, 0, 250 * time.Millisecond}
	ids := []string{"01C", "01A", "01B"}
	for i, id := range ids {
		rec, err := cycle.NewCycle(id, "", 1500, 300, cycleBase.Add(offsets[i]))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rec))
	}

	got, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "01C", got[0].ID())
	assert.Equal(t, "01B", got[1].ID())
	assert.Equal(t, "01A", got[2].ID())
}

func TestCycleRepository_ListSinceIsInclusive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	times := map[string]time.Time{
		"old":      cycleBase.Add(-time.Hour),
		"boundary": cycleBase,
		"new":      cycleBase.Add(time.Hour),
	}
	for id, startedAt := range times {
		rec, err := cycle.NewCycle(id, "", 1500, 300, startedAt)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rec))
	}

	got, err := repo.ListSince(ctx, cycleBase)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID())
	assert.Equal(t, "boundary", got[1].ID())
}

func TestCycleRepository_ListSinceZeroTimeReturnsEverything(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCycleRepository(db)
	ctx := context.Background()

	rec, err := cycle.NewCycle("01A", "", 1500, 300, cycleBase)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.ListSince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
