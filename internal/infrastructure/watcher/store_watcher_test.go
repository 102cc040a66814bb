package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_CancelDropsThePendingCall(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() { called.Store(true) })
	d.Cancel()
	time.Sleep(120 * time.Millisecond)

	assert.False(t, called.Load())
}

func TestDebouncer_NonPositiveDurationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultDebounce, NewDebouncer(0).Duration())
	assert.Equal(t, DefaultDebounce, NewDebouncer(-time.Second).Duration())
}

func writeStateFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func waitForChange(t *testing.T, w *StoreWatcher) {
	t.Helper()
	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for store change")
	}
}

func TestStoreWatcher_DetectsAtomicRenameWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	writeStateFile(t, statePath, `{"phase":"IDLE"}`)

	w, err := NewStoreWatcher(statePath,
		WithDebounce(30*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// Mimic the store's temp-then-rename save.
	tmpPath := filepath.Join(dir, ".tmp-state")
	writeStateFile(t, tmpPath, `{"phase":"RUNNING_FOCUS","end_at":"2026-01-01T00:25:00Z"}`)
	require.NoError(t, os.Rename(tmpPath, statePath))

	waitForChange(t, w)
}

func TestStoreWatcher_PollingModeDetectsWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	writeStateFile(t, statePath, `{"phase":"IDLE"}`)

	var changes atomic.Int32
	w, err := NewStoreWatcher(statePath,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounce(30*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.True(t, w.Polling())

	writeStateFile(t, statePath, `{"phase":"RUNNING_FOCUS","end_at":"2026-01-01T00:25:00Z"}`)

	waitForChange(t, w)
	assert.GreaterOrEqual(t, changes.Load(), int32(1))
}

func TestStoreWatcher_EnvVarForcesPolling(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Setenv("STINT_FORCE_POLL", "1")

	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	writeStateFile(t, statePath, `{}`)

	w, err := NewStoreWatcher(statePath)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.True(t, w.Polling())
}

func TestStoreWatcher_StartTwiceIsRejected(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	writeStateFile(t, statePath, `{}`)

	w, err := NewStoreWatcher(statePath, WithForcePoll(true))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.ErrorIs(t, w.Start(context.Background()), ErrAlreadyStarted)
}

func TestStoreWatcher_ReportsStoreRemoval(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	writeStateFile(t, statePath, `{}`)

	errCh := make(chan error, 1)
	w, err := NewStoreWatcher(statePath,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithOnError(func(err error) {
			select {
			case errCh <- err:
			default:
			}
		}),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.Remove(statePath))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrStoreRemoved)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for removal report")
	}
}
