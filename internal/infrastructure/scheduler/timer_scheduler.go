package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stintd/stint/internal/application/port/output"
)

// ErrClosed is returned when registering on a closed scheduler
var ErrClosed = errors.New("scheduler is closed")

// registration tracks one live wake-up goroutine
type registration struct {
	cancel context.CancelFunc
}

// TimerScheduler implements output.WakeScheduler with one goroutine per
// registered ID. It is an in-process scheduler: wake-ups only fire while
// the owning process runs, missed ones are recovered by settlement on the
// next operation.
type TimerScheduler struct {
	wake output.WakeFunc

	mu      sync.Mutex
	entries map[string]*registration
	closed  bool
	wg      sync.WaitGroup
}

// NewTimerScheduler creates a scheduler delivering wake-ups to wake.
// The callback runs on scheduler goroutines and may re-register IDs.
func NewTimerScheduler(wake output.WakeFunc) *TimerScheduler {
	return &TimerScheduler{
		wake:    wake,
		entries: make(map[string]*registration),
	}
}

// ScheduleAt registers a one-shot wake-up, replacing any schedule under
// the same ID. Deadlines in the past fire immediately.
func (s *TimerScheduler) ScheduleAt(id string, at time.Time) error {
	return s.register(id, func(ctx context.Context, reg *registration) {
		t := time.NewTimer(time.Until(at))
		defer t.Stop()

		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.forget(id, reg)
			s.wake(id)
		}
	})
}

// ScheduleEvery registers a repeating wake-up, replacing any schedule
// under the same ID. It fires until cancelled or the scheduler closes.
func (s *TimerScheduler) ScheduleEvery(id string, interval time.Duration) error {
	return s.register(id, func(ctx context.Context, reg *registration) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.wake(id)
			}
		}
	})
}

// Cancel stops the schedule under the given ID, if any
func (s *TimerScheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg, exists := s.entries[id]; exists {
		reg.cancel()
		delete(s.entries, id)
	}
}

// Close cancels every schedule and waits for the goroutines to finish
func (s *TimerScheduler) Close() {
	s.mu.Lock()
	s.closed = true
	for id, reg := range s.entries {
		reg.cancel()
		delete(s.entries, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// register replaces the entry under id and spawns its goroutine
func (s *TimerScheduler) register(id string, run func(ctx context.Context, reg *registration)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if prev, exists := s.entries[id]; exists {
		prev.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	reg := &registration{cancel: cancel}
	s.entries[id] = reg

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		run(ctx, reg)
	}()
	return nil
}

// forget drops a fired one-shot entry unless it was already replaced
func (s *TimerScheduler) forget(id string, reg *registration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[id] == reg {
		delete(s.entries, id)
	}
}
