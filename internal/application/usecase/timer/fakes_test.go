package timer_test

import (
	"context"
	"sync"
	"time"

	"github.com/stintd/stint/internal/application/port/output"
	"github.com/stintd/stint/internal/domain/model/cycle"
	domaintimer "github.com/stintd/stint/internal/domain/model/timer"
	"github.com/stintd/stint/internal/domain/repository"
)

// FakeClock is a hand-settable clock for driving phase completion
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a clock frozen at start
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockStateRepository is an in-memory StateRepository for testing
type MockStateRepository struct {
	mu       sync.Mutex
	state    domaintimer.TimerState
	hasState bool
	config   domaintimer.Config
	hasCfg   bool

	SaveStateErr   error
	SaveConfigErr  error
	saveStateCalls int
}

// NewMockStateRepository creates an empty mock state repository
func NewMockStateRepository() *MockStateRepository {
	return &MockStateRepository{}
}

// LoadState retrieves the stored timer state
func (m *MockStateRepository) LoadState(ctx context.Context) (domaintimer.TimerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasState {
		return domaintimer.TimerState{}, repository.ErrNotFound
	}
	return m.state, nil
}

// SaveState persists the timer state
func (m *MockStateRepository) SaveState(ctx context.Context, state domaintimer.TimerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveStateErr != nil {
		return m.SaveStateErr
	}
	m.state = state
	m.hasState = true
	m.saveStateCalls++
	return nil
}

// LoadConfig retrieves the stored interval config
func (m *MockStateRepository) LoadConfig(ctx context.Context) (domaintimer.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasCfg {
		return domaintimer.Config{}, repository.ErrNotFound
	}
	return m.config, nil
}

// SaveConfig persists the interval config
func (m *MockStateRepository) SaveConfig(ctx context.Context, cfg domaintimer.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveConfigErr != nil {
		return m.SaveConfigErr
	}
	m.config = cfg
	m.hasCfg = true
	return nil
}

// SeedState stores a state directly, bypassing the controller
func (m *MockStateRepository) SeedState(state domaintimer.TimerState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.hasState = true
}

// SeedConfig stores a config directly, bypassing the controller
func (m *MockStateRepository) SeedConfig(cfg domaintimer.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
	m.hasCfg = true
}

// State returns the stored state
func (m *MockStateRepository) State() domaintimer.TimerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Config returns the stored config
func (m *MockStateRepository) Config() domaintimer.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// SaveStateCalls returns how many times SaveState succeeded
func (m *MockStateRepository) SaveStateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveStateCalls
}

// MockCycleRepository is an in-memory CycleRepository for testing
type MockCycleRepository struct {
	mu     sync.Mutex
	cycles map[string]*cycle.Cycle
	order  []string
}

// NewMockCycleRepository creates an empty mock cycle repository
func NewMockCycleRepository() *MockCycleRepository {
	return &MockCycleRepository{cycles: make(map[string]*cycle.Cycle)}
}

// Save inserts or updates a cycle record
func (m *MockCycleRepository) Save(ctx context.Context, c *cycle.Cycle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.cycles[c.ID()]; !exists {
		m.order = append(m.order, c.ID())
	}
	m.cycles[c.ID()] = c
	return nil
}

// Find retrieves a cycle by ID
func (m *MockCycleRepository) Find(ctx context.Context, id string) (*cycle.Cycle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, exists := m.cycles[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

// ListRecent returns up to limit cycles, newest first
func (m *MockCycleRepository) ListRecent(ctx context.Context, limit int) ([]*cycle.Cycle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*cycle.Cycle
	for i := len(m.order) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.cycles[m.order[i]])
	}
	return result, nil
}

// ListSince returns cycles started at or after since, newest first
func (m *MockCycleRepository) ListSince(ctx context.Context, since time.Time) ([]*cycle.Cycle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*cycle.Cycle
	for i := len(m.order) - 1; i >= 0; i-- {
		c := m.cycles[m.order[i]]
		if !c.StartedAt().Before(since) {
			result = append(result, c)
		}
	}
	return result, nil
}

// MockScheduler records wake-up registrations without firing them
type MockScheduler struct {
	mu        sync.Mutex
	oneShots  map[string]time.Time
	intervals map[string]time.Duration
	cancelled []string
}

// NewMockScheduler creates an empty mock scheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{
		oneShots:  make(map[string]time.Time),
		intervals: make(map[string]time.Duration),
	}
}

// ScheduleAt records a one-shot wake-up
func (m *MockScheduler) ScheduleAt(id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.oneShots[id] = at
	return nil
}

// ScheduleEvery records a repeating wake-up
func (m *MockScheduler) ScheduleEvery(id string, interval time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intervals[id] = interval
	return nil
}

// Cancel records a cancellation and drops the schedule
func (m *MockScheduler) Cancel(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.oneShots, id)
	delete(m.intervals, id)
	m.cancelled = append(m.cancelled, id)
}

// OneShotAt returns the recorded one-shot time for an ID
func (m *MockScheduler) OneShotAt(id string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.oneShots[id]
	return at, ok
}

// CancelCount returns how many times an ID was cancelled
func (m *MockScheduler) CancelCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, cancelled := range m.cancelled {
		if cancelled == id {
			count++
		}
	}
	return count
}

// MockNotifier records delivered notifications
type MockNotifier struct {
	mu            sync.Mutex
	notifications []output.Notification

	Err error
}

// NewMockNotifier creates an empty mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify records a notification
func (m *MockNotifier) Notify(ctx context.Context, n output.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.notifications = append(m.notifications, n)
	return nil
}

// Notifications returns all recorded notifications
func (m *MockNotifier) Notifications() []output.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]output.Notification(nil), m.notifications...)
}

// MockEventBus records published events
type MockEventBus struct {
	mu     sync.Mutex
	events []output.TimerEvent
}

// NewMockEventBus creates an empty mock event bus
func NewMockEventBus() *MockEventBus {
	return &MockEventBus{}
}

// Publish records an event
func (m *MockEventBus) Publish(ev output.TimerEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// Subscribe is unused by these tests
func (m *MockEventBus) Subscribe(buffer int) (<-chan output.TimerEvent, string) {
	ch := make(chan output.TimerEvent)
	close(ch)
	return ch, ""
}

// Unsubscribe is unused by these tests
func (m *MockEventBus) Unsubscribe(token string) {}

// Events returns all recorded events
func (m *MockEventBus) Events() []output.TimerEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]output.TimerEvent(nil), m.events...)
}

// EventTypes returns the recorded event types in order
func (m *MockEventBus) EventTypes() []output.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]output.EventType, 0, len(m.events))
	for _, ev := range m.events {
		types = append(types, ev.Type)
	}
	return types
}
