package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stintd/stint/internal/application/dto"
	"github.com/stintd/stint/internal/application/port/output"
	"github.com/stintd/stint/internal/domain/model/cycle"
	domaintimer "github.com/stintd/stint/internal/domain/model/timer"
	"github.com/stintd/stint/internal/domain/repository"
)

// Wake-up IDs registered with the scheduler
const (
	WakePhaseEnd  = "phase-end"
	WakeHeartbeat = "heartbeat"
)

// PhaseController is the single authority over timer state.
//
// Operations are serialized by an internal mutex. Each one loads the stored
// state, settles any overdue completion against the clock, applies the
// requested transition, persists it, and only then emits notifications,
// events and wake-ups. Because completion is decided by the persisted end
// timestamp rather than a live timer, a controller reconstructed after any
// amount of process downtime reaches the same state the moment anything
// touches it.
type PhaseController struct {
	mu     sync.Mutex
	states repository.StateRepository
	cycles repository.CycleRepository

	clock     output.Clock
	scheduler output.WakeScheduler
	notifier  output.Notifier
	bus       output.EventBus
	log       output.Logger
}

// NewPhaseController creates a PhaseController with its collaborators
func NewPhaseController(
	states repository.StateRepository,
	cycles repository.CycleRepository,
	clock output.Clock,
	scheduler output.WakeScheduler,
	notifier output.Notifier,
	bus output.EventBus,
	log output.Logger,
) *PhaseController {
	return &PhaseController{
		states:    states,
		cycles:    cycles,
		clock:     clock,
		scheduler: scheduler,
		notifier:  notifier,
		bus:       bus,
		log:       log,
	}
}

// Start begins a focus interval from idle
func (c *PhaseController) Start(ctx context.Context, req dto.StartTimerRequest) (*dto.OperationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, cfg, err := c.loadAndSettle(ctx)
	if err != nil {
		return nil, err
	}

	label, err := domaintimer.NormalizeLabel(req.Label)
	if err != nil {
		return c.reject(dto.RejectionValidation, err.Error(), state, cfg), nil
	}
	newCfg, err := domaintimer.NewConfig(req.FocusSeconds, req.BreakSeconds)
	if err != nil {
		return c.reject(dto.RejectionValidation, err.Error(), state, cfg), nil
	}
	if state.Phase() != domaintimer.PhaseIdle {
		return c.reject(dto.RejectionTransition, "a cycle is already in progress", state, cfg), nil
	}

	now := c.clock.Now()
	cycleID := cycle.GenerateID(now)
	next, err := state.StartFocus(newCfg, label, cycleID, now)
	if err != nil {
		return c.reject(dto.RejectionTransition, err.Error(), state, cfg), nil
	}

	// A cycle runs with the config it started with; replacement happens
	// only from idle.
	if err := c.states.SaveConfig(ctx, newCfg); err != nil {
		return nil, fmt.Errorf("save config: %w", err)
	}
	if err := c.states.SaveState(ctx, next); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	c.openCycle(ctx, cycleID, label, newCfg, now)
	c.scheduleEnd(next)
	c.publish(output.EventStarted, next, now)

	return c.ok(next, newCfg), nil
}

// Acknowledge confirms a completed focus interval and begins the break.
// Outside WaitingConfirm it changes nothing and still reports success.
func (c *PhaseController) Acknowledge(ctx context.Context) (*dto.OperationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, cfg, err := c.loadAndSettle(ctx)
	if err != nil {
		return nil, err
	}

	if state.Phase() != domaintimer.PhaseWaitingConfirm {
		return c.ok(state, cfg), nil
	}

	now := c.clock.Now()
	next, derr := state.AcknowledgeBreak(cfg, now)
	if derr != nil {
		return c.reject(dto.RejectionTransition, derr.Error(), state, cfg), nil
	}
	if err := c.states.SaveState(ctx, next); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	c.scheduleEnd(next)
	c.publish(output.EventAcknowledged, next, now)

	return c.ok(next, cfg), nil
}

// Pause freezes the running interval
func (c *PhaseController) Pause(ctx context.Context) (*dto.OperationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, cfg, err := c.loadAndSettle(ctx)
	if err != nil {
		return nil, err
	}

	if !state.Phase().IsRunning() {
		return c.reject(dto.RejectionTransition, "nothing to pause", state, cfg), nil
	}

	now := c.clock.Now()
	next, derr := state.Pause(now)
	if derr != nil {
		return c.reject(dto.RejectionTransition, derr.Error(), state, cfg), nil
	}
	if err := c.states.SaveState(ctx, next); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	c.scheduler.Cancel(WakePhaseEnd)
	c.publish(output.EventPaused, next, now)

	return c.ok(next, cfg), nil
}

// Resume restarts a paused interval against a fresh end timestamp
func (c *PhaseController) Resume(ctx context.Context) (*dto.OperationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, cfg, err := c.loadAndSettle(ctx)
	if err != nil {
		return nil, err
	}

	if !state.Phase().IsPaused() {
		return c.reject(dto.RejectionTransition, "nothing to resume", state, cfg), nil
	}

	now := c.clock.Now()
	next, derr := state.Resume(now)
	if derr != nil {
		return c.reject(dto.RejectionTransition, derr.Error(), state, cfg), nil
	}
	if err := c.states.SaveState(ctx, next); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	c.scheduleEnd(next)
	c.publish(output.EventResumed, next, now)

	return c.ok(next, cfg), nil
}

// Cancel aborts the current cycle and returns the timer to idle.
// Cancelling an idle timer is a no-op.
func (c *PhaseController) Cancel(ctx context.Context) (*dto.OperationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, cfg, err := c.loadAndSettle(ctx)
	if err != nil {
		return nil, err
	}

	if state.Phase() == domaintimer.PhaseIdle {
		return c.ok(state, cfg), nil
	}

	now := c.clock.Now()
	next := state.Cancel()
	if err := c.states.SaveState(ctx, next); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	c.scheduler.Cancel(WakePhaseEnd)
	c.closeCycle(ctx, state.CycleID(), cycle.OutcomeCancelled, state.Phase().String(), now)
	c.publish(output.EventCancelled, next, now)

	return c.ok(next, cfg), nil
}

// Poll settles any overdue completion and reports the current status
func (c *PhaseController) Poll(ctx context.Context) (*dto.OperationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, cfg, err := c.loadAndSettle(ctx)
	if err != nil {
		return nil, err
	}
	return c.ok(state, cfg), nil
}

// HandleWake processes a scheduler wake-up.
// A stale wake-up, one that fires after its cycle was cancelled or replaced,
// is harmless: settlement re-checks the stored state before acting. The
// phase-end wake-up is re-armed afterwards, so a daemon that starts while a
// phase is already running picks it up. Heartbeat wake-ups also push a tick
// event so observers refresh their remaining-time displays.
func (c *PhaseController) HandleWake(id string) {
	ctx := context.Background()

	c.mu.Lock()
	defer c.mu.Unlock()

	state, _, err := c.loadAndSettle(ctx)
	if err != nil {
		c.log.Warn("wake-up %s: %v", id, err)
		return
	}

	c.scheduleEnd(state)
	if id == WakeHeartbeat {
		c.publish(output.EventTick, state, c.clock.Now())
	}
}

// loadAndSettle loads the stored records and applies any overdue completion
// before the requested operation is evaluated. Paused phases never settle.
// The caller holds the mutex.
func (c *PhaseController) loadAndSettle(ctx context.Context) (domaintimer.TimerState, domaintimer.Config, error) {
	state, err := c.states.LoadState(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return domaintimer.TimerState{}, domaintimer.Config{}, fmt.Errorf("load state: %w", err)
		}
		state = domaintimer.NewIdleState()
	}

	cfg, err := c.states.LoadConfig(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return domaintimer.TimerState{}, domaintimer.Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg = domaintimer.DefaultConfig()
	}

	now := c.clock.Now()
	if !state.IsDue(now) {
		return state, cfg, nil
	}

	completed := state.Phase()
	next, err := state.Complete()
	if err != nil {
		return domaintimer.TimerState{}, domaintimer.Config{}, fmt.Errorf("complete phase: %w", err)
	}
	if err := c.states.SaveState(ctx, next); err != nil {
		return domaintimer.TimerState{}, domaintimer.Config{}, fmt.Errorf("save state: %w", err)
	}

	c.scheduler.Cancel(WakePhaseEnd)

	switch completed {
	case domaintimer.PhaseRunningFocus:
		c.markFocusDone(ctx, state.CycleID(), now)
		c.notify(ctx, output.Notification{
			Title: "Focus complete",
			Body:  notificationBody(state.Label(), "Confirm to start the break."),
		})
		c.publish(output.EventFocusCompleted, next, now)
	case domaintimer.PhaseRunningBreak:
		c.closeCycle(ctx, state.CycleID(), cycle.OutcomeCompleted, "", now)
		c.notify(ctx, output.Notification{
			Title: "Break complete",
			Body:  notificationBody(state.Label(), "Cycle finished."),
		})
		c.publish(output.EventBreakCompleted, next, now)
	}

	return next, cfg, nil
}

// scheduleEnd registers the phase-end wake-up for a running state
func (c *PhaseController) scheduleEnd(state domaintimer.TimerState) {
	endAt, ok := state.EndAt()
	if !ok {
		return
	}
	if err := c.scheduler.ScheduleAt(WakePhaseEnd, endAt); err != nil {
		c.log.Warn("schedule phase-end wake-up: %v", err)
	}
}

// notify delivers a notification; failures are logged, never propagated
func (c *PhaseController) notify(ctx context.Context, n output.Notification) {
	if err := c.notifier.Notify(ctx, n); err != nil {
		c.log.Warn("notify %q: %v", n.Title, err)
	}
}

// publish pushes a change event to observers
func (c *PhaseController) publish(evType output.EventType, state domaintimer.TimerState, now time.Time) {
	ev := output.TimerEvent{
		Type:             evType,
		Phase:            state.Phase().String(),
		Label:            state.Label(),
		RemainingSeconds: remainingSeconds(state, now),
		At:               now,
	}
	if endAt, ok := state.EndAt(); ok {
		ev.EndAt = endAt
	}
	c.bus.Publish(ev)
}

// openCycle appends a history record for a starting cycle.
// History is advisory: failures are logged and never fail the operation.
func (c *PhaseController) openCycle(ctx context.Context, id, label string, cfg domaintimer.Config, now time.Time) {
	rec, err := cycle.NewCycle(id, label, cfg.FocusSeconds(), cfg.BreakSeconds(), now)
	if err != nil {
		c.log.Warn("open cycle record: %v", err)
		return
	}
	if err := c.cycles.Save(ctx, rec); err != nil {
		c.log.Warn("save cycle record: %v", err)
	}
}

// markFocusDone stamps the focus completion time on the open cycle record
func (c *PhaseController) markFocusDone(ctx context.Context, id string, at time.Time) {
	if id == "" {
		return
	}
	rec, err := c.cycles.Find(ctx, id)
	if err != nil {
		c.log.Warn("find cycle record %s: %v", id, err)
		return
	}
	if err := rec.MarkFocusDone(at); err != nil {
		c.log.Warn("mark cycle %s: %v", id, err)
		return
	}
	if err := c.cycles.Save(ctx, rec); err != nil {
		c.log.Warn("save cycle record %s: %v", id, err)
	}
}

// closeCycle finishes the open cycle record with a terminal outcome
func (c *PhaseController) closeCycle(ctx context.Context, id string, outcome cycle.Outcome, cancelledPhase string, at time.Time) {
	if id == "" {
		return
	}
	rec, err := c.cycles.Find(ctx, id)
	if err != nil {
		c.log.Warn("find cycle record %s: %v", id, err)
		return
	}
	if err := rec.Close(outcome, cancelledPhase, at); err != nil {
		c.log.Warn("close cycle %s: %v", id, err)
		return
	}
	if err := c.cycles.Save(ctx, rec); err != nil {
		c.log.Warn("save cycle record %s: %v", id, err)
	}
}

// ok builds a success result with the current status projection
func (c *PhaseController) ok(state domaintimer.TimerState, cfg domaintimer.Config) *dto.OperationResult {
	return &dto.OperationResult{
		Ok:     true,
		Status: ProjectStatus(state, cfg, c.clock.Now()),
	}
}

// reject builds a refusal result; stored state is untouched
func (c *PhaseController) reject(kind dto.RejectionKind, reason string, state domaintimer.TimerState, cfg domaintimer.Config) *dto.OperationResult {
	return &dto.OperationResult{
		Ok:        false,
		Rejection: kind,
		Reason:    reason,
		Status:    ProjectStatus(state, cfg, c.clock.Now()),
	}
}

// notificationBody prefixes the session label when one is set
func notificationBody(label, body string) string {
	if label == "" {
		return body
	}
	return fmt.Sprintf("%s: %s", label, body)
}
