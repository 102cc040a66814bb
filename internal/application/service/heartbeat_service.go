package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stintd/stint/internal/application/port/output"
	"github.com/stintd/stint/internal/application/usecase/timer"
)

// MaxHeartbeatInterval bounds how stale completion detection may get
// while a daemon is running
const MaxHeartbeatInterval = time.Minute

// HeartbeatService keeps a periodic wake-up registered while a daemon runs.
// Every beat settles overdue phases and refreshes observer snapshots, so a
// phase-end wake-up lost to host suspension costs at most one interval of
// extra latency.
type HeartbeatService interface {
	Start(ctx context.Context) error
	Stop() error
}

// HeartbeatServiceConfig holds configuration for the heartbeat service
type HeartbeatServiceConfig struct {
	Interval time.Duration // time between beats
}

// DefaultHeartbeatServiceConfig returns default configuration
func DefaultHeartbeatServiceConfig() HeartbeatServiceConfig {
	return HeartbeatServiceConfig{
		Interval: 30 * time.Second,
	}
}

// HeartbeatServiceImpl implements HeartbeatService
type HeartbeatServiceImpl struct {
	scheduler output.WakeScheduler
	config    HeartbeatServiceConfig
	log       output.Logger
	stopOnce  sync.Once
}

// NewHeartbeatService creates a new heartbeat service
func NewHeartbeatService(
	scheduler output.WakeScheduler,
	config HeartbeatServiceConfig,
	log output.Logger,
) HeartbeatService {
	return &HeartbeatServiceImpl{
		scheduler: scheduler,
		config:    config,
		log:       log,
	}
}

// Start registers the periodic heartbeat wake-up.
// Intervals above MaxHeartbeatInterval are capped, zero or negative
// intervals fall back to the default.
func (s *HeartbeatServiceImpl) Start(ctx context.Context) error {
	interval := s.config.Interval
	if interval <= 0 {
		interval = DefaultHeartbeatServiceConfig().Interval
	}
	if interval > MaxHeartbeatInterval {
		s.log.Warn("heartbeat interval %s capped at %s", interval, MaxHeartbeatInterval)
		interval = MaxHeartbeatInterval
	}

	if err := s.scheduler.ScheduleEvery(timer.WakeHeartbeat, interval); err != nil {
		return fmt.Errorf("schedule heartbeat: %w", err)
	}
	return nil
}

// Stop cancels the heartbeat wake-up
func (s *HeartbeatServiceImpl) Stop() error {
	s.stopOnce.Do(func() {
		s.scheduler.Cancel(timer.WakeHeartbeat)
	})
	return nil
}
