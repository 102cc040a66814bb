package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stintd/stint/internal/application/port/input"
	"github.com/stintd/stint/internal/application/port/output"
	"github.com/stintd/stint/internal/application/service"
	historyusecase "github.com/stintd/stint/internal/application/usecase/history"
	timerusecase "github.com/stintd/stint/internal/application/usecase/timer"
	domaintimer "github.com/stintd/stint/internal/domain/model/timer"
	"github.com/stintd/stint/internal/domain/repository"
	"github.com/stintd/stint/internal/infrastructure/archive"
	"github.com/stintd/stint/internal/infrastructure/clock"
	appconfig "github.com/stintd/stint/internal/infrastructure/config"
	"github.com/stintd/stint/internal/infrastructure/eventbus"
	"github.com/stintd/stint/internal/infrastructure/notify"
	filerepo "github.com/stintd/stint/internal/infrastructure/persistence/file"
	sqliterepo "github.com/stintd/stint/internal/infrastructure/persistence/sqlite"
	"github.com/stintd/stint/internal/infrastructure/scheduler"
)

// ArchiveTargetMock selects the in-memory archive gateway. It is accepted by
// the container only, settings.yaml allows "local" and "s3".
const ArchiveTargetMock = "mock"

// Container is the DI container that holds all dependencies.
// This implements manual dependency injection for Clean Architecture.
type Container struct {
	// Infrastructure Layer - Store
	db *sql.DB
	fs afero.Fs

	stateRepo repository.StateRepository
	cycleRepo repository.CycleRepository

	// Infrastructure Layer - Adapters
	clk            output.Clock
	sched          *scheduler.TimerScheduler
	bus            *eventbus.ChannelBus
	notifier       output.Notifier
	archiveGateway output.ArchiveGateway

	// Application Layer
	controller     *timerusecase.PhaseController
	timerUseCase   input.TimerUseCase
	historyUseCase input.HistoryUseCase
	heartbeat      service.HeartbeatService

	settings *appconfig.Settings
	log      output.Logger
	config   Config
}

// Config holds configuration for the container
type Config struct {
	// Settings are the resolved host settings. When nil the container
	// resolves STINT_HOME and loads them itself, writing the defaults file
	// on first run.
	Settings *appconfig.Settings

	// Fs is the filesystem for the file backend, settings and local
	// archives (default: the OS filesystem). The SQLite backend always
	// uses the OS filesystem.
	Fs afero.Fs

	Logger output.Logger // default: discard
	Clock  output.Clock  // default: system clock

	// ArchiveTarget overrides the settings archive target. "mock" keeps
	// exports in memory.
	ArchiveTarget string
}

// NewContainer creates and initializes the DI container
func NewContainer(config Config) (*Container, error) {
	c := &Container{config: config}

	c.fs = config.Fs
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	c.log = config.Logger
	if c.log == nil {
		c.log = output.NopLogger{}
	}

	if err := c.initializeSettings(); err != nil {
		return nil, fmt.Errorf("initialize settings: %w", err)
	}
	if err := c.initializeInfrastructure(); err != nil {
		c.Close()
		return nil, fmt.Errorf("initialize infrastructure: %w", err)
	}
	if err := c.initializeApplication(); err != nil {
		c.Close()
		return nil, fmt.Errorf("initialize application: %w", err)
	}

	return c, nil
}

func (c *Container) initializeSettings() error {
	if c.config.Settings != nil {
		c.settings = c.config.Settings
		return nil
	}

	home, err := appconfig.ResolveHome()
	if err != nil {
		return err
	}
	settings, err := appconfig.EnsureSettings(c.fs, home)
	if err != nil {
		return err
	}
	c.settings = settings
	return nil
}

// initializeInfrastructure initializes store, adapters and the scheduler
func (c *Container) initializeInfrastructure() error {
	if err := c.fs.MkdirAll(c.settings.Home, 0o755); err != nil {
		return fmt.Errorf("create home directory %s failed: %w", c.settings.Home, err)
	}

	// 1. Store backend
	switch c.settings.Backend {
	case appconfig.BackendSQLite:
		db, err := sql.Open("sqlite3", c.dbPath()+"?_foreign_keys=on&_busy_timeout=5000")
		if err != nil {
			return fmt.Errorf("open database failed: %w", err)
		}
		c.db = db

		if err := sqliterepo.NewMigrator(db).Migrate(); err != nil {
			return fmt.Errorf("run migrations failed: %w", err)
		}

		c.stateRepo = sqliterepo.NewStateRepository(db)
		c.cycleRepo = sqliterepo.NewCycleRepository(db)

	case appconfig.BackendFile:
		c.stateRepo = filerepo.NewStateRepository(c.fs, c.settings.Home)
		c.cycleRepo = filerepo.NewCycleRepository(c.fs, c.settings.Home)

	default:
		return fmt.Errorf("unknown backend: %s", c.settings.Backend)
	}

	// 2. Clock
	c.clk = c.config.Clock
	if c.clk == nil {
		c.clk = clock.NewSystemClock()
	}

	// 3. Event bus and scheduler. Wake-ups are forwarded to the phase
	// controller, which does not exist yet; nothing is scheduled before
	// the application layer is built, so the indirection never fires on
	// a nil controller.
	c.bus = eventbus.NewChannelBus()
	c.sched = scheduler.NewTimerScheduler(func(id string) {
		if c.controller != nil {
			c.controller.HandleWake(id)
		}
	})

	// 4. Notifier. "none" routes notifications to the log only.
	if c.settings.NotifyCommand == "none" {
		c.notifier = notify.NewLogNotifier(c.log)
	} else {
		c.notifier = notify.NewCommandNotifier(c.settings.NotifyCommand)
	}

	// 5. Archive gateway
	target := c.config.ArchiveTarget
	if target == "" {
		target = c.settings.Archive.Target
	}
	switch target {
	case appconfig.ArchiveTargetLocal:
		c.archiveGateway = archive.NewLocalArchiveGateway(c.fs, c.settings.Archive.Dir)

	case appconfig.ArchiveTargetS3:
		if c.settings.Archive.Bucket == "" {
			return fmt.Errorf("S3 archive target needs a bucket")
		}
		gateway, err := archive.NewS3ArchiveGateway(context.Background(), archive.S3Config{
			Bucket: c.settings.Archive.Bucket,
			Prefix: c.settings.Archive.Prefix,
			Region: c.settings.Archive.Region,
		})
		if err != nil {
			return fmt.Errorf("create S3 archive gateway failed: %w", err)
		}
		c.archiveGateway = gateway

	case ArchiveTargetMock:
		c.archiveGateway = archive.NewMockArchiveGateway()

	default:
		return fmt.Errorf("unknown archive target: %s", target)
	}

	return nil
}

// initializeApplication initializes use cases and services
func (c *Container) initializeApplication() error {
	c.controller = timerusecase.NewPhaseController(
		c.stateRepo,
		c.cycleRepo,
		c.clk,
		c.sched,
		c.notifier,
		c.bus,
		c.log,
	)
	c.timerUseCase = c.controller

	c.historyUseCase = historyusecase.NewHistoryUseCaseImpl(
		c.cycleRepo,
		c.archiveGateway,
		c.clk,
	)

	c.heartbeat = service.NewHeartbeatService(
		c.sched,
		service.HeartbeatServiceConfig{Interval: c.settings.Heartbeat},
		c.log,
	)

	return c.seedConfig()
}

// seedConfig writes the settings durations as the stored timer config when
// the store has none yet. The stored config wins on every later run, so
// durations set through `stint start --focus` survive settings edits.
func (c *Container) seedConfig() error {
	ctx := context.Background()

	if _, err := c.stateRepo.LoadConfig(ctx); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("load config: %w", err)
	}

	cfg, err := domaintimer.NewConfig(
		int64(c.settings.FocusDuration.Seconds()),
		int64(c.settings.BreakDuration.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("settings durations invalid: %w", err)
	}
	if err := c.stateRepo.SaveConfig(ctx, cfg); err != nil {
		return fmt.Errorf("seed config: %w", err)
	}
	return nil
}

// dbPath returns the SQLite database path inside the stint home
func (c *Container) dbPath() string {
	return filepath.Join(c.settings.Home, "stint.db")
}

// GetTimerUseCase returns the timer use case
func (c *Container) GetTimerUseCase() input.TimerUseCase {
	return c.timerUseCase
}

// GetHistoryUseCase returns the history use case
func (c *Container) GetHistoryUseCase() input.HistoryUseCase {
	return c.historyUseCase
}

// GetEventBus returns the in-process event bus
func (c *Container) GetEventBus() output.EventBus {
	return c.bus
}

// GetHeartbeatService returns the heartbeat service
func (c *Container) GetHeartbeatService() service.HeartbeatService {
	return c.heartbeat
}

// GetArchiveGateway returns the archive gateway
func (c *Container) GetArchiveGateway() output.ArchiveGateway {
	return c.archiveGateway
}

// GetSettings returns the resolved settings
func (c *Container) GetSettings() *appconfig.Settings {
	return c.settings
}

// GetStorePath returns the file the active backend persists state into,
// for cross-process watching
func (c *Container) GetStorePath() string {
	if c.settings.Backend == appconfig.BackendSQLite {
		return c.dbPath()
	}
	return filepath.Join(c.settings.Home, "state.json")
}

// Start begins daemon-mode background work: the periodic heartbeat, plus one
// immediate wake-up so an already-running phase is settled and its phase-end
// wake-up re-armed right away.
func (c *Container) Start(ctx context.Context) error {
	if err := c.heartbeat.Start(ctx); err != nil {
		return fmt.Errorf("start heartbeat service: %w", err)
	}
	c.controller.HandleWake(timerusecase.WakeHeartbeat)
	return nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	// Stop feeding wake-ups before tearing down what they touch.
	if c.heartbeat != nil {
		if err := c.heartbeat.Stop(); err != nil {
			c.log.Warn("stop heartbeat service: %v", err)
		}
	}
	if c.sched != nil {
		c.sched.Close()
	}
	if c.bus != nil {
		c.bus.Close()
	}

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
