package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/tracy-ai/tracybot/internal/bot/tasks"
)

// Scheduler runs the registered tasks on a fixed interval using gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	interval  time.Duration
	taskMap   map[string]tasks.ScheduledTaskFunc

	// ctx is handed to every task run and cancelled by Stop.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler that runs every task in taskMap once at
// start and then every interval.
func NewScheduler(logger *slog.Logger, interval time.Duration, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %s", interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		logger:    logger.With("component", "scheduler"),
		interval:  interval,
		taskMap:   taskMap,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start schedules all tasks and starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.taskMap) == 0 {
		s.logger.Debug("No scheduled tasks registered.")
	}

	scheduledCount := 0
	for taskName, taskFunc := range s.taskMap {
		_, err := s.scheduler.NewJob(
			gocron.DurationJob(s.interval),
			gocron.NewTask(s.wrap(taskName, taskFunc)),
			gocron.WithName(taskName),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			s.logger.Error("Failed to schedule task", "task_name", taskName, "interval", s.interval, "error", err)
			continue
		}

		s.logger.Info("Scheduled task", "task_name", taskName, "interval", s.interval)
		scheduledCount++
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "tasks_scheduled", scheduledCount)
	return nil
}

func (s *Scheduler) wrap(name string, taskFunc tasks.ScheduledTaskFunc) func() {
	return func() {
		s.logger.Debug("Running scheduled task", "task_name", name)
		startTime := time.Now()
		if err := taskFunc(s.ctx); err != nil {
			s.logger.Warn("Scheduled task failed", "task_name", name, "error", err)
			return
		}
		s.logger.Debug("Finished scheduled task", "task_name", name, "duration", time.Since(startTime))
	}
}

// Stop cancels running tasks and waits for them to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.cancel()
	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}
