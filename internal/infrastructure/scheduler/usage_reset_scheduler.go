package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrSchedulerNotRunning is returned when a manual trigger is requested
// while the scheduler is stopped
var ErrSchedulerNotRunning = errors.New("scheduler is not running")

// UsageResetRunner performs the daily usage counter sweep.
// It is implemented by the payment ledger service.
type UsageResetRunner interface {
	ResetStale(ctx context.Context) (int, error)
}

// UsageResetSchedulerConfig holds configuration for the daily reset scheduler
type UsageResetSchedulerConfig struct {
	Enabled bool

	// ResetHour and ResetMinute define when the sweep runs (24h clock)
	ResetHour   int
	ResetMinute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration

	// JobTimeout bounds a single sweep
	JobTimeout time.Duration
}

// DefaultUsageResetSchedulerConfig returns the default scheduler configuration.
// The sweep runs at 00:05 so accounts whose day rolled over without traffic
// get their counters zeroed shortly after midnight.
func DefaultUsageResetSchedulerConfig() UsageResetSchedulerConfig {
	return UsageResetSchedulerConfig{
		Enabled:       true,
		ResetHour:     0,
		ResetMinute:   5,
		CheckInterval: time.Minute,
		JobTimeout:    10 * time.Minute,
	}
}

// UsageResetScheduler runs the daily usage counter sweep on a fixed schedule
type UsageResetScheduler struct {
	config UsageResetSchedulerConfig
	runner UsageResetRunner
	logger *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // date we last ran for, guards against double runs
	lastRunAt   *time.Time
}

// NewUsageResetScheduler creates a new usage reset scheduler
func NewUsageResetScheduler(
	config UsageResetSchedulerConfig,
	runner UsageResetRunner,
	logger *zap.Logger,
) *UsageResetScheduler {
	return &UsageResetScheduler{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start starts the scheduler loop
func (s *UsageResetScheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("usage reset scheduler disabled")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("usage reset scheduler started",
		zap.Int("reset_hour", s.config.ResetHour),
		zap.Int("reset_minute", s.config.ResetMinute),
		zap.Duration("check_interval", s.config.CheckInterval),
	)

	return nil
}

// Stop stops the scheduler gracefully
func (s *UsageResetScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("usage reset scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerManualRun runs the sweep immediately, outside the schedule
func (s *UsageResetScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()

	if !running {
		return ErrSchedulerNotRunning
	}

	s.logger.Info("manual usage reset triggered")
	return s.runSweep(ctx)
}

// GetStatus returns the current scheduler state for diagnostics
func (s *UsageResetScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":      s.config.Enabled,
		"is_running":   s.isRunning,
		"reset_hour":   s.config.ResetHour,
		"reset_minute": s.config.ResetMinute,
		"last_run_at":  s.lastRunAt,
	}
}

// runLoop checks periodically if it's time to run the sweep
func (s *UsageResetScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.checkAndTrigger(ctx, now)
		}
	}
}

// checkAndTrigger runs the sweep once per day at the configured time
func (s *UsageResetScheduler) checkAndTrigger(ctx context.Context, now time.Time) {
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	alreadyRan := s.lastRunDate == currentDate
	s.mu.Unlock()

	if alreadyRan || !s.shouldRun(now) {
		return
	}

	s.mu.Lock()
	s.lastRunDate = currentDate
	s.mu.Unlock()

	if err := s.runSweep(ctx); err != nil {
		s.logger.Error("daily usage reset sweep failed", zap.Error(err))
	}
}

// shouldRun reports whether the configured reset time matches now
func (s *UsageResetScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.config.ResetHour && now.Minute() == s.config.ResetMinute
}

// runSweep invokes the runner with the configured job timeout
func (s *UsageResetScheduler) runSweep(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	start := time.Now()
	count, err := s.runner.ResetStale(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	runAt := time.Now()
	s.lastRunAt = &runAt
	s.mu.Unlock()

	s.logger.Info("usage reset sweep completed",
		zap.Int("accounts_reset", count),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
