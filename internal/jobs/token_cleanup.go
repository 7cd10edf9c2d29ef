// Package jobs runs background maintenance on a cron schedule
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ExpiredTokenCleaner removes session tokens that expired before now
type ExpiredTokenCleaner interface {
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// TokenCleanupJob clears expired session tokens so stale bearer tokens are not kept around
type TokenCleanupJob struct {
	cleaner ExpiredTokenCleaner
	logger  zerolog.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewTokenCleanupJob creates a new TokenCleanupJob
func NewTokenCleanupJob(cleaner ExpiredTokenCleaner, logger zerolog.Logger) *TokenCleanupJob {
	return &TokenCleanupJob{
		cleaner: cleaner,
		logger:  logger,
		timeout: 30 * time.Second,
		now:     time.Now,
	}
}

// Run performs one cleanup pass
func (j *TokenCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cleared, err := j.cleaner.ClearExpiredTokens(ctx, j.now())
	if err != nil {
		j.logger.Error().Err(err).Msg("Token cleanup failed")
		return
	}
	if cleared > 0 {
		j.logger.Info().Int64("cleared", cleared).Msg("Expired tokens cleared")
	}
}

// Scheduler wraps the cron runner for the application's jobs
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewScheduler creates a scheduler that recovers from panics in jobs and logs them
func NewScheduler(logger zerolog.Logger) *Scheduler {
	cronLog := cronLogger{logger: logger}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLog), cron.WithChain(cron.Recover(cronLog))),
		logger: logger,
	}
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// Add registers job under a standard cron spec or descriptor such as "@hourly"
func (s *Scheduler) Add(name, spec string, job cron.Job) error {
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("failed to schedule %s job with spec %q: %w", name, spec, err)
	}
	s.logger.Info().Str("job", name).Str("schedule", spec).Msg("Job scheduled")
	return nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("Timed out waiting for running jobs")
	}
}
