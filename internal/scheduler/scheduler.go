// Package scheduler runs the periodic maintenance jobs of the site.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/pkg/config"
)

const (
	jobStatusSync   = "tournament-status-sync"
	jobSessionPurge = "refresh-token-purge"
	jobTimeout      = time.Minute
)

type statusSyncer interface {
	SyncStatuses(ctx context.Context, now time.Time) (int, error)
}

type sessionPurger interface {
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler wraps a gocron scheduler with the site's jobs.
type Scheduler struct {
	cron     gocron.Scheduler
	tourneys statusSyncer
	sessions sessionPurger
	logger   *zap.Logger
	now      func() time.Time
}

// New registers the tournament status sync and the refresh-token purge. The
// jobs do not run until Start.
func New(cfg config.SchedulerConfig, tournaments statusSyncer, sessions sessionPurger, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	s := &Scheduler{cron: cron, tourneys: tournaments, sessions: sessions, logger: logger, now: time.Now}

	if tournaments != nil {
		if err := s.add(jobStatusSync, cfg.StatusSyncInterval, s.SyncTournamentStatuses); err != nil {
			return nil, err
		}
	}
	if sessions != nil {
		if err := s.add(jobSessionPurge, cfg.TokenPurgeInterval, s.PurgeSessions); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) add(name string, every time.Duration, run func(context.Context)) error {
	if every <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	_, err := s.cron.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			run(ctx)
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}
	return nil
}

// Start begins running the jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Jobs())))
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

// SyncTournamentStatuses moves tournaments along their lifecycle by date.
func (s *Scheduler) SyncTournamentStatuses(ctx context.Context) {
	moved, err := s.tourneys.SyncStatuses(ctx, s.now())
	if err != nil {
		s.logger.Warn("tournament status sync failed", zap.Error(err))
		return
	}
	if moved > 0 {
		s.logger.Info("tournament statuses updated", zap.Int("count", moved))
	}
}

// PurgeSessions deletes expired and revoked refresh tokens.
func (s *Scheduler) PurgeSessions(ctx context.Context) {
	removed, err := s.sessions.PurgeExpiredSessions(ctx, s.now())
	if err != nil {
		s.logger.Warn("refresh token purge failed", zap.Error(err))
		return
	}
	s.logger.Debug("refresh tokens purged", zap.Int64("count", removed))
}
