package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rizkia-dev/study-planner-api/pkg/jobs"
)

type missedSessionRepository interface {
	MarkMissedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// MissedSessionConfig tunes the sweep cadence and grace period.
type MissedSessionConfig struct {
	Interval     time.Duration
	GraceMinutes int
	Workers      int
	MaxRetries   int
	RetryDelay   time.Duration
}

// MissedSessionService periodically flips overdue planned sessions to
// missed. The sweep runs through the shared job queue so failures get the
// queue's retry behaviour.
type MissedSessionService struct {
	repo   missedSessionRepository
	queue  *jobs.Queue
	logger *zap.Logger
	config MissedSessionConfig
	now    func() time.Time
	stop   chan struct{}
}

// NewMissedSessionService constructs the sweeper and its queue.
func NewMissedSessionService(repo missedSessionRepository, logger *zap.Logger, config MissedSessionConfig) *MissedSessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Interval <= 0 {
		config.Interval = 15 * time.Minute
	}
	if config.GraceMinutes < 0 {
		config.GraceMinutes = 0
	}

	s := &MissedSessionService{
		repo:   repo,
		logger: logger,
		config: config,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	s.queue = jobs.NewQueue("missed-sessions", s.handleSweep, jobs.QueueConfig{
		Workers:    config.Workers,
		MaxRetries: config.MaxRetries,
		RetryDelay: config.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the queue workers and the ticker that enqueues sweeps.
func (s *MissedSessionService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	go s.tick(ctx)
}

// Stop halts the ticker and drains the workers.
func (s *MissedSessionService) Stop() {
	close(s.stop)
	s.queue.Stop()
}

// SweepNow enqueues an immediate sweep, used by the admin endpoint.
func (s *MissedSessionService) SweepNow() error {
	return s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "sweep"})
}

func (s *MissedSessionService) tick(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.SweepNow(); err != nil {
				s.logger.Warn("failed to enqueue missed-session sweep", zap.Error(err))
			}
		}
	}
}

func (s *MissedSessionService) handleSweep(ctx context.Context, _ jobs.Job) error {
	cutoff := s.now().UTC().Add(-time.Duration(s.config.GraceMinutes) * time.Minute)
	affected, err := s.repo.MarkMissedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if affected > 0 {
		s.logger.Info("marked overdue sessions as missed", zap.Int64("count", affected))
	}
	return nil
}
