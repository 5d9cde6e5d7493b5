package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sweepTimeout bounds a single missed-lesson sweep
const sweepTimeout = 5 * time.Minute

// Sweeper enqueues the reminders due for every profile
type Sweeper interface {
	SweepMissed(ctx context.Context) (int, error)
}

// Scheduler runs the missed-lesson sweep on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler. The cron spec is evaluated in loc.
func NewScheduler(spec string, loc *time.Location, sweeper Sweeper, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		sweeper: sweeper,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// Next returns the time of the next sweep
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	enqueued, err := s.sweeper.SweepMissed(ctx)
	if err != nil {
		s.logger.Error("Missed lesson sweep failed", zap.Error(err))
		return
	}
	s.logger.Debug("Missed lesson sweep done", zap.Int("enqueued", enqueued))
}
