// Package cleanup reclaims file rows and blobs left behind by submissions
// that failed partway through the write sequence.
package cleanup

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OrphanSource finds and removes file rows whose project never made it.
type OrphanSource interface {
	DeleteOrphanFiles(ctx context.Context, grace time.Duration) ([]string, error)
}

// BlobDeleter removes stored blobs by path.
type BlobDeleter interface {
	Delete(ctx context.Context, path string) error
}

// Sweeper runs the orphan sweep on a cron schedule.
type Sweeper struct {
	repo   OrphanSource
	blobs  BlobDeleter
	grace  time.Duration
	logger *zap.Logger
	cron   *cron.Cron
}

func NewSweeper(repo OrphanSource, blobs BlobDeleter, grace time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		repo:   repo,
		blobs:  blobs,
		grace:  grace,
		logger: logger,
	}
}

// Start schedules the sweep. Schedules use seconds-resolution cron syntax.
func (s *Sweeper) Start(schedule string) error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.logger.Info("orphan sweep scheduled", zap.String("schedule", schedule))
	return nil
}

// Stop halts the schedule, letting a running sweep finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep deletes orphaned file rows older than the grace window and then
// their blobs. Blob failures are logged and left for the next run.
func (s *Sweeper) Sweep(ctx context.Context) {
	paths, err := s.repo.DeleteOrphanFiles(ctx, s.grace)
	if err != nil {
		s.logger.Error("orphan sweep failed", zap.Error(err))
		return
	}
	for _, p := range paths {
		if err := s.blobs.Delete(ctx, p); err != nil {
			s.logger.Warn("failed to delete orphan blob", zap.String("path", p), zap.Error(err))
		}
	}
	if len(paths) > 0 {
		s.logger.Info("orphan sweep completed", zap.Int("reclaimed", len(paths)))
	}
}
