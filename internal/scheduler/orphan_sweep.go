package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper deletes orphaned attachments in-process.
type Sweeper interface {
	SweepOrphans(ctx context.Context) (int64, error)
}

// Queue hands the sweep to the background task queue.
type Queue interface {
	EnqueueOrphanSweep(ctx context.Context, reason string) error
}

// OrphanSweepScheduler periodically removes photo and audio rows whose entry
// was never written. With a Queue the work runs as a task; otherwise the
// sweeper is called directly.
type OrphanSweepScheduler struct {
	schedule string
	sweeper  Sweeper
	queue    Queue
	logger   *slog.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewOrphanSweepScheduler creates a stopped scheduler. queue may be nil.
func NewOrphanSweepScheduler(schedule string, sweeper Sweeper, queue Queue, logger *slog.Logger) *OrphanSweepScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrphanSweepScheduler{
		schedule: schedule,
		sweeper:  sweeper,
		queue:    queue,
		logger:   logger.With("component", "orphan_sweep"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

func (s *OrphanSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.run(context.Background(), "scheduled")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule orphan sweep: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	next, _ := GetNextRunTime(s.schedule, time.Now())
	s.logger.Info("scheduler started",
		"schedule", s.schedule,
		"description", GetCronDescription(s.schedule),
		"next_run", next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running sweep to finish.
func (s *OrphanSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	s.logger.Info("scheduler stopped")
}

// RunNow performs one sweep synchronously.
func (s *OrphanSweepScheduler) RunNow(ctx context.Context) error {
	return s.run(ctx, "manual")
}

func (s *OrphanSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *OrphanSweepScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *OrphanSweepScheduler) run(ctx context.Context, reason string) error {
	if s.queue != nil {
		if err := s.queue.EnqueueOrphanSweep(ctx, reason); err != nil {
			s.logger.Error("failed to enqueue sweep", "error", err)
			return err
		}
		s.logger.Debug("sweep enqueued", "reason", reason)
		return nil
	}

	deleted, err := s.sweeper.SweepOrphans(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "error", err)
		return fmt.Errorf("orphan sweep: %w", err)
	}
	s.logger.Info("sweep finished", "deleted", deleted, "reason", reason)
	return nil
}
