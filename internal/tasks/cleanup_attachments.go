package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikestefanello/backlite"
)

// OrphanSweeper deletes photo and audio rows whose entry was never written.
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context) (int64, error)
}

// CleanupOrphanAttachmentsTask removes attachments left behind by failed
// submissions.
type CleanupOrphanAttachmentsTask struct {
	Reason string `json:"reason,omitempty"`
}

func (t CleanupOrphanAttachmentsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_attachments",
		MaxAttempts: 2,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func CleanupOrphanAttachmentsProcessor(sweeper OrphanSweeper, logger *slog.Logger) backlite.QueueProcessor[CleanupOrphanAttachmentsTask] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, task CleanupOrphanAttachmentsTask) error {
		if sweeper == nil {
			return errors.New("orphan sweeper not configured")
		}

		deleted, err := sweeper.SweepOrphans(ctx)
		if err != nil {
			return fmt.Errorf("cleanup orphan attachments: %w", err)
		}

		logger.Info("orphan attachments cleaned up", "deleted", deleted, "reason", task.Reason)
		return nil
	}
}

func NewCleanupOrphanAttachmentsQueue(sweeper OrphanSweeper, logger *slog.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanAttachmentsProcessor(sweeper, logger))
}

// EnqueueOrphanSweep schedules a CleanupOrphanAttachmentsTask.
func (c *Client) EnqueueOrphanSweep(ctx context.Context, reason string) error {
	_, err := c.Add(CleanupOrphanAttachmentsTask{Reason: reason}).Save()
	if err != nil {
		return fmt.Errorf("enqueue orphan sweep: %w", err)
	}
	return nil
}
