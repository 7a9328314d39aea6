package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cnkcrm/internal/pkg/worker"
	"cnkcrm/internal/store"
)

// PruneRead deletes read notifications older than keep and returns how many
// were removed. Unread ones are kept however old they are.
func (c *Center) PruneRead(ctx context.Context, keep time.Duration) (int, error) {
	start := time.Now()
	old, err := c.repo.Find(ctx, store.Query{Index: "timestamp", Before: c.now().Add(-keep)})
	if err != nil {
		return 0, fmt.Errorf("find old notifications: %w", err)
	}

	var deleted int
	for _, n := range old {
		if !n.IsRead {
			continue
		}
		if err := c.repo.Delete(ctx, n.ID); err != nil {
			return deleted, fmt.Errorf("delete notification %s: %w", n.ID, err)
		}
		deleted++
	}
	c.log.Info("notification cleanup completed", zap.Int("deleted", deleted), zap.Duration("took", time.Since(start)))
	return deleted, nil
}

// ScheduleCleanup prunes read notifications older than keep every interval.
func (c *Center) ScheduleCleanup(ctx context.Context, keep, interval time.Duration) *worker.Job {
	return worker.Schedule(ctx, c.log, worker.Config{Name: "notification-cleanup", Interval: interval, Enabled: interval > 0}, func(ctx context.Context) error {
		_, err := c.PruneRead(ctx, keep)
		return err
	})
}
