package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/livequery"
	"cnkcrm/internal/observability/metrics"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/store"
)

// Center is the durable inbox of notifications.
type Center struct {
	repo Repository
	hub  *livequery.Hub
	log  *zap.Logger
	now  clock.Clock
}

type Option func(*Center)

func WithClock(now clock.Clock) Option {
	return func(c *Center) { c.now = now }
}

// NewCenter creates notification center
func NewCenter(repo Repository, hub *livequery.Hub, log *zap.Logger, opts ...Option) *Center {
	c := &Center{repo: repo, hub: hub, log: log, now: clock.System}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add persists a draft as a new unread notification.
func (c *Center) Add(ctx context.Context, d domain.NotificationDraft) (*domain.Notification, error) {
	ts := c.now()
	n := &domain.Notification{
		ID:           ulid.MustNew(ulid.Timestamp(ts), ulid.DefaultEntropy()).String(),
		MessageKey:   d.MessageKey,
		Replacements: d.Replacements,
		Type:         d.Type,
		Link:         d.Link,
		IsRead:       false,
		Timestamp:    ts,
	}
	if err := c.repo.Add(ctx, n); err != nil {
		c.log.Error("failed to add notification", zap.String("message_key", d.MessageKey), zap.Error(err))
		return nil, fmt.Errorf("add notification %s: %w", d.MessageKey, err)
	}
	metrics.ObserveNotification(string(d.Type))
	return n, nil
}

// MarkRead flips a notification to read. Marking it again is a no-op.
func (c *Center) MarkRead(ctx context.Context, id string) error {
	n, err := c.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	return c.repo.Update(ctx, id, map[string]any{"is_read": true, "read_at": c.now()})
}

// MarkAllRead marks every unread notification read and returns how many changed.
func (c *Center) MarkAllRead(ctx context.Context) (int, error) {
	unread, err := c.Unread(ctx, "")
	if err != nil {
		return 0, err
	}
	now := c.now()
	for i, n := range unread {
		if err := c.repo.Update(ctx, n.ID, map[string]any{"is_read": true, "read_at": now}); err != nil {
			return i, err
		}
	}
	return len(unread), nil
}

// Unread lists unread notifications most recent first, optionally of one type.
func (c *Center) Unread(ctx context.Context, kind domain.NotificationType) ([]domain.Notification, error) {
	rows, err := c.repo.Find(ctx, store.Query{Index: "is_read", Equals: false, OrderBy: "timestamp", Desc: true})
	if err != nil {
		return nil, err
	}
	if kind == "" {
		return rows, nil
	}
	filtered := rows[:0]
	for _, n := range rows {
		if n.Type == kind {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

func (c *Center) UnreadCount(ctx context.Context) (int, error) {
	rows, err := c.Unread(ctx, "")
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Recent lists the newest notifications regardless of read state.
func (c *Center) Recent(ctx context.Context, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return c.repo.Find(ctx, store.Query{OrderBy: "timestamp", Desc: true, Limit: limit})
}

// Watch keeps the newest notifications live.
func (c *Center) Watch(ctx context.Context, limit int) (*livequery.Subscription[[]domain.Notification], error) {
	return livequery.Watch(ctx, c.hub, func(ctx context.Context) ([]domain.Notification, error) {
		return c.Recent(ctx, limit)
	}, []string{c.repo.Name()}, livequery.WithLogger(c.log))
}

// WatchUnreadCount keeps the unread badge count live.
func (c *Center) WatchUnreadCount(ctx context.Context) (*livequery.Subscription[int], error) {
	return livequery.Watch(ctx, c.hub, c.UnreadCount, []string{c.repo.Name()}, livequery.WithLogger(c.log))
}
