package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/livequery"
	"cnkcrm/internal/modules/notification"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/store/storetest"
)

func setupCenter(t *testing.T) (*notification.Center, *clock.Manual) {
	t.Helper()
	hub := livequery.NewHub()
	s := storetest.New(t, hub)
	clk := clock.NewManual(time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC))
	return notification.NewCenter(s.Notifications, hub, zaptest.NewLogger(t), notification.WithClock(clk.Now)), clk
}

func draft(key string, kind domain.NotificationType) domain.NotificationDraft {
	return domain.NotificationDraft{MessageKey: key, Type: kind, Link: &domain.Link{Page: domain.PageTasks}}
}

func TestAddPersistsUnread(t *testing.T) {
	center, clk := setupCenter(t)
	ctx := context.Background()

	n, err := center.Add(ctx, domain.NotificationDraft{
		MessageKey:   "activityCustomerAdded",
		Replacements: map[string]string{"name": "Acme"},
		Type:         domain.NotifCustomer,
		Link:         &domain.Link{Page: domain.PageCustomers, ID: "c1"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.IsRead)
	assert.Equal(t, clk.Now(), n.Timestamp)

	unread, err := center.Unread(ctx, "")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "Acme", unread[0].Replacements["name"])
	assert.Equal(t, "c1", unread[0].Link.ID)
}

func TestMarkReadTwiceIsIdempotent(t *testing.T) {
	center, _ := setupCenter(t)
	ctx := context.Background()

	n, err := center.Add(ctx, draft("activityTaskAdded", domain.NotifSystem))
	require.NoError(t, err)

	require.NoError(t, center.MarkRead(ctx, n.ID))
	require.NoError(t, center.MarkRead(ctx, n.ID))

	count, err := center.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	recent, err := center.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.True(t, recent[0].IsRead)
	assert.NotNil(t, recent[0].ReadAt)
}

func TestMarkReadMissing(t *testing.T) {
	center, _ := setupCenter(t)

	err := center.MarkRead(context.Background(), "missing")
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}

func TestUnreadFiltersByTypeMostRecentFirst(t *testing.T) {
	center, clk := setupCenter(t)
	ctx := context.Background()

	first, err := center.Add(ctx, draft("activityOfferAdded", domain.NotifOffer))
	require.NoError(t, err)
	clk.Advance(time.Minute)
	_, err = center.Add(ctx, draft("activityTaskAdded", domain.NotifSystem))
	require.NoError(t, err)
	clk.Advance(time.Minute)
	second, err := center.Add(ctx, draft("activityOfferAdded", domain.NotifOffer))
	require.NoError(t, err)

	offers, err := center.Unread(ctx, domain.NotifOffer)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, second.ID, offers[0].ID)
	assert.Equal(t, first.ID, offers[1].ID)

	all, err := center.Unread(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMarkAllRead(t *testing.T) {
	center, _ := setupCenter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := center.Add(ctx, draft("activityTaskAdded", domain.NotifSystem))
		require.NoError(t, err)
	}

	changed, err := center.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, changed)

	changed, err = center.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	count, err := center.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWatchUnreadCount(t *testing.T) {
	center, _ := setupCenter(t)
	ctx := context.Background()

	sub, err := center.WatchUnreadCount(ctx)
	require.NoError(t, err)
	defer sub.Close()
	assert.Zero(t, sub.Current())

	n, err := center.Add(ctx, draft("activityTaskAdded", domain.NotifSystem))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return sub.Current() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, center.MarkRead(ctx, n.ID))
	require.Eventually(t, func() bool { return sub.Current() == 0 }, 2*time.Second, 5*time.Millisecond)
}
