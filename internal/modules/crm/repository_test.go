package crm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/livequery"
	"cnkcrm/internal/modules/crm"
	"cnkcrm/internal/modules/notification"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/store"
	"cnkcrm/internal/store/storetest"
)

var t0 = time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC)

type fixture struct {
	repo   *crm.Repository
	center *notification.Center
	store  *store.Store
	hub    *livequery.Hub
	clock  *clock.Manual
}

func setup(t *testing.T, opts ...crm.Option) *fixture {
	t.Helper()
	hub := livequery.NewHub()
	s := storetest.New(t, hub)
	clk := clock.NewManual(t0)
	log := zaptest.NewLogger(t)
	center := notification.NewCenter(s.Notifications, hub, log, notification.WithClock(clk.Now))
	opts = append([]crm.Option{crm.WithClock(clk.Now)}, opts...)
	return &fixture{
		repo:   crm.NewRepository(s, hub, center, log, opts...),
		center: center,
		store:  s,
		hub:    hub,
		clock:  clk,
	}
}

func (f *fixture) unread(t *testing.T) []domain.Notification {
	t.Helper()
	rows, err := f.center.Unread(context.Background(), "")
	require.NoError(t, err)
	return rows
}

func (f *fixture) withKey(t *testing.T, key string) []domain.Notification {
	t.Helper()
	var out []domain.Notification
	for _, n := range f.unread(t) {
		if n.MessageKey == key {
			out = append(out, n)
		}
	}
	return out
}
