package livequery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishCoalescesPendingSignals(t *testing.T) {
	hub := NewHub()
	l := hub.register([]string{"customers"})

	hub.Publish("customers")
	hub.Publish("customers")
	hub.Publish("customers")

	assert.Len(t, l.dirty, 1)
	<-l.dirty
	assert.Len(t, l.dirty, 0)
}

func TestPublishOnlyReachesWatchedTables(t *testing.T) {
	hub := NewHub()
	l := hub.register([]string{"tasks"})

	hub.Publish("customers")
	assert.Len(t, l.dirty, 0)

	hub.Publish("tasks")
	assert.Len(t, l.dirty, 1)
}

func TestUnregisterDropsEmptyTables(t *testing.T) {
	hub := NewHub()
	tables := []string{"tasks", "customers"}
	l := hub.register(tables)
	assert.Equal(t, 1, hub.Listeners("tasks"))

	hub.unregister(l, tables)
	assert.Zero(t, hub.Listeners("tasks"))
	assert.Zero(t, hub.Listeners("customers"))
	hub.Publish("tasks")
}
