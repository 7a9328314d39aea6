// Package storetest opens migrated in-memory stores for tests.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cnkcrm/internal/database"
	"cnkcrm/internal/store"
)

// New returns a store over a fresh in-memory database named after the test.
func New(t testing.TB, pub store.Publisher) *store.Store {
	t.Helper()

	db, err := database.Connect(database.MemoryDSN("cnkcrm_"+t.Name()), zap.NewNop())
	require.NoError(t, err, "open sqlite")
	require.NoError(t, store.Migrate(context.Background(), db), "migrate")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.New(db, pub)
}

// Recorder is a Publisher that remembers every published table.
type Recorder struct {
	mu     sync.Mutex
	tables []string
}

func (r *Recorder) Publish(table string) {
	r.mu.Lock()
	r.tables = append(r.tables, table)
	r.mu.Unlock()
}

func (r *Recorder) Count(table string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tables {
		if t == table {
			n++
		}
	}
	return n
}
