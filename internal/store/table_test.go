package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/store"
	"cnkcrm/internal/store/storetest"
)

func customer(id, name string, createdAt time.Time) domain.Customer {
	return domain.Customer{ID: id, Name: name, Stage: domain.StagePotential, CreatedAt: createdAt}
}

func TestAddGetAndDuplicateKey(t *testing.T) {
	rec := &storetest.Recorder{}
	s := storetest.New(t, rec)
	ctx := context.Background()

	c := customer("c1", "Acme", time.Now().UTC())
	require.NoError(t, s.Customers.Add(ctx, &c))

	got, err := s.Customers.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	dup := customer("c1", "Other", time.Now().UTC())
	err = s.Customers.Add(ctx, &dup)
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
	assert.Equal(t, 1, rec.Count("customers"))
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := storetest.New(t, nil)

	_, err := s.Tasks.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPutReplacesWholeRecord(t *testing.T) {
	s := storetest.New(t, nil)
	ctx := context.Background()

	c := customer("c1", "Acme", time.Now().UTC())
	c.Email = "old@acme.com"
	require.NoError(t, s.Customers.Put(ctx, &c))

	replacement := customer("c1", "Acme Ltd", c.CreatedAt)
	require.NoError(t, s.Customers.Put(ctx, &replacement))

	got, err := s.Customers.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", got.Name)
	assert.Empty(t, got.Email)

	n, err := s.Customers.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestDeleteIsIdempotent(t *testing.T) {
	rec := &storetest.Recorder{}
	s := storetest.New(t, rec)
	ctx := context.Background()

	task := domain.Task{ID: "t1", Title: "Call", Status: domain.TaskPending, DueDate: time.Now().UTC()}
	require.NoError(t, s.Tasks.Add(ctx, &task))

	require.NoError(t, s.Tasks.Delete(ctx, "t1"))
	require.NoError(t, s.Tasks.Delete(ctx, "t1"))

	_, err := s.Tasks.Get(ctx, "t1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 2, rec.Count("tasks"), "add and the first delete publish")
}

func TestBulkAddReportsSuccessCount(t *testing.T) {
	s := storetest.New(t, nil)
	ctx := context.Background()

	existing := customer("c1", "Acme", time.Now().UTC())
	require.NoError(t, s.Customers.Add(ctx, &existing))

	rows := []domain.Customer{
		customer("c1", "Clash", time.Now().UTC()),
		customer("c2", "Beta", time.Now().UTC()),
		customer("c3", "Gamma", time.Now().UTC()),
	}
	added, err := s.Customers.BulkAdd(ctx, rows)
	assert.Equal(t, 2, added)
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestFindOrdersByDeclaredIndex(t *testing.T) {
	s := storetest.New(t, nil)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	rows := []domain.Task{
		{ID: "a", Title: "late", Status: domain.TaskPending, DueDate: base.AddDate(0, 0, 5), AssignedTo: "u1"},
		{ID: "b", Title: "early", Status: domain.TaskCompleted, DueDate: base.AddDate(0, 0, 1), AssignedTo: "u1"},
		{ID: "c", Title: "middle", Status: domain.TaskPending, DueDate: base.AddDate(0, 0, 3), AssignedTo: "u2"},
	}
	require.NoError(t, s.Tasks.BulkPut(ctx, rows))

	all, err := s.Tasks.All(ctx, "due_date", false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	pending, err := s.Tasks.Find(ctx, store.Query{Index: "status", Equals: domain.TaskPending, OrderBy: "due_date", Desc: true})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].ID)

	window, err := s.Tasks.Find(ctx, store.Query{Index: "due_date", From: base.AddDate(0, 0, 2), Before: base.AddDate(0, 0, 5)})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "c", window[0].ID)
}

func TestFindRejectsUndeclaredIndex(t *testing.T) {
	s := storetest.New(t, nil)

	_, err := s.Tasks.Find(context.Background(), store.Query{Index: "title", Equals: "x"})
	assert.ErrorIs(t, err, store.ErrUnknownIndex)
}

func TestUpdateFields(t *testing.T) {
	s := storetest.New(t, nil)
	ctx := context.Background()

	c := customer("c1", "Acme", time.Now().UTC())
	require.NoError(t, s.Customers.Add(ctx, &c))

	require.NoError(t, s.Customers.Update(ctx, "c1", map[string]any{"stage": domain.StageWon}))
	got, err := s.Customers.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageWon, got.Stage)

	err = s.Customers.Update(ctx, "missing", map[string]any{"stage": domain.StageWon})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEmptyStageReadsAsPotential(t *testing.T) {
	s := storetest.New(t, nil)
	ctx := context.Background()

	c := domain.Customer{ID: "legacy", Name: "Legacy", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.Customers.Add(ctx, &c))

	got, err := s.Customers.Get(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, domain.StagePotential, got.Stage)
}

func TestTransactionPublishesAfterCommit(t *testing.T) {
	rec := &storetest.Recorder{}
	s := storetest.New(t, rec)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *store.Store) error {
		c := customer("c1", "Acme", time.Now().UTC())
		if err := tx.Customers.Add(ctx, &c); err != nil {
			return err
		}
		assert.Zero(t, rec.Count("customers"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count("customers"))

	boom := errors.New("boom")
	err = s.Transaction(ctx, func(tx *store.Store) error {
		c := customer("c2", "Rolled back", time.Now().UTC())
		if err := tx.Customers.Add(ctx, &c); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, rec.Count("customers"))

	_, err = s.Customers.Get(ctx, "c2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStorageErrorMatchesSentinel(t *testing.T) {
	err := error(&store.StorageError{Op: "put", Table: "customers", Err: errors.New("disk full")})

	assert.ErrorIs(t, err, store.ErrStorage)
	var se *store.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "customers", se.Table)
}

func TestMigrateRecordsVersion(t *testing.T) {
	s := storetest.New(t, nil)
	ctx := context.Background()

	v, err := store.Version(ctx, s.DB())
	require.NoError(t, err)
	assert.Equal(t, store.SchemaVersion, v)

	require.NoError(t, store.Migrate(ctx, s.DB()), "migrate is repeatable")
}

func TestMigrateRefusesNewerSchema(t *testing.T) {
	s := storetest.New(t, nil)
	ctx := context.Background()

	require.NoError(t, s.DB().Exec("UPDATE schema_meta SET version = ?", store.SchemaVersion+1).Error)

	err := store.Migrate(ctx, s.DB())
	assert.ErrorIs(t, err, store.ErrSchemaTooNew)
}
