package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"cnkcrm/internal/database"
	"cnkcrm/internal/domain"
	"cnkcrm/internal/store/storetest"
)

func TestSeedFillsEmptyDatabaseOnce(t *testing.T) {
	s := storetest.New(t, nil)
	ctx := context.Background()

	require.NoError(t, database.Seed(ctx, s, zap.NewNop()))

	users, err := s.Users.All(ctx, "username", false)
	require.NoError(t, err)
	assert.Len(t, users, len(database.DefaultUsers))
	admin, err := s.Users.Get(ctx, "1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))

	n, err := s.Customers.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	settings, err := s.ERPSettings.Get(ctx, domain.ERPSettingsID)
	require.NoError(t, err)
	assert.Equal(t, "SYSDBA", settings.Username)

	require.NoError(t, s.Customers.Delete(ctx, "5"))
	require.NoError(t, database.Seed(ctx, s, zap.NewNop()))
	n, err = s.Customers.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n, "customers are not reseeded into a used database")
}

func TestSeedRefreshesUsers(t *testing.T) {
	s := storetest.New(t, nil)
	ctx := context.Background()
	require.NoError(t, s.Users.Put(ctx, &domain.User{ID: "2", Username: "ayse", Role: domain.RoleAdmin, PasswordHash: "stale"}))

	require.NoError(t, database.Seed(ctx, s, zap.NewNop()))

	u, err := s.Users.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("ayse123")))
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, database.IsPostgres("postgres://u:p@localhost/crm"))
	assert.True(t, database.IsPostgres("postgresql://localhost/crm"))
	assert.False(t, database.IsPostgres("crm.db"))
	assert.Equal(t, "file:a_b_c?mode=memory&cache=shared", database.MemoryDSN("a/b c"))
}

