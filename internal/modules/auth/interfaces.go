package auth

import (
	"context"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/store"
)

// UserTable is the subset of the users table the service reads.
type UserTable interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Find(ctx context.Context, q store.Query) ([]domain.User, error)
	All(ctx context.Context, orderBy string, desc bool) ([]domain.User, error)
}

// SettingTable persists the session between runs.
type SettingTable interface {
	Get(ctx context.Context, key string) (*domain.Setting, error)
	Put(ctx context.Context, s *domain.Setting) error
	Delete(ctx context.Context, key string) error
}
