package notification

import (
	"context"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/store"
)

// Repository is the slice of the notifications table the center uses.
type Repository interface {
	Name() string
	Add(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, id string) (*domain.Notification, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Find(ctx context.Context, q store.Query) ([]domain.Notification, error)
	Delete(ctx context.Context, id string) error
}
