package automation

import (
	"context"

	"cnkcrm/internal/domain"
)

// CustomerReader looks up the customer whose stage changed.
type CustomerReader interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
}

// TaskCreator schedules tasks on behalf of a rule.
type TaskCreator interface {
	AddTask(ctx context.Context, task domain.Task) (string, error)
}
