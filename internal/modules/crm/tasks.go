package crm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/store"
)

// AddTask stores a task, pending unless a status is given, and returns its id.
func (r *Repository) AddTask(ctx context.Context, t domain.Task) (id string, err error) {
	ctx, span := r.startSpan(ctx, "AddTask")
	defer func() { endSpan(span, err) }()

	t.ID = r.newID()
	t.CreatedAt = r.now()
	if t.Status == "" {
		t.Status = domain.TaskPending
	}
	if err := r.store.Tasks.Add(ctx, &t); err != nil {
		return "", fmt.Errorf("add task: %w", err)
	}
	r.log.Info("task added",
		zap.String("task_id", t.ID),
		zap.String("assigned_to", t.AssignedTo),
		zap.String("created_by", t.CreatedBy),
	)

	return t.ID, r.notify(ctx, domain.NotificationDraft{
		MessageKey:   "activityTaskAdded",
		Replacements: map[string]string{"title": t.Title},
		Type:         domain.NotifSystem,
		Link:         &domain.Link{Page: domain.PageTasks},
	})
}

// UpdateTask replaces the stored task.
func (r *Repository) UpdateTask(ctx context.Context, t domain.Task) error {
	if err := r.store.Tasks.Put(ctx, &t); err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	return nil
}

// ToggleTaskStatus flips a task between pending and completed.
func (r *Repository) ToggleTaskStatus(ctx context.Context, id string) (domain.TaskStatus, error) {
	t, err := r.store.Tasks.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrTaskNotFound
	}
	if err != nil {
		return "", fmt.Errorf("toggle task %s: %w", id, err)
	}

	next := domain.TaskCompleted
	if t.Status == domain.TaskCompleted {
		next = domain.TaskPending
	}
	if err := r.store.Tasks.Update(ctx, id, map[string]any{"status": next}); err != nil {
		return "", fmt.Errorf("toggle task %s: %w", id, err)
	}
	return next, nil
}

// DeleteTask removes a task and records a notification carrying its title.
// Deleting an unknown id does nothing.
func (r *Repository) DeleteTask(ctx context.Context, id string) (err error) {
	ctx, span := r.startSpan(ctx, "DeleteTask")
	defer func() { endSpan(span, err) }()

	t, err := r.store.Tasks.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if err := r.store.Tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}

	return r.notify(ctx, domain.NotificationDraft{
		MessageKey:   "activityTaskDeleted",
		Replacements: map[string]string{"title": t.Title},
		Type:         domain.NotifSystem,
		Link:         &domain.Link{Page: domain.PageTasks},
	})
}

// Tasks lists tasks by due date.
func (r *Repository) Tasks(ctx context.Context) ([]domain.Task, error) {
	return r.store.Tasks.All(ctx, "due_date", false)
}

func (r *Repository) TasksForUser(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.store.Tasks.Find(ctx, store.Query{Index: "assigned_to", Equals: userID, OrderBy: "due_date"})
}

func (r *Repository) TasksForCustomer(ctx context.Context, customerID string) ([]domain.Task, error) {
	return r.store.Tasks.Find(ctx, store.Query{Index: "customer_id", Equals: customerID, OrderBy: "due_date"})
}
