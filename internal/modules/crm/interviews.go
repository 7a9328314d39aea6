package crm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/store"
)

// AddInterview stores an interview form and returns its id.
func (r *Repository) AddInterview(ctx context.Context, iv domain.Interview) (id string, err error) {
	ctx, span := r.startSpan(ctx, "AddInterview")
	defer func() { endSpan(span, err) }()

	customerName := ""
	c, err := r.store.Customers.Get(ctx, iv.CustomerID)
	switch {
	case err == nil:
		customerName = c.Name
	case !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("add interview: %w", err)
	}

	iv.ID = r.newID()
	iv.CreatedAt = r.now()
	if err := r.store.Interviews.Add(ctx, &iv); err != nil {
		return "", fmt.Errorf("add interview: %w", err)
	}
	r.log.Info("interview added", zap.String("interview_id", iv.ID), zap.String("customer_id", iv.CustomerID))

	return iv.ID, r.notify(ctx, domain.NotificationDraft{
		MessageKey:   "activityInterviewAdded",
		Replacements: map[string]string{"customerName": customerName},
		Type:         domain.NotifInterview,
		Link:         &domain.Link{Page: domain.PageInterviews, ID: iv.ID},
	})
}

func (r *Repository) UpdateInterview(ctx context.Context, iv domain.Interview) error {
	if err := r.store.Interviews.Put(ctx, &iv); err != nil {
		return fmt.Errorf("update interview %s: %w", iv.ID, err)
	}
	return nil
}

func (r *Repository) DeleteInterview(ctx context.Context, id string) error {
	if err := r.store.Interviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete interview %s: %w", id, err)
	}
	return nil
}

// Interviews lists interview forms, latest form date first.
func (r *Repository) Interviews(ctx context.Context) ([]domain.Interview, error) {
	return r.store.Interviews.All(ctx, "form_tarihi", true)
}

func (r *Repository) InterviewsForCustomer(ctx context.Context, customerID string) ([]domain.Interview, error) {
	return r.store.Interviews.Find(ctx, store.Query{Index: "customer_id", Equals: customerID})
}
