package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/store"
)

// AddCustomer stores a new customer in the potential stage whatever stage
// the input carries, and returns its id.
func (r *Repository) AddCustomer(ctx context.Context, c domain.Customer) (id string, err error) {
	ctx, span := r.startSpan(ctx, "AddCustomer")
	defer func() { endSpan(span, err) }()

	c.ID = r.newID()
	c.CreatedAt = r.now()
	c.Stage = domain.StagePotential
	if err := r.store.Customers.Add(ctx, &c); err != nil {
		return "", fmt.Errorf("add customer: %w", err)
	}
	r.log.Info("customer added", zap.String("customer_id", c.ID), zap.String("name", c.Name))

	return c.ID, r.notify(ctx, domain.NotificationDraft{
		MessageKey:   "activityCustomerAdded",
		Replacements: map[string]string{"name": c.Name},
		Type:         domain.NotifCustomer,
		Link:         &domain.Link{Page: domain.PageCustomers, ID: c.ID},
	})
}

// UpdateCustomer replaces the stored record. It records no notification.
func (r *Repository) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	if c.Stage != "" && !c.Stage.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, c.Stage)
	}
	if err := r.store.Customers.Put(ctx, &c); err != nil {
		return fmt.Errorf("update customer %s: %w", c.ID, err)
	}
	return nil
}

// UpdateCustomerStage moves a customer to stage, then runs the stage
// automation and relays the notifications it returns. The stage write is
// committed before automation runs and is not undone if automation fails.
// An unknown customer is a no-op.
func (r *Repository) UpdateCustomerStage(ctx context.Context, customerID string, stage domain.Stage, actingUserID string) (err error) {
	ctx, span := r.startSpan(ctx, "UpdateCustomerStage")
	span.SetAttributes(attribute.String("customer.id", customerID), attribute.String("stage", string(stage)))
	defer func() { endSpan(span, err) }()

	if !stage.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}

	err = r.store.Customers.Update(ctx, customerID, map[string]any{"stage": stage})
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn("stage change for unknown customer", zap.String("customer_id", customerID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("update stage of %s: %w", customerID, err)
	}
	r.log.Info("customer stage changed",
		zap.String("customer_id", customerID),
		zap.String("stage", string(stage)),
		zap.String("user_id", actingUserID),
	)

	result, runErr := r.automation.RunForStageChange(ctx, customerID, stage, actingUserID)
	var errs []error
	if runErr != nil {
		errs = append(errs, fmt.Errorf("%w for %s (stage already saved): %w", ErrAutomation, customerID, runErr))
	}
	for _, d := range result.Notifications {
		if err := r.notify(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BulkAddCustomers inserts the candidates that match no existing customer by
// case-insensitive email or name and returns how many were inserted.
// Candidates are not compared with each other.
func (r *Repository) BulkAddCustomers(ctx context.Context, candidates []domain.Customer) (int, error) {
	existing, err := r.store.Customers.All(ctx, "created_at", true)
	if err != nil {
		return 0, fmt.Errorf("bulk add customers: %w", err)
	}

	emails := make(map[string]struct{}, len(existing))
	names := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		if c.Email != "" {
			emails[strings.ToLower(c.Email)] = struct{}{}
		}
		names[strings.ToLower(c.Name)] = struct{}{}
	}

	now := r.now()
	fresh := make([]domain.Customer, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := emails[strings.ToLower(c.Email)]; c.Email != "" && dup {
			continue
		}
		if _, dup := names[strings.ToLower(c.Name)]; dup {
			continue
		}
		c.ID = r.newID()
		c.CreatedAt = now
		c.Stage = domain.StagePotential
		fresh = append(fresh, c)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	added, err := r.store.Customers.BulkAdd(ctx, fresh)
	r.log.Info("customers imported",
		zap.Int("candidates", len(candidates)),
		zap.Int("added", added),
		zap.Int("skipped", len(candidates)-len(fresh)),
	)
	if err != nil {
		return added, fmt.Errorf("bulk add customers: %w", err)
	}
	return added, nil
}

// DeleteCustomer removes the customer. It records no notification.
func (r *Repository) DeleteCustomer(ctx context.Context, id string) error {
	if err := r.store.Customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	return nil
}

func (r *Repository) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return r.store.Customers.Get(ctx, id)
}

// Customers lists customers newest first.
func (r *Repository) Customers(ctx context.Context) ([]domain.Customer, error) {
	return r.store.Customers.All(ctx, "created_at", true)
}

func (r *Repository) CustomersInStage(ctx context.Context, stage domain.Stage) ([]domain.Customer, error) {
	return r.store.Customers.Find(ctx, store.Query{Index: "stage", Equals: stage, OrderBy: "created_at", Desc: true})
}
