package crm

import (
	"context"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/livequery"
)

func watch[T any](ctx context.Context, r *Repository, query livequery.QueryFunc[T], tables ...string) (*livequery.Subscription[T], error) {
	return livequery.Watch(ctx, r.hub, query, tables, livequery.WithLogger(r.log))
}

func (r *Repository) WatchCustomers(ctx context.Context) (*livequery.Subscription[[]domain.Customer], error) {
	return watch(ctx, r, r.Customers, r.store.Customers.Name())
}

func (r *Repository) WatchAppointments(ctx context.Context) (*livequery.Subscription[[]domain.Appointment], error) {
	return watch(ctx, r, r.Appointments, r.store.Appointments.Name())
}

func (r *Repository) WatchInterviews(ctx context.Context) (*livequery.Subscription[[]domain.Interview], error) {
	return watch(ctx, r, r.Interviews, r.store.Interviews.Name())
}

func (r *Repository) WatchOffers(ctx context.Context) (*livequery.Subscription[[]domain.Offer], error) {
	return watch(ctx, r, r.Offers, r.store.Offers.Name())
}

func (r *Repository) WatchTasks(ctx context.Context) (*livequery.Subscription[[]domain.Task], error) {
	return watch(ctx, r, r.Tasks, r.store.Tasks.Name())
}

func (r *Repository) WatchEmailDrafts(ctx context.Context) (*livequery.Subscription[[]domain.EmailDraft], error) {
	return watch(ctx, r, r.EmailDrafts, r.store.EmailDrafts.Name())
}
