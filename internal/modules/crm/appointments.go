package crm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/store"
)

// AddAppointment stores the appointment and returns its id.
func (r *Repository) AddAppointment(ctx context.Context, a domain.Appointment) (id string, err error) {
	ctx, span := r.startSpan(ctx, "AddAppointment")
	defer func() { endSpan(span, err) }()

	a.ID = r.newID()
	a.CreatedAt = r.now()
	if a.Reminder == "" {
		a.Reminder = domain.ReminderNone
	}
	if a.End.IsZero() {
		a.End = a.Start
	}
	if err := r.store.Appointments.Add(ctx, &a); err != nil {
		return "", fmt.Errorf("add appointment: %w", err)
	}
	r.log.Info("appointment added", zap.String("appointment_id", a.ID), zap.Time("start", a.Start))

	return a.ID, r.notify(ctx, domain.NotificationDraft{
		MessageKey:   "activityAppointmentAdded",
		Replacements: map[string]string{"title": a.Title},
		Type:         domain.NotifAppointment,
		Link:         &domain.Link{Page: domain.PageAppointments, ID: a.ID},
	})
}

func (r *Repository) UpdateAppointment(ctx context.Context, a domain.Appointment) error {
	if err := r.store.Appointments.Put(ctx, &a); err != nil {
		return fmt.Errorf("update appointment %s: %w", a.ID, err)
	}
	return nil
}

func (r *Repository) DeleteAppointment(ctx context.Context, id string) error {
	if err := r.store.Appointments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete appointment %s: %w", id, err)
	}
	return nil
}

func (r *Repository) GetAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	return r.store.Appointments.Get(ctx, id)
}

// Appointments lists appointments by start time.
func (r *Repository) Appointments(ctx context.Context) ([]domain.Appointment, error) {
	return r.store.Appointments.All(ctx, "starts_at", false)
}

func (r *Repository) AppointmentsForCustomer(ctx context.Context, customerID string) ([]domain.Appointment, error) {
	return r.store.Appointments.Find(ctx, store.Query{Index: "customer_id", Equals: customerID, OrderBy: "starts_at"})
}
