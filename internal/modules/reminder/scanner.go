package reminder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/pkg/utils"
	"cnkcrm/internal/pkg/worker"
	"cnkcrm/internal/store"
)

const unknownCustomer = "Bilinmeyen Müşteri"

type Appointments interface {
	Appointments(ctx context.Context) ([]domain.Appointment, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
}

type Notifier interface {
	Add(ctx context.Context, d domain.NotificationDraft) (*domain.Notification, error)
}

type SettingTable interface {
	Get(ctx context.Context, key string) (*domain.Setting, error)
	Put(ctx context.Context, s *domain.Setting) error
}

// Scanner records a reminder notification once per appointment when the
// reminder window opens.
type Scanner struct {
	appts    Appointments
	notifier Notifier
	settings SettingTable
	loc      *time.Location
	log      *zap.Logger
	now      clock.Clock

	mu sync.Mutex
}

func NewScanner(appts Appointments, notifier Notifier, settings SettingTable, loc *time.Location, log *zap.Logger, now clock.Clock) *Scanner {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = clock.System
	}
	return &Scanner{appts: appts, notifier: notifier, settings: settings, loc: loc, log: log, now: now}
}

// Due reports whether a reminder for a should fire at now.
func Due(a domain.Appointment, now time.Time) bool {
	offset, ok := a.Reminder.Offset()
	if !ok {
		return false
	}
	return !now.Before(a.Start.Add(-offset)) && now.Before(a.Start)
}

// Scan checks every appointment once and returns how many reminders fired.
func (s *Scanner) Scan(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notified, err := s.notified(ctx)
	if err != nil {
		return 0, err
	}
	appts, err := s.appts.Appointments(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	fired := 0
	for _, a := range appts {
		if slices.Contains(notified, a.ID) || !Due(a, now) {
			continue
		}
		if _, err := s.notifier.Add(ctx, s.draft(ctx, a)); err != nil {
			return fired, fmt.Errorf("reminder for %s: %w", a.ID, err)
		}
		notified = append(notified, a.ID)
		fired++
		if err := s.save(ctx, notified); err != nil {
			return fired, err
		}
		s.log.Info("appointment reminder sent", zap.String("appointment_id", a.ID), zap.Time("start", a.Start))
	}
	return fired, nil
}

// Schedule scans immediately and then every interval.
func (s *Scanner) Schedule(ctx context.Context, interval time.Duration) *worker.Job {
	return worker.Schedule(ctx, s.log, worker.Config{Name: "appointment-reminders", Interval: interval, Enabled: true}, func(ctx context.Context) error {
		_, err := s.Scan(ctx)
		return err
	})
}

func (s *Scanner) draft(ctx context.Context, a domain.Appointment) domain.NotificationDraft {
	name := unknownCustomer
	if c, err := s.appts.GetCustomer(ctx, a.CustomerID); err == nil {
		name = c.Name
	}
	return domain.NotificationDraft{
		MessageKey: "appointmentReminder",
		Replacements: map[string]string{
			"title":    a.Title,
			"customer": name,
			"time":     a.Start.In(s.loc).Format("15:04"),
		},
		Type: domain.NotifAppointment,
		Link: &domain.Link{Page: domain.PageAppointments, ID: a.ID},
	}
}

func (s *Scanner) notified(ctx context.Context) ([]string, error) {
	row, err := s.settings.Get(ctx, domain.SettingNotifiedAppointments)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return utils.StringToIDs(row.Value), nil
}

func (s *Scanner) save(ctx context.Context, ids []string) error {
	return s.settings.Put(ctx, &domain.Setting{
		Key:       domain.SettingNotifiedAppointments,
		Value:     utils.IDsToString(ids),
		UpdatedAt: s.now(),
	})
}
