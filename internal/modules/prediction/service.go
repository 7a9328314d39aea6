package prediction

import (
	"context"
	"fmt"
	"time"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/pkg/clock"
)

type Kind string

const (
	KindOpportunity Kind = "opportunity"
	KindRisk        Kind = "risk"
)

const (
	recentAppointmentWindow = 14 * 24 * time.Hour
	opportunityProbability  = 0.75
	riskProbability         = 0.40
)

type Insight struct {
	Kind         Kind    `json:"type"`
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Reason       string  `json:"reason"`
	Probability  float64 `json:"probability"`
}

// Reader is the read side of the CRM repository used for scoring.
type Reader interface {
	Customers(ctx context.Context) ([]domain.Customer, error)
	CustomersInStage(ctx context.Context, stage domain.Stage) ([]domain.Customer, error)
	AppointmentsForCustomer(ctx context.Context, customerID string) ([]domain.Appointment, error)
	OffersForCustomer(ctx context.Context, customerID string) ([]domain.Offer, error)
	InterviewsForCustomer(ctx context.Context, customerID string) ([]domain.Interview, error)
}

// Service scores customers with fixed heuristics.
type Service struct {
	reader Reader
	now    clock.Clock
}

func NewService(reader Reader, now clock.Clock) *Service {
	if now == nil {
		now = clock.System
	}
	return &Service{reader: reader, now: now}
}

// Opportunities lists negotiation stage customers with an appointment that
// started within the last 14 days.
func (s *Service) Opportunities(ctx context.Context) ([]Insight, error) {
	customers, err := s.reader.CustomersInStage(ctx, domain.StageNegotiation)
	if err != nil {
		return nil, err
	}
	since := s.now().Add(-recentAppointmentWindow)

	var out []Insight
	for _, c := range customers {
		appts, err := s.reader.AppointmentsForCustomer(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if len(appts) == 0 || !latestStart(appts).After(since) {
			continue
		}
		out = append(out, Insight{
			Kind:         KindOpportunity,
			CustomerID:   c.ID,
			CustomerName: c.Name,
			Reason:       "Müzakere aşamasında ve son 14 günde randevusu var.",
			Probability:  opportunityProbability,
		})
	}
	return out, nil
}

// AtRisk lists active customers whose most recent contact is older than
// days. Offers, interviews and appointments count as contact, and so does
// the customer's own creation.
func (s *Service) AtRisk(ctx context.Context, days int) ([]Insight, error) {
	customers, err := s.reader.Customers(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := s.now().AddDate(0, 0, -days)

	var out []Insight
	for _, c := range customers {
		if c.Status != domain.CustomerActive {
			continue
		}
		last, err := s.lastContact(ctx, c)
		if err != nil {
			return nil, err
		}
		if !last.Before(cutoff) {
			continue
		}
		out = append(out, Insight{
			Kind:         KindRisk,
			CustomerID:   c.ID,
			CustomerName: c.Name,
			Reason:       fmt.Sprintf("Son %d gündür etkileşim kurulmadı.", days),
			Probability:  riskProbability,
		})
	}
	return out, nil
}

func (s *Service) lastContact(ctx context.Context, c domain.Customer) (time.Time, error) {
	last := c.CreatedAt
	later := func(t time.Time) {
		if t.After(last) {
			last = t
		}
	}

	offers, err := s.reader.OffersForCustomer(ctx, c.ID)
	if err != nil {
		return last, err
	}
	for _, o := range offers {
		later(o.CreatedAt)
	}
	interviews, err := s.reader.InterviewsForCustomer(ctx, c.ID)
	if err != nil {
		return last, err
	}
	for _, iv := range interviews {
		later(iv.CreatedAt)
	}
	appts, err := s.reader.AppointmentsForCustomer(ctx, c.ID)
	if err != nil {
		return last, err
	}
	for _, a := range appts {
		later(a.CreatedAt)
	}
	return last, nil
}

func latestStart(appts []domain.Appointment) time.Time {
	var latest time.Time
	for _, a := range appts {
		if a.Start.After(latest) {
			latest = a.Start
		}
	}
	return latest
}
