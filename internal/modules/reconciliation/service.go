package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/livequery"
	"cnkcrm/internal/pkg/ai"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/store"
)

var (
	ErrNotFound      = errors.New("reconciliation not found")
	ErrInvalidStatus = errors.New("invalid reconciliation status")
	ErrAIFailed      = errors.New("ai request failed")
)

// BalanceFetcher reads a customer's account balance for a YYYY-MM period.
type BalanceFetcher interface {
	FetchAccountBalance(ctx context.Context, customerID, period string) (decimal.Decimal, error)
}

// Input describes a new reconciliation. An empty Period means last month;
// a nil Amount is fetched from the ERP.
type Input struct {
	CustomerID string
	Type       domain.ReconciliationType
	Period     string
	Amount     *decimal.Decimal
	CreatedBy  string
	Notes      string
}

type Service struct {
	store   *store.Store
	balance BalanceFetcher
	ai      *ai.Client
	hub     *livequery.Hub
	log     *zap.Logger
	now     clock.Clock
}

func NewService(s *store.Store, balance BalanceFetcher, aiClient *ai.Client, hub *livequery.Hub, log *zap.Logger, now clock.Clock) *Service {
	if now == nil {
		now = clock.System
	}
	return &Service{store: s, balance: balance, ai: aiClient, hub: hub, log: log, now: now}
}

// LastMonth returns the YYYY-MM period before the month of now.
func LastMonth(now clock.Clock) string {
	t := now()
	return t.AddDate(0, 0, -t.Day()).Format("2006-01")
}

func (s *Service) Create(ctx context.Context, in Input) (string, error) {
	period := in.Period
	if period == "" {
		period = LastMonth(s.now)
	}
	kind := in.Type
	if kind == "" {
		kind = domain.ReconciliationCurrentAccount
	}

	var amount decimal.Decimal
	if in.Amount != nil {
		amount = *in.Amount
	} else {
		b, err := s.balance.FetchAccountBalance(ctx, in.CustomerID, period)
		if err != nil {
			return "", fmt.Errorf("fetch balance: %w", err)
		}
		amount = b
	}

	r := domain.Reconciliation{
		ID:         uuid.NewString(),
		CustomerID: in.CustomerID,
		Type:       kind,
		Period:     period,
		Amount:     amount,
		Status:     domain.ReconciliationPending,
		CreatedBy:  in.CreatedBy,
		Notes:      in.Notes,
		CreatedAt:  s.now(),
	}
	if err := s.store.Reconciliations.Add(ctx, &r); err != nil {
		return "", fmt.Errorf("add reconciliation: %w", err)
	}
	s.log.Info("reconciliation created",
		zap.String("reconciliation_id", r.ID),
		zap.String("customer_id", r.CustomerID),
		zap.String("period", period),
		zap.String("amount", amount.StringFixed(2)),
	)
	return r.ID, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.ReconciliationStatus) error {
	switch status {
	case domain.ReconciliationPending, domain.ReconciliationAgreed, domain.ReconciliationDisagreed:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.update(ctx, id, map[string]any{"status": status})
}

// RecordResponse stores the customer's objection, marks the record
// disagreed and attaches an AI analysis when one can be produced.
func (s *Service) RecordResponse(ctx context.Context, id, response string) error {
	fields := map[string]any{"customer_response": response, "status": domain.ReconciliationDisagreed}
	res := s.ai.AnalyzeDisagreement(ctx, response)
	if res.Success {
		fields["ai_analysis"] = res.Text
	} else {
		s.log.Warn("disagreement analysis skipped", zap.String("reconciliation_id", id), zap.String("reason", res.Text))
	}
	return s.update(ctx, id, fields)
}

// DraftEmail generates the mail text for a reconciliation and stamps
// lastEmailSent.
func (s *Service) DraftEmail(ctx context.Context, id string) (string, error) {
	r, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}
	customer, err := s.store.Customers.Get(ctx, r.CustomerID)
	if err != nil {
		return "", fmt.Errorf("customer %s: %w", r.CustomerID, err)
	}

	res := s.ai.ReconciliationEmail(ctx, *customer, r.Type, r.Period, r.Amount)
	if !res.Success {
		return "", fmt.Errorf("%w: %s", ErrAIFailed, res.Text)
	}
	if err := s.update(ctx, id, map[string]any{"last_email_sent": s.now()}); err != nil {
		return "", err
	}
	return res.Text, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Reconciliations.Delete(ctx, id)
}

// List returns reconciliations newest first.
func (s *Service) List(ctx context.Context) ([]domain.Reconciliation, error) {
	return s.store.Reconciliations.All(ctx, "created_at", true)
}

func (s *Service) Watch(ctx context.Context) (*livequery.Subscription[[]domain.Reconciliation], error) {
	return livequery.Watch(ctx, s.hub, s.List, []string{s.store.Reconciliations.Name()}, livequery.WithLogger(s.log))
}

func (s *Service) get(ctx context.Context, id string) (*domain.Reconciliation, error) {
	r, err := s.store.Reconciliations.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *Service) update(ctx context.Context, id string, fields map[string]any) error {
	err := s.store.Reconciliations.Update(ctx, id, fields)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
