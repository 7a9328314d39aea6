package erp

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/observability/metrics"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/pkg/utils"
	"cnkcrm/internal/store"
)

var ErrInvalidPeriod = errors.New("period must be YYYY-MM")

// Importer takes customers and offers coming from the ERP through the same
// path as manual imports.
type Importer interface {
	BulkAddCustomers(ctx context.Context, candidates []domain.Customer) (int, error)
	BulkAddOffers(ctx context.Context, candidates []domain.Offer) (int, error)
}

// Service syncs the simulated ERP into the local store.
type Service struct {
	store    *store.Store
	importer Importer
	log      *zap.Logger
	now      clock.Clock
	latency  time.Duration
	jitter   func() float64
}

type Option func(*Service)

func WithClock(now clock.Clock) Option {
	return func(s *Service) { s.now = now }
}

func WithLatency(d time.Duration) Option {
	return func(s *Service) { s.latency = d }
}

// WithJitter sets the source of the balance noise, a value in [-50, 50).
func WithJitter(f func() float64) Option {
	return func(s *Service) { s.jitter = f }
}

func NewService(s *store.Store, importer Importer, log *zap.Logger, opts ...Option) *Service {
	svc := &Service{
		store:    s,
		importer: importer,
		log:      log,
		now:      clock.System,
		jitter:   func() float64 { return (rand.Float64() - 0.5) * 100 },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) Settings(ctx context.Context) (*domain.ERPSettings, error) {
	return s.store.ERPSettings.Get(ctx, domain.ERPSettingsID)
}

func (s *Service) UpdateSettings(ctx context.Context, settings domain.ERPSettings) error {
	settings.ID = domain.ERPSettingsID
	return s.store.ERPSettings.Put(ctx, &settings)
}

// SyncStock replaces the stock list and returns how many items were synced.
func (s *Service) SyncStock(ctx context.Context) (int, error) {
	now := s.now()
	items := make([]domain.StockItem, len(mockStock))
	for i, it := range mockStock {
		it.LastSync = now
		items[i] = it
	}
	if err := s.store.StockItems.BulkPut(ctx, items); err != nil {
		return 0, s.failed("stock", err)
	}
	return s.synced(ctx, "stock", "last_sync_stock", len(items))
}

func (s *Service) SyncInvoices(ctx context.Context) (int, error) {
	if err := s.store.Invoices.BulkPut(ctx, append([]domain.Invoice(nil), mockInvoices...)); err != nil {
		return 0, s.failed("invoices", err)
	}
	return s.synced(ctx, "invoices", "last_sync_invoices", len(mockInvoices))
}

// SyncCustomers imports ERP customers that are not already known and
// returns how many were added.
func (s *Service) SyncCustomers(ctx context.Context) (int, error) {
	added, err := s.importer.BulkAddCustomers(ctx, append([]domain.Customer(nil), mockCustomers...))
	if err != nil {
		return added, s.failed("customers", err)
	}
	return s.synced(ctx, "customers", "last_sync_customers", added)
}

// SyncOffers imports ERP offers for customers whose current code is known
// locally. Offers for unknown codes are skipped.
func (s *Service) SyncOffers(ctx context.Context) (int, error) {
	customers, err := s.store.Customers.All(ctx, "created_at", false)
	if err != nil {
		return 0, s.failed("offers", err)
	}
	byCode := make(map[string]string, len(customers))
	for _, c := range customers {
		if c.CurrentCode != "" {
			byCode[c.CurrentCode] = c.ID
		}
	}

	offers := make([]domain.Offer, 0, len(mockOffers))
	for _, m := range mockOffers {
		id, ok := byCode[m.customerCode]
		if !ok {
			s.log.Warn("erp offer for unknown customer code", zap.String("current_code", m.customerCode))
			continue
		}
		o := m.offer
		o.Items = append([]domain.OfferItem(nil), m.offer.Items...)
		o.CustomerID = id
		offers = append(offers, o)
	}

	added, err := s.importer.BulkAddOffers(ctx, offers)
	if err != nil {
		return added, s.failed("offers", err)
	}
	return s.synced(ctx, "offers", "last_sync_offers", added)
}

// FetchAccountBalance sums the customer's invoices dated up to the end of
// period (YYYY-MM), adds up to ±50 of noise, floors at zero and rounds to
// two decimals.
func (s *Service) FetchAccountBalance(ctx context.Context, customerID, period string) (decimal.Decimal, error) {
	if err := utils.Wait(ctx, s.latency); err != nil {
		return decimal.Zero, err
	}
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	end := start.AddDate(0, 1, 0)

	invoices, err := s.store.Invoices.Find(ctx, store.Query{Index: "customer_id", Equals: customerID})
	if err != nil {
		metrics.ObserveCollaboratorCall("erp", "error")
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for _, inv := range invoices {
		if inv.Date.Before(end) {
			balance = balance.Add(inv.TotalAmount)
		}
	}
	balance = balance.Add(decimal.NewFromFloat(s.jitter()))
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	metrics.ObserveCollaboratorCall("erp", "ok")
	return balance.Round(2), nil
}

func (s *Service) synced(ctx context.Context, kind, column string, n int) (int, error) {
	if err := utils.Wait(ctx, s.latency); err != nil {
		return n, err
	}
	err := s.store.ERPSettings.Update(ctx, domain.ERPSettingsID, map[string]any{column: s.now()})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return n, s.failed(kind, err)
	}
	metrics.ObserveCollaboratorCall("erp", "ok")
	s.log.Info("erp sync finished", zap.String("kind", kind), zap.Int("count", n))
	return n, nil
}

func (s *Service) failed(kind string, err error) error {
	metrics.ObserveCollaboratorCall("erp", "error")
	s.log.Error("erp sync failed", zap.String("kind", kind), zap.Error(err))
	return fmt.Errorf("erp sync %s: %w", kind, err)
}
