package crm

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/store"
)

const (
	offerCodePrefix = "TEK-"
	base36Digits    = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// offerCode builds the display code from the last six digits of the
// millisecond clock, optionally followed by two random base36 characters.
func (r *Repository) offerCode(withSuffix bool) string {
	ms := strconv.FormatInt(r.now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	code := offerCodePrefix + ms
	if withSuffix {
		code += string([]byte{base36Digits[rand.IntN(36)], base36Digits[rand.IntN(36)]})
	}
	return code
}

// uniqueOfferCode returns the plain code unless an offer already uses it.
func (r *Repository) uniqueOfferCode(ctx context.Context) (string, error) {
	code := r.offerCode(false)
	for attempt := 0; attempt < 5; attempt++ {
		taken, err := r.store.Offers.Find(ctx, store.Query{Index: "teklif_no", Equals: code, Limit: 1})
		if err != nil {
			return "", err
		}
		if len(taken) == 0 {
			return code, nil
		}
		code = r.offerCode(true)
	}
	return code, nil
}

// AddOffer assigns the offer code, computes totals, stores the offer and
// returns its id.
func (r *Repository) AddOffer(ctx context.Context, o domain.Offer) (id string, err error) {
	ctx, span := r.startSpan(ctx, "AddOffer")
	defer func() { endSpan(span, err) }()

	code, err := r.uniqueOfferCode(ctx)
	if err != nil {
		return "", fmt.Errorf("add offer: %w", err)
	}
	o.ID = r.newID()
	o.CreatedAt = r.now()
	o.TeklifNo = code
	o.CalculateTotals()
	if err := r.store.Offers.Add(ctx, &o); err != nil {
		return "", fmt.Errorf("add offer: %w", err)
	}
	r.log.Info("offer added",
		zap.String("offer_id", o.ID),
		zap.String("teklif_no", o.TeklifNo),
		zap.String("total", o.GenelToplam.StringFixed(2)),
	)

	return o.ID, r.notify(ctx, domain.NotificationDraft{
		MessageKey:   "activityOfferAdded",
		Replacements: map[string]string{"teklifNo": o.TeklifNo},
		Type:         domain.NotifOffer,
		Link:         &domain.Link{Page: domain.PageOffers, ID: o.ID},
	})
}

// BulkAddOffers stores every candidate without de-duplication and returns
// how many were inserted.
func (r *Repository) BulkAddOffers(ctx context.Context, candidates []domain.Offer) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}
	now := r.now()
	offers := make([]domain.Offer, len(candidates))
	for i, o := range candidates {
		o.ID = r.newID()
		o.CreatedAt = now
		o.TeklifNo = r.offerCode(true)
		o.CalculateTotals()
		offers[i] = o
	}

	added, err := r.store.Offers.BulkAdd(ctx, offers)
	r.log.Info("offers imported", zap.Int("candidates", len(candidates)), zap.Int("added", added))
	if err != nil {
		return added, fmt.Errorf("bulk add offers: %w", err)
	}
	return added, nil
}

// UpdateOffer recomputes totals and replaces the stored offer.
func (r *Repository) UpdateOffer(ctx context.Context, o domain.Offer) error {
	o.CalculateTotals()
	if err := r.store.Offers.Put(ctx, &o); err != nil {
		return fmt.Errorf("update offer %s: %w", o.ID, err)
	}
	return nil
}

func (r *Repository) DeleteOffer(ctx context.Context, id string) error {
	if err := r.store.Offers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete offer %s: %w", id, err)
	}
	return nil
}

func (r *Repository) GetOffer(ctx context.Context, id string) (*domain.Offer, error) {
	return r.store.Offers.Get(ctx, id)
}

// Offers lists offers newest first.
func (r *Repository) Offers(ctx context.Context) ([]domain.Offer, error) {
	return r.store.Offers.All(ctx, "created_at", true)
}

func (r *Repository) OffersForCustomer(ctx context.Context, customerID string) ([]domain.Offer, error) {
	return r.store.Offers.Find(ctx, store.Query{Index: "customer_id", Equals: customerID, OrderBy: "created_at", Desc: true})
}

// OffersCreatedBefore lists offers created strictly before t.
func (r *Repository) OffersCreatedBefore(ctx context.Context, t time.Time) ([]domain.Offer, error) {
	return r.store.Offers.Find(ctx, store.Query{Index: "created_at", Before: t, OrderBy: "created_at"})
}
