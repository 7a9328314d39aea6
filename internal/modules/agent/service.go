package agent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/modules/prediction"
	"cnkcrm/internal/pkg/ai"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/pkg/worker"
	"cnkcrm/internal/store"
)

const generatedByAgent = "ai_agent"

// CRM is the part of the repository the agent reads and writes.
type CRM interface {
	OffersCreatedBefore(ctx context.Context, t time.Time) ([]domain.Offer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	HasDraftFor(ctx context.Context, objectID string) (bool, error)
	AddEmailDraft(ctx context.Context, d domain.EmailDraft) (string, error)
}

type Notifier interface {
	Add(ctx context.Context, d domain.NotificationDraft) (*domain.Notification, error)
}

type RiskFinder interface {
	AtRisk(ctx context.Context, days int) ([]prediction.Insight, error)
}

// SettingsTable holds per user agent settings.
type SettingsTable interface {
	Get(ctx context.Context, userID string) (*domain.AISettings, error)
	Put(ctx context.Context, s *domain.AISettings) error
}

// Agent drafts follow-up mails for stale offers and flags customers that
// went quiet, reporting both as notifications.
type Agent struct {
	crm      CRM
	ai       *ai.Client
	risks    RiskFinder
	notifier Notifier
	settings SettingsTable
	log      *zap.Logger
	now      clock.Clock
}

func New(crm CRM, aiClient *ai.Client, risks RiskFinder, notifier Notifier, settings SettingsTable, log *zap.Logger, now clock.Clock) *Agent {
	if now == nil {
		now = clock.System
	}
	return &Agent{crm: crm, ai: aiClient, risks: risks, notifier: notifier, settings: settings, log: log, now: now}
}

// Settings returns the user's settings, or the defaults when none are saved.
func (a *Agent) Settings(ctx context.Context, userID string) (domain.AISettings, error) {
	s, err := a.settings.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.DefaultAISettings(userID), nil
	}
	if err != nil {
		return domain.AISettings{}, err
	}
	return *s, nil
}

func (a *Agent) SaveSettings(ctx context.Context, s domain.AISettings) error {
	return a.settings.Put(ctx, &s)
}

// Run performs one pass for userID and returns the notifications it recorded.
func (a *Agent) Run(ctx context.Context, userID string) ([]domain.Notification, error) {
	settings, err := a.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	log := a.log.With(zap.String("user_id", userID))
	if !settings.IsAgentActive {
		log.Info("ai agent inactive")
		return nil, nil
	}
	log.Info("ai agent run started")

	var insights []domain.NotificationDraft
	var errs []error
	if settings.EnableFollowUpDrafts {
		found, err := a.followUps(ctx, settings.FollowUpDays)
		insights = append(insights, found...)
		errs = append(errs, err)
	}
	if settings.EnableAtRiskAlerts {
		found, err := a.atRisk(ctx, settings.AtRiskDays)
		insights = append(insights, found...)
		errs = append(errs, err)
	}

	recorded := make([]domain.Notification, 0, len(insights))
	for _, d := range insights {
		n, err := a.notifier.Add(ctx, d)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", d.MessageKey, err))
			continue
		}
		recorded = append(recorded, *n)
	}
	log.Info("ai agent run finished", zap.Int("insights", len(recorded)))
	return recorded, errors.Join(errs...)
}

// Schedule runs the agent for userID after delay and then every interval.
func (a *Agent) Schedule(ctx context.Context, userID string, delay, interval time.Duration) *worker.Job {
	return worker.Schedule(ctx, a.log, worker.Config{Name: "ai-agent", Delay: delay, Interval: interval, Enabled: true}, func(ctx context.Context) error {
		_, err := a.Run(ctx, userID)
		return err
	})
}

func (a *Agent) followUps(ctx context.Context, days int) ([]domain.NotificationDraft, error) {
	offers, err := a.crm.OffersCreatedBefore(ctx, a.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	var out []domain.NotificationDraft
	for _, o := range offers {
		has, err := a.crm.HasDraftFor(ctx, o.ID)
		if err != nil {
			return out, err
		}
		if has {
			continue
		}
		customer, err := a.crm.GetCustomer(ctx, o.CustomerID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return out, err
		}
		if customer.Email == "" {
			continue
		}

		res := a.ai.FollowUpEmail(ctx, o, customer)
		if !res.Success {
			a.log.Warn("follow-up draft skipped", zap.String("offer_id", o.ID), zap.String("reason", res.Text))
			continue
		}
		draftID, err := a.crm.AddEmailDraft(ctx, domain.EmailDraft{
			RecipientEmail:    customer.Email,
			RecipientName:     customer.Name,
			Subject:           o.TeklifNo + " Numaralı Teklifimiz Hakkında",
			Body:              res.Text,
			Status:            domain.DraftPending,
			RelatedObjectType: "offer",
			RelatedObjectID:   o.ID,
			GeneratedBy:       generatedByAgent,
		})
		if err != nil {
			return out, err
		}
		out = append(out, domain.NotificationDraft{
			MessageKey:   "aiInsightFollowUpWithDraft",
			Replacements: map[string]string{"teklifNo": o.TeklifNo, "customerName": customer.Name},
			Type:         domain.NotifOffer,
			Link:         &domain.Link{Page: domain.PageEmailDrafts, ID: draftID},
		})
	}
	return out, nil
}

func (a *Agent) atRisk(ctx context.Context, days int) ([]domain.NotificationDraft, error) {
	risks, err := a.risks.AtRisk(ctx, days)
	if err != nil {
		return nil, err
	}
	out := make([]domain.NotificationDraft, 0, len(risks))
	for _, r := range risks {
		out = append(out, domain.NotificationDraft{
			MessageKey:   "aiInsightAtRiskCustomer",
			Replacements: map[string]string{"customerName": r.CustomerName, "days": strconv.Itoa(days)},
			Type:         domain.NotifCustomer,
			Link:         &domain.Link{Page: domain.PageCustomers, ID: r.CustomerID},
		})
	}
	return out, nil
}
