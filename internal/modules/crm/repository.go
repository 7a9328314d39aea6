package crm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/livequery"
	"cnkcrm/internal/modules/automation"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/store"
)

var tracer = otel.Tracer("cnkcrm/crm")

// Repository is the only mutation entry point for customers, appointments,
// interviews, offers, tasks and email drafts. Every significant mutation
// records a notification.
type Repository struct {
	store      *store.Store
	hub        *livequery.Hub
	notifier   Notifier
	automation StageAutomation
	log        *zap.Logger
	now        clock.Clock
	newID      func() string

	rules []automation.Rule
}

type Option func(*Repository)

func WithClock(now clock.Clock) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides uuid based identifiers.
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) { r.newID = gen }
}

// WithAutomation replaces the built in automation engine.
func WithAutomation(a StageAutomation) Option {
	return func(r *Repository) { r.automation = a }
}

// WithAutomationRules sets the rule table of the built in engine.
func WithAutomationRules(rules ...automation.Rule) Option {
	return func(r *Repository) { r.rules = rules }
}

// NewRepository wires the repository and, unless one is supplied, an
// automation engine that creates its tasks through this repository.
func NewRepository(s *store.Store, hub *livequery.Hub, notifier Notifier, log *zap.Logger, opts ...Option) *Repository {
	r := &Repository{
		store:    s,
		hub:      hub,
		notifier: notifier,
		log:      log,
		now:      clock.System,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.automation == nil {
		engineOpts := []automation.Option{automation.WithClock(r.now)}
		if r.rules != nil {
			engineOpts = append(engineOpts, automation.WithRules(r.rules...))
		}
		r.automation = automation.NewEngine(r, r, log.Named("automation"), engineOpts...)
	}
	return r
}

func (r *Repository) notify(ctx context.Context, d domain.NotificationDraft) error {
	if _, err := r.notifier.Add(ctx, d); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotifyFailed, d.MessageKey, err)
	}
	return nil
}

func (r *Repository) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "crm."+name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
