package automation

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/observability/metrics"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/store"
)

var tracer = otel.Tracer("cnkcrm/automation")

// Result carries the notifications the caller should relay.
type Result struct {
	TaskIDs       []string
	Notifications []domain.NotificationDraft
}

// Engine evaluates stage change rules. It holds no state of its own.
type Engine struct {
	customers CustomerReader
	tasks     TaskCreator
	rules     map[domain.Stage][]Rule
	log       *zap.Logger
	now       clock.Clock
}

type Option func(*Engine)

func WithClock(now clock.Clock) Option {
	return func(e *Engine) { e.now = now }
}

// WithRules replaces the default rule table.
func WithRules(rules ...Rule) Option {
	return func(e *Engine) {
		e.rules = make(map[domain.Stage][]Rule)
		for _, r := range rules {
			e.rules[r.Stage] = append(e.rules[r.Stage], r)
		}
	}
}

// NewEngine creates automation engine
func NewEngine(customers CustomerReader, tasks TaskCreator, log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		customers: customers,
		tasks:     tasks,
		log:       log,
		now:       clock.System,
	}
	WithRules(DefaultRules()...)(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register appends a rule to the table.
func (e *Engine) Register(r Rule) {
	e.rules[r.Stage] = append(e.rules[r.Stage], r)
}

// RunForStageChange applies every rule registered for stage. A missing
// customer yields an empty result. Rules run in registration order; when one
// fails, the outcomes of the rules before it are returned with the error.
func (e *Engine) RunForStageChange(ctx context.Context, customerID string, stage domain.Stage, actingUserID string) (Result, error) {
	ctx, span := tracer.Start(ctx, "automation.RunForStageChange")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer.id", customerID),
		attribute.String("stage", string(stage)),
	)

	var result Result
	rules := e.rules[stage]
	if len(rules) == 0 {
		metrics.ObserveAutomation(string(stage), "noop")
		return result, nil
	}

	customer, err := e.customers.GetCustomer(ctx, customerID)
	if errors.Is(err, store.ErrNotFound) {
		e.log.Warn("automation: customer not found", zap.String("customer_id", customerID))
		metrics.ObserveAutomation(string(stage), "no_customer")
		return result, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "customer lookup failed")
		metrics.ObserveAutomation(string(stage), "error")
		return result, fmt.Errorf("automation: load customer %s: %w", customerID, err)
	}

	trig := Trigger{Customer: customer, Stage: stage, ActingUserID: actingUserID, At: e.now()}
	for _, rule := range rules {
		out, err := rule.Effect(ctx, e.tasks, trig)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, rule.Name)
			metrics.ObserveAutomation(string(stage), "error")
			e.log.Error("automation rule failed",
				zap.String("rule", rule.Name),
				zap.String("customer_id", customerID),
				zap.Error(err),
			)
			return result, fmt.Errorf("%w: %s: %w", ErrRuleFailed, rule.Name, err)
		}
		result.TaskIDs = append(result.TaskIDs, out.TaskIDs...)
		result.Notifications = append(result.Notifications, out.Notifications...)
		e.log.Info("automation rule applied",
			zap.String("rule", rule.Name),
			zap.String("customer_id", customerID),
			zap.Int("tasks", len(out.TaskIDs)),
		)
	}

	metrics.ObserveAutomation(string(stage), "ok")
	return result, nil
}
