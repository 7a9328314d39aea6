package crm

import (
	"context"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/modules/automation"
)

// Notifier records notifications emitted by mutations.
type Notifier interface {
	Add(ctx context.Context, d domain.NotificationDraft) (*domain.Notification, error)
}

// StageAutomation reacts to funnel stage changes.
type StageAutomation interface {
	RunForStageChange(ctx context.Context, customerID string, stage domain.Stage, actingUserID string) (automation.Result, error)
}
