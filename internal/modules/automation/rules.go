package automation

import (
	"context"
	"fmt"
	"time"

	"cnkcrm/internal/domain"
)

// Trigger is the stage transition a rule reacts to.
type Trigger struct {
	Customer     *domain.Customer
	Stage        domain.Stage
	ActingUserID string
	At           time.Time
}

// Outcome lists what a rule produced.
type Outcome struct {
	TaskIDs       []string
	Notifications []domain.NotificationDraft
}

// Effect performs a rule's side effects.
type Effect func(ctx context.Context, tasks TaskCreator, trig Trigger) (Outcome, error)

// Rule maps a target stage to an effect.
type Rule struct {
	Name   string
	Stage  domain.Stage
	Effect Effect
}

const proposalFollowUpDays = 3

// ProposalFollowUp schedules a follow-up task three days after a customer enters proposal.
var ProposalFollowUp = Rule{
	Name:   "proposal-follow-up",
	Stage:  domain.StageProposal,
	Effect: proposalFollowUp,
}

// DefaultRules is the rule table a new engine starts with.
func DefaultRules() []Rule {
	return []Rule{ProposalFollowUp}
}

func proposalFollowUp(ctx context.Context, tasks TaskCreator, trig Trigger) (Outcome, error) {
	name := trig.Customer.Name
	id, err := tasks.AddTask(ctx, domain.Task{
		Title:       fmt.Sprintf("%s için Teklif Takibi", name),
		Description: fmt.Sprintf("%s firmasına gönderilen teklifin %d gün içinde takibini yap.", name, proposalFollowUpDays),
		Status:      domain.TaskPending,
		DueDate:     DueDate(trig.At, proposalFollowUpDays),
		AssignedTo:  trig.ActingUserID,
		CreatedBy:   domain.SystemAutomation,
		CustomerID:  trig.Customer.ID,
	})
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		TaskIDs: []string{id},
		Notifications: []domain.NotificationDraft{{
			MessageKey:   "automationTaskCreated",
			Replacements: map[string]string{"customerName": name},
			Type:         domain.NotifSystem,
			Link:         &domain.Link{Page: domain.PageTasks},
		}},
	}, nil
}

// DueDate returns the UTC calendar day days after at.
func DueDate(at time.Time, days int) time.Time {
	at = at.UTC()
	return time.Date(at.Year(), at.Month(), at.Day()+days, 0, 0, 0, 0, time.UTC)
}
