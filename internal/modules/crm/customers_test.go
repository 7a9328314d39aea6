package crm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/modules/automation"
	"cnkcrm/internal/modules/crm"
	"cnkcrm/internal/store"
)

func TestAddCustomerForcesPotentialStage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, stage := range domain.Stages {
		id, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Co " + string(stage), Stage: stage})
		require.NoError(t, err)

		got, err := f.repo.GetCustomer(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StagePotential, got.Stage, "input stage %s", stage)
	}
}

func TestAddCustomerScenario(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Test Co"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := f.repo.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Test Co", got.Name)
	assert.Equal(t, domain.StagePotential, got.Stage)
	assert.True(t, got.CreatedAt.Equal(t0))

	added := f.withKey(t, "activityCustomerAdded")
	require.Len(t, added, 1)
	assert.Equal(t, domain.NotifCustomer, added[0].Type)
	assert.Equal(t, &domain.Link{Page: domain.PageCustomers, ID: id}, added[0].Link)
	assert.Equal(t, "Test Co", added[0].Replacements["name"])
}

func TestUpdateCustomerIsSilent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Acme"})
	require.NoError(t, err)
	before := len(f.unread(t))

	c, err := f.repo.GetCustomer(ctx, id)
	require.NoError(t, err)
	c.Email = "info@acme.com"
	require.NoError(t, f.repo.UpdateCustomer(ctx, *c))

	got, err := f.repo.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "info@acme.com", got.Email)
	assert.Len(t, f.unread(t), before)
}

func TestUpdateCustomerRejectsUnknownStage(t *testing.T) {
	f := setup(t)

	err := f.repo.UpdateCustomer(context.Background(), domain.Customer{ID: "c1", Name: "Acme", Stage: "closed"})
	assert.ErrorIs(t, err, crm.ErrInvalidStage)
}

func TestStageChangeToProposalCreatesOneTask(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Test Co"})
	require.NoError(t, err)

	require.NoError(t, f.repo.UpdateCustomerStage(ctx, id, domain.StageProposal, "U1"))

	got, err := f.repo.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageProposal, got.Stage)

	tasks, err := f.repo.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.Equal(t, "U1", task.AssignedTo)
	assert.Equal(t, domain.SystemAutomation, task.CreatedBy)
	assert.Equal(t, id, task.CustomerID)
	assert.Equal(t, domain.TaskPending, task.Status)
	assert.True(t, task.DueDate.Equal(automation.DueDate(t0, 3)), "due %s", task.DueDate)

	created := f.withKey(t, "automationTaskCreated")
	require.Len(t, created, 1)
	assert.Equal(t, domain.PageTasks, created[0].Link.Page)
	assert.Equal(t, "Test Co", created[0].Replacements["customerName"])
}

func TestStageChangeToOtherStagesCreatesNoTasks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Test Co"})
	require.NoError(t, err)

	for _, stage := range []domain.Stage{domain.StageContacted, domain.StageNegotiation, domain.StageWon, domain.StageLost, domain.StagePotential} {
		require.NoError(t, f.repo.UpdateCustomerStage(ctx, id, stage, "U1"))
	}

	tasks, err := f.repo.Tasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Empty(t, f.withKey(t, "automationTaskCreated"))
}

func TestRepeatedProposalTransitionsDuplicateTasks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Test Co"})
	require.NoError(t, err)
	require.NoError(t, f.repo.UpdateCustomerStage(ctx, id, domain.StageProposal, "U1"))
	require.NoError(t, f.repo.UpdateCustomerStage(ctx, id, domain.StageProposal, "U1"))

	tasks, err := f.repo.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestStageChangeUnknownCustomerIsNoop(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.repo.UpdateCustomerStage(ctx, "ghost", domain.StageProposal, "U1"))

	tasks, err := f.repo.Tasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestStageChangeRejectsInvalidStage(t *testing.T) {
	f := setup(t)

	err := f.repo.UpdateCustomerStage(context.Background(), "c1", "closed", "U1")
	assert.ErrorIs(t, err, crm.ErrInvalidStage)
}

type mockAutomation struct {
	mock.Mock
}

func (m *mockAutomation) RunForStageChange(ctx context.Context, customerID string, stage domain.Stage, actingUserID string) (automation.Result, error) {
	args := m.Called(ctx, customerID, stage, actingUserID)
	return args.Get(0).(automation.Result), args.Error(1)
}

func TestAutomationFailureKeepsCommittedStage(t *testing.T) {
	auto := new(mockAutomation)
	f := setup(t, crm.WithAutomation(auto))
	ctx := context.Background()

	id, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Test Co"})
	require.NoError(t, err)

	boom := errors.New("boom")
	partial := automation.Result{Notifications: []domain.NotificationDraft{{MessageKey: "partialStep", Type: domain.NotifSystem}}}
	auto.On("RunForStageChange", mock.Anything, id, domain.StageProposal, "U1").Return(partial, boom)

	err = f.repo.UpdateCustomerStage(ctx, id, domain.StageProposal, "U1")
	assert.ErrorIs(t, err, crm.ErrAutomation)
	assert.ErrorIs(t, err, boom)

	got, err := f.repo.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageProposal, got.Stage)
	assert.Len(t, f.withKey(t, "partialStep"), 1)
	auto.AssertExpectations(t)
}

func TestCustomAutomationRules(t *testing.T) {
	won := automation.Rule{
		Name:  "won",
		Stage: domain.StageWon,
		Effect: func(ctx context.Context, tasks automation.TaskCreator, trig automation.Trigger) (automation.Outcome, error) {
			id, err := tasks.AddTask(ctx, domain.Task{Title: "Send thank you", AssignedTo: trig.ActingUserID, CreatedBy: domain.SystemAutomation, DueDate: trig.At})
			return automation.Outcome{TaskIDs: []string{id}}, err
		},
	}
	f := setup(t, crm.WithAutomationRules(won))
	ctx := context.Background()

	id, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Test Co"})
	require.NoError(t, err)
	require.NoError(t, f.repo.UpdateCustomerStage(ctx, id, domain.StageProposal, "U1"))
	require.NoError(t, f.repo.UpdateCustomerStage(ctx, id, domain.StageWon, "U1"))

	tasks, err := f.repo.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Send thank you", tasks[0].Title)
}

func TestBulkAddCustomersSkipsExistingMatches(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Acme", Email: "sales@acme.com"})
	require.NoError(t, err)

	added, err := f.repo.BulkAddCustomers(ctx, []domain.Customer{
		{Name: "acme"},
		{Name: "Acme Holding", Email: "SALES@ACME.COM"},
		{Name: "Brand New", Email: "hello@brandnew.io", Stage: domain.StageWon},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	customers, err := f.repo.Customers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	for _, c := range customers {
		assert.Equal(t, domain.StagePotential, c.Stage)
	}
}

func TestBulkAddCustomersKeepsInBatchDuplicates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	added, err := f.repo.BulkAddCustomers(ctx, []domain.Customer{{Name: "Beta Ltd"}, {Name: "BETA LTD"}})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	customers, err := f.repo.Customers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 2)
}

func TestBulkAddCustomersEmptyEmailDoesNotMatch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "No Mail"})
	require.NoError(t, err)

	added, err := f.repo.BulkAddCustomers(ctx, []domain.Customer{{Name: "Other No Mail"}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
}

func TestCustomersNewestFirst(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "First"})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	second, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Second"})
	require.NoError(t, err)

	customers, err := f.repo.Customers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, second, customers[0].ID)
	assert.Equal(t, first, customers[1].ID)
}

func TestDeleteCustomerIsSilentAndIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Gone"})
	require.NoError(t, err)
	before := len(f.unread(t))

	require.NoError(t, f.repo.DeleteCustomer(ctx, id))
	require.NoError(t, f.repo.DeleteCustomer(ctx, id))

	_, err = f.repo.GetCustomer(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Len(t, f.unread(t), before)
}

type failingNotifier struct{}

func (failingNotifier) Add(context.Context, domain.NotificationDraft) (*domain.Notification, error) {
	return nil, &store.StorageError{Op: "add", Table: "notifications", Err: errors.New("quota exceeded")}
}

func TestNotificationFailureIsReportedAfterCommit(t *testing.T) {
	f := setup(t)
	repo := crm.NewRepository(f.store, f.hub, failingNotifier{}, zaptest.NewLogger(t))
	ctx := context.Background()

	id, err := repo.AddCustomer(ctx, domain.Customer{Name: "Acme"})
	assert.ErrorIs(t, err, crm.ErrNotifyFailed)
	assert.ErrorIs(t, err, store.ErrStorage)
	require.NotEmpty(t, id)

	_, err = repo.GetCustomer(ctx, id)
	assert.NoError(t, err)
}

func TestAddCustomerTrustsCaller(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id, err := f.repo.AddCustomer(ctx, domain.Customer{Name: "Acme", Email: "not-an-email"})
	require.NoError(t, err)

	c, err := f.repo.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "not-an-email", c.Email)
}
