package reconciliation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/livequery"
	"cnkcrm/internal/modules/reconciliation"
	"cnkcrm/internal/pkg/ai"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/store"
	"cnkcrm/internal/store/storetest"
)

type mockBalance struct {
	mock.Mock
}

func (m *mockBalance) FetchAccountBalance(ctx context.Context, customerID, period string) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID, period)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*reconciliation.Service, *store.Store, *mockBalance, *mockGenerator) {
	t.Helper()
	hub := livequery.NewHub()
	s := storetest.New(t, hub)
	require.NoError(t, s.Customers.Add(context.Background(), &domain.Customer{ID: "1", Name: "Acme", Stage: domain.StagePotential, CreatedAt: now}))
	bal := new(mockBalance)
	gen := new(mockGenerator)
	clk := clock.NewManual(now)
	svc := reconciliation.NewService(s, bal, ai.NewClient(gen, zap.NewNop()), hub, zap.NewNop(), clk.Now)
	return svc, s, bal, gen
}

func TestLastMonth(t *testing.T) {
	assert.Equal(t, "2024-02", reconciliation.LastMonth(func() time.Time { return now }))
	assert.Equal(t, "2023-12", reconciliation.LastMonth(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }))
}

func TestCreateFetchesBalanceForLastMonth(t *testing.T) {
	svc, s, bal, _ := setup(t)
	ctx := context.Background()
	bal.On("FetchAccountBalance", mock.Anything, "1", "2024-02").Return(decimal.RequireFromString("19920.00"), nil)

	id, err := svc.Create(ctx, reconciliation.Input{CustomerID: "1", CreatedBy: "2"})
	require.NoError(t, err)

	r, err := s.Reconciliations.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2024-02", r.Period)
	assert.Equal(t, domain.ReconciliationCurrentAccount, r.Type)
	assert.Equal(t, domain.ReconciliationPending, r.Status)
	assert.Equal(t, "19920.00", r.Amount.StringFixed(2))
	bal.AssertExpectations(t)
}

func TestCreateWithExplicitAmount(t *testing.T) {
	svc, s, bal, _ := setup(t)
	amount := decimal.NewFromInt(500)

	id, err := svc.Create(context.Background(), reconciliation.Input{CustomerID: "1", Type: domain.ReconciliationBA, Period: "2024-01", Amount: &amount})
	require.NoError(t, err)

	r, err := s.Reconciliations.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, r.Amount.Equal(amount))
	bal.AssertNotCalled(t, "FetchAccountBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordResponse(t *testing.T) {
	svc, s, _, gen := setup(t)
	ctx := context.Background()
	amount := decimal.NewFromInt(500)
	id, err := svc.Create(ctx, reconciliation.Input{CustomerID: "1", Period: "2024-01", Amount: &amount})
	require.NoError(t, err)

	gen.On("GenerateText", mock.Anything, mock.Anything).Return("Fatura FTR-2 eksik.", nil).Once()
	require.NoError(t, svc.RecordResponse(ctx, id, "Tutar hatalı"))

	r, err := s.Reconciliations.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ReconciliationDisagreed, r.Status)
	assert.Equal(t, "Tutar hatalı", r.CustomerResponse)
	assert.Equal(t, "Fatura FTR-2 eksik.", r.AIAnalysis)
}

func TestRecordResponseKeepsTextWhenAIFails(t *testing.T) {
	svc, s, _, gen := setup(t)
	ctx := context.Background()
	amount := decimal.NewFromInt(500)
	id, err := svc.Create(ctx, reconciliation.Input{CustomerID: "1", Period: "2024-01", Amount: &amount})
	require.NoError(t, err)

	gen.On("GenerateText", mock.Anything, mock.Anything).Return("", errors.New("down"))
	require.NoError(t, svc.RecordResponse(ctx, id, "Tutar hatalı"))

	r, err := s.Reconciliations.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tutar hatalı", r.CustomerResponse)
	assert.Empty(t, r.AIAnalysis)
}

func TestDraftEmailStampsLastEmailSent(t *testing.T) {
	svc, s, _, gen := setup(t)
	ctx := context.Background()
	amount := decimal.NewFromInt(500)
	id, err := svc.Create(ctx, reconciliation.Input{CustomerID: "1", Period: "2024-01", Amount: &amount})
	require.NoError(t, err)

	gen.On("GenerateText", mock.Anything, mock.Anything).Return("Sayın Acme,", nil)
	text, err := svc.DraftEmail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Sayın Acme,", text)

	r, err := s.Reconciliations.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, r.LastEmailSent)
	assert.True(t, r.LastEmailSent.Equal(now))
}

func TestUpdateStatus(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateStatus(ctx, "missing", domain.ReconciliationAgreed), reconciliation.ErrNotFound)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, "missing", "closed"), reconciliation.ErrInvalidStatus)
}

func TestWatchSeesNewRecords(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()
	sub, err := svc.Watch(ctx)
	require.NoError(t, err)
	t.Cleanup(sub.Close)

	amount := decimal.NewFromInt(1)
	_, err = svc.Create(ctx, reconciliation.Input{CustomerID: "1", Amount: &amount})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(sub.Current()) == 1 }, 2*time.Second, 5*time.Millisecond)
}
