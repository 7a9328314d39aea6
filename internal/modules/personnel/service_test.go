package personnel_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/modules/personnel"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/store/storetest"
)

func setup(t *testing.T) (*personnel.Service, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC))
	return personnel.NewService(storetest.New(t, nil), zap.NewNop(), clk.Now), clk
}

func TestLeaveLifecycle(t *testing.T) {
	svc, clk := setup(t)
	ctx := context.Background()

	first, err := svc.RequestLeave(ctx, "2", "Yıllık İzin", "2024-06-03", "2024-06-07", "Tatil")
	require.NoError(t, err)
	clk.Advance(time.Hour)
	second, err := svc.RequestLeave(ctx, "2", "Mazeret", "2024-06-10", "2024-06-10", "")
	require.NoError(t, err)
	_, err = svc.RequestLeave(ctx, "3", "Yıllık İzin", "2024-06-03", "2024-06-04", "")
	require.NoError(t, err)

	reqs, err := svc.LeaveRequests(ctx, "2")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, second, reqs[0].ID)
	assert.Equal(t, domain.LeavePending, reqs[0].Status)

	require.NoError(t, svc.Decide(ctx, first, domain.LeaveApproved))
	require.NoError(t, svc.Decide(ctx, second, domain.LeaveRejected))

	pending, err := svc.PendingLeaves(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	days, err := svc.UsedLeaveDays(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 5, days)
}

func TestLeaveValidation(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.RequestLeave(ctx, "2", "Yıllık İzin", "2024-06-07", "2024-06-03", "")
	assert.ErrorIs(t, err, personnel.ErrInvalidDates)
	_, err = svc.RequestLeave(ctx, "2", "Yıllık İzin", "07.06.2024", "2024-06-08", "")
	assert.Error(t, err)

	assert.ErrorIs(t, svc.Decide(ctx, "missing", domain.LeaveApproved), personnel.ErrLeaveNotFound)
	assert.ErrorIs(t, svc.Decide(ctx, "missing", domain.LeavePending), personnel.ErrInvalidStatus)
}

func TestKmRecords(t *testing.T) {
	svc, clk := setup(t)
	ctx := context.Background()

	_, err := svc.RecordKm(ctx, "2", 15200, domain.KmMorning)
	require.NoError(t, err)
	clk.Advance(9 * time.Hour)
	evening, err := svc.RecordKm(ctx, "2", 15340, domain.KmEvening)
	require.NoError(t, err)

	recs, err := svc.KmRecords(ctx, "2")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, evening, recs[0].ID)
	assert.Equal(t, 15340, recs[0].Km)

	_, err = svc.RecordKm(ctx, "2", -1, domain.KmMorning)
	assert.ErrorIs(t, err, personnel.ErrInvalidKm)
	_, err = svc.RecordKm(ctx, "2", 10, "noon")
	assert.ErrorIs(t, err, personnel.ErrInvalidKm)
}
