package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cnkcrm/internal/observability/metrics"
)

func TestScheduleRunsRepeatedly(t *testing.T) {
	var runs atomic.Int32
	job := Schedule(context.Background(), zap.NewNop(), Config{Name: "test-repeat", Interval: 5 * time.Millisecond, Enabled: true}, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	require.NotNil(t, job)

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, time.Millisecond)
	job.Stop()
	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduleSurvivesFailures(t *testing.T) {
	var runs atomic.Int32
	job := Schedule(context.Background(), zap.NewNop(), Config{Name: "test-fail", Interval: 5 * time.Millisecond, Enabled: true}, func(context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})
	t.Cleanup(job.Stop)

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.WorkerTicks().WithLabelValues("test-fail", "error")), 2.0)
}

func TestScheduleStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	job := Schedule(ctx, zap.NewNop(), Config{Name: "test-ctx", Delay: time.Hour, Interval: time.Hour, Enabled: true}, func(context.Context) error {
		return nil
	})
	cancel()

	select {
	case <-job.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestScheduleDisabled(t *testing.T) {
	assert.Nil(t, Schedule(context.Background(), zap.NewNop(), Config{Name: "off"}, func(context.Context) error { return nil }))
}
