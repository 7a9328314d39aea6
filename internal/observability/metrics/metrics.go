package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cnkcrm_store_operations_total",
		Help: "Store operations by table, operation and result",
	}, []string{"table", "op", "result"})

	liveRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cnkcrm_livequery_refreshes_total",
		Help: "Live query re-evaluations by result",
	}, []string{"result"})

	activeSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cnkcrm_livequery_active_subscriptions",
		Help: "Number of open live query subscriptions",
	})

	automationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cnkcrm_automation_runs_total",
		Help: "Stage change automation runs by target stage and result",
	}, []string{"stage", "result"})

	notificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cnkcrm_notifications_created_total",
		Help: "Notifications persisted by type",
	}, []string{"type"})

	workerTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cnkcrm_worker_ticks_total",
		Help: "Background worker ticks by worker and result",
	}, []string{"worker", "result"})

	collaboratorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cnkcrm_collaborator_calls_total",
		Help: "Simulated AI and ERP calls by collaborator and result",
	}, []string{"collaborator", "result"})
)

// ObserveStoreOperation counts one table operation.
func ObserveStoreOperation(table, op, result string) {
	storeOperations.WithLabelValues(table, op, result).Inc()
}

func ObserveLiveRefresh(result string) {
	liveRefreshes.WithLabelValues(result).Inc()
}

func SubscriptionOpened() { activeSubscriptions.Inc() }

func SubscriptionClosed() { activeSubscriptions.Dec() }

// ObserveAutomation counts one engine run for a target stage.
func ObserveAutomation(stage, result string) {
	automationRuns.WithLabelValues(stage, result).Inc()
}

func ObserveNotification(kind string) {
	notificationsCreated.WithLabelValues(kind).Inc()
}

func ObserveWorkerTick(worker, result string) {
	workerTicks.WithLabelValues(worker, result).Inc()
}

func ObserveCollaboratorCall(collaborator, result string) {
	collaboratorCalls.WithLabelValues(collaborator, result).Inc()
}

// Accessors for assertions in other packages.

func StoreOperations() *prometheus.CounterVec { return storeOperations }

func AutomationRuns() *prometheus.CounterVec { return automationRuns }

func NotificationsCreated() *prometheus.CounterVec { return notificationsCreated }

func WorkerTicks() *prometheus.CounterVec { return workerTicks }
