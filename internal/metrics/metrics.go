package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liyaqa_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "liyaqa_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ContractsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liyaqa_contracts_created_total",
			Help: "Total number of membership contracts created",
		},
		[]string{"contract_type"},
	)

	ContractsSignedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "liyaqa_contracts_signed_total",
			Help: "Total number of contracts signed by members",
		},
	)

	CancellationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liyaqa_cancellation_requests_total",
			Help: "Total number of cancellation requests by reason category",
		},
		[]string{"reason"},
	)

	CancellationOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liyaqa_cancellation_outcomes_total",
			Help: "Terminal cancellation outcomes (saved, completed, withdrawn)",
		},
		[]string{"outcome"},
	)

	RetentionOffersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liyaqa_retention_offers_total",
			Help: "Retention offers by type and outcome",
		},
		[]string{"offer_type", "outcome"},
	)

	PlanChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liyaqa_plan_changes_total",
			Help: "Executed plan changes by type and proration mode",
		},
		[]string{"change_type", "proration_mode"},
	)

	SubscriptionFreezesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liyaqa_subscription_freezes_total",
			Help: "Subscription freeze and unfreeze operations",
		},
		[]string{"operation"},
	)

	SubscriptionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "liyaqa_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
	)

	WalletTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liyaqa_wallet_transactions_total",
			Help: "Wallet transactions by type",
		},
		[]string{"type"},
	)

	NotificationsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liyaqa_notifications_queued_total",
			Help: "Notification trigger events queued",
		},
		[]string{"event"},
	)

	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liyaqa_sweep_runs_total",
			Help: "Background sweep runs by job and result",
		},
		[]string{"job", "result"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordContractCreated(contractType string) {
	ContractsCreatedTotal.WithLabelValues(contractType).Inc()
}

func RecordCancellationRequest(reason string) {
	CancellationRequestsTotal.WithLabelValues(reason).Inc()
}

func RecordCancellationOutcome(outcome string) {
	CancellationOutcomesTotal.WithLabelValues(outcome).Inc()
}

func RecordRetentionOffer(offerType, outcome string) {
	RetentionOffersTotal.WithLabelValues(offerType, outcome).Inc()
}

func RecordPlanChange(changeType, mode string) {
	PlanChangesTotal.WithLabelValues(changeType, mode).Inc()
}

func RecordWalletTransaction(txType string) {
	WalletTransactionsTotal.WithLabelValues(txType).Inc()
}

func RecordSweepRun(job, result string) {
	SweepRunsTotal.WithLabelValues(job, result).Inc()
}

func RecordNotificationQueued(event string) {
	NotificationsQueuedTotal.WithLabelValues(event).Inc()
}

func RecordSubscriptionFreeze(operation string) {
	SubscriptionFreezesTotal.WithLabelValues(operation).Inc()
}
