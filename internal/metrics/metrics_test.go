package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/contracts", "201", 0.25)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/contracts", "201"))
	assert.Equal(t, float64(1), count)
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/auth/login", "200", 0.1)
	RecordHTTPRequest("POST", "/auth/login", "200", 0.2)
	RecordHTTPRequest("POST", "/auth/login", "401", 0.05)

	successCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "200"))
	failCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "401"))

	assert.Equal(t, float64(2), successCount)
	assert.Equal(t, float64(1), failCount)
}

func TestRecordCancellationOutcomes(t *testing.T) {
	CancellationOutcomesTotal.Reset()

	RecordCancellationOutcome("saved")
	RecordCancellationOutcome("saved")
	RecordCancellationOutcome("completed")

	saved := testutil.ToFloat64(CancellationOutcomesTotal.WithLabelValues("saved"))
	completed := testutil.ToFloat64(CancellationOutcomesTotal.WithLabelValues("completed"))

	assert.Equal(t, float64(2), saved)
	assert.Equal(t, float64(1), completed)
}

func TestRecordRetentionOffer(t *testing.T) {
	RetentionOffersTotal.Reset()

	RecordRetentionOffer("free_freeze", "presented")
	RecordRetentionOffer("free_freeze", "accepted")
	RecordRetentionOffer("discount", "presented")

	presented := testutil.ToFloat64(RetentionOffersTotal.WithLabelValues("free_freeze", "presented"))
	accepted := testutil.ToFloat64(RetentionOffersTotal.WithLabelValues("free_freeze", "accepted"))

	assert.Equal(t, float64(1), presented)
	assert.Equal(t, float64(1), accepted)
}

func TestRecordPlanChange(t *testing.T) {
	PlanChangesTotal.Reset()

	RecordPlanChange("upgrade", "prorate_immediately")
	RecordPlanChange("downgrade", "end_of_period")

	upgrades := testutil.ToFloat64(PlanChangesTotal.WithLabelValues("upgrade", "prorate_immediately"))
	downgrades := testutil.ToFloat64(PlanChangesTotal.WithLabelValues("downgrade", "end_of_period"))

	assert.Equal(t, float64(1), upgrades)
	assert.Equal(t, float64(1), downgrades)
}

func TestRecordWalletTransaction(t *testing.T) {
	WalletTransactionsTotal.Reset()

	RecordWalletTransaction("credit")
	RecordWalletTransaction("subscription_charge")
	RecordWalletTransaction("subscription_charge")

	charges := testutil.ToFloat64(WalletTransactionsTotal.WithLabelValues("subscription_charge"))
	assert.Equal(t, float64(2), charges)
}

func TestRecordSweepRun(t *testing.T) {
	SweepRunsTotal.Reset()

	RecordSweepRun("scheduled_plan_changes", "ok")
	RecordSweepRun("scheduled_plan_changes", "error")

	ok := testutil.ToFloat64(SweepRunsTotal.WithLabelValues("scheduled_plan_changes", "ok"))
	failed := testutil.ToFloat64(SweepRunsTotal.WithLabelValues("scheduled_plan_changes", "error"))

	assert.Equal(t, float64(1), ok)
	assert.Equal(t, float64(1), failed)
}
