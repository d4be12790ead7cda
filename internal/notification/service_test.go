package notification

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"github.com/AminElhag/Liyaqa-sub011/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error")

	code := m.Run()
	os.Exit(code)
}

func TestSubscriptionFrozenQueues(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*subscription_frozen.*`).SetVal(1)

	svc := NewWithClient(db, "noreply@liyaqa.sa", "Liyaqa Team")

	svc.SubscriptionFrozen(ctx, "member@example.com", "Sara", "2026-12-01")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancellationRequestedQueues(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*cancellation_requested.*`).SetVal(1)

	svc := NewWithClient(db, "noreply@liyaqa.sa", "Liyaqa Team")

	svc.CancellationRequested(ctx, "member@example.com", "Sara", "2026-10-01", "500.00 SAR")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferPresentedQueues(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*offer_presented.*`).SetVal(1)

	svc := NewWithClient(db, "noreply@liyaqa.sa", "Liyaqa Team")

	svc.OfferPresented(ctx, "member@example.com", "Sara", "Free 30-day freeze", "2026-09-01")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen(queueKey).SetVal(3)

	svc := NewWithClient(db, "noreply@liyaqa.sa", "Liyaqa Team")

	assert.Equal(t, int64(3), svc.QueueLength(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueErrorIsSwallowed(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetErr(assert.AnError)

	svc := NewWithClient(db, "noreply@liyaqa.sa", "Liyaqa Team")

	// Fire-and-forget: a redis failure must not panic or surface.
	svc.PaymentConfirmed(ctx, "member@example.com", "Sara", "575.00 SAR")
	assert.NoError(t, mock.ExpectationsWereMet())
}
