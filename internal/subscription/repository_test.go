package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSubscriptionMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func subscriptionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "member_id", "club_id", "plan_id", "status", "start_date", "end_date",
		"freeze_days_remaining", "frozen_at", "classes_remaining", "guest_passes_remaining",
		"paid_amount", "created_at", "updated_at",
	})
}

func TestRepository_Create(t *testing.T) {
	repo, mock, closeFn := setupSubscriptionMock(t)
	defer closeFn()

	start := day(2026, 6, 15)
	end := day(2027, 6, 15)
	classes := 12

	mock.ExpectQuery(`INSERT INTO subscriptions.*RETURNING`).
		WithArgs(5, 1, 2, string(StatusPendingPayment), start, end, 30, 12, 2).
		WillReturnRows(subscriptionRows().
			AddRow(9, 5, 1, 2, "pending_payment", start, end, 30, nil, 12, 2, nil, time.Now(), time.Now()))

	sub, err := repo.Create(context.Background(), &Subscription{
		MemberID:             5,
		ClubID:               1,
		PlanID:               2,
		Status:               StatusPendingPayment,
		StartDate:            start,
		EndDate:              end,
		FreezeDaysRemaining:  30,
		ClassesRemaining:     &classes,
		GuestPassesRemaining: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 9, sub.ID)
	assert.Equal(t, StatusPendingPayment, sub.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	repo, mock, closeFn := setupSubscriptionMock(t)
	defer closeFn()

	sub := activeSub()
	frozenAt := day(2026, 6, 10)
	sub.Status = StatusFrozen
	sub.FrozenAt = &frozenAt

	mock.ExpectExec(`UPDATE subscriptions`).
		WithArgs(1, string(StatusFrozen), sub.EndDate, 20, frozenAt, nil, 2, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), sub)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListExpirable(t *testing.T) {
	repo, mock, closeFn := setupSubscriptionMock(t)
	defer closeFn()

	today := day(2026, 6, 15)

	mock.ExpectQuery(`SELECT .* FROM subscriptions\s+WHERE club_id = \$1 AND status = 'active' AND end_date < \$2`).
		WithArgs(1, today).
		WillReturnRows(subscriptionRows().
			AddRow(3, 5, 1, 2, "active", day(2026, 1, 1), day(2026, 6, 1), 0, nil, nil, 0, nil, time.Now(), time.Now()))

	subs, err := repo.ListExpirable(context.Background(), 1, today)

	require.NoError(t, err)
	assert.Len(t, subs, 1)
	assert.Equal(t, 3, subs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
