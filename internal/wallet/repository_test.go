package wallet

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWalletMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func walletRows(id, memberID int, balance string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "member_id", "balance", "currency", "created_at", "updated_at"}).
		AddRow(id, memberID, balance, "SAR", time.Now(), time.Now())
}

func TestGetOrCreate_CreatesWhenMissing(t *testing.T) {
	repo, mock, closeFn := setupWalletMock(t)
	defer closeFn()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, member_id, balance, currency, created_at, updated_at FROM wallets WHERE member_id = $1")).
		WithArgs(10).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO wallets \(member_id\) VALUES \(\$1\) RETURNING`).
		WithArgs(10).
		WillReturnRows(walletRows(5, 10, "0"))

	w, err := repo.GetOrCreate(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 5, w.ID)
	assert.True(t, w.Balance.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransaction_DebitWritesLedgerRow(t *testing.T) {
	repo, mock, closeFn := setupWalletMock(t)
	defer closeFn()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, member_id, balance, currency, created_at, updated_at FROM wallets WHERE member_id = $1 FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, "200"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs("125", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO wallet_transactions`).
		WithArgs(7, TxCharge, "-75", "125", "plan change proration", "subscription", 9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "type", "amount", "balance_after", "description", "reference_type", "reference_id", "created_at"}).
			AddRow(1, 7, TxCharge, "-75", "125", "plan change proration", "subscription", 9, time.Now()))
	mock.ExpectCommit()

	w, entry, err := repo.ApplyTransaction(context.Background(), 20,
		decimal.RequireFromString("-75"), TxCharge, "plan change proration",
		&Reference{Type: "subscription", ID: 9})

	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("125")))
	assert.True(t, entry.BalanceAfter.Equal(decimal.RequireFromString("125")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransaction_BalanceMayGoNegative(t *testing.T) {
	repo, mock, closeFn := setupWalletMock(t)
	defer closeFn()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, member_id, balance, currency, created_at, updated_at FROM wallets WHERE member_id = $1 FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, "50"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs("-150", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO wallet_transactions`).
		WithArgs(7, TxDebit, "-200", "-150", "early termination fee", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "type", "amount", "balance_after", "description", "reference_type", "reference_id", "created_at"}).
			AddRow(2, 7, TxDebit, "-200", "-150", "early termination fee", nil, nil, time.Now()))
	mock.ExpectCommit()

	w, _, err := repo.ApplyTransaction(context.Background(), 20,
		decimal.RequireFromString("-200"), TxDebit, "early termination fee", nil)

	require.NoError(t, err)
	assert.True(t, w.Balance.IsNegative())
	assert.NoError(t, mock.ExpectationsWereMet())
}
