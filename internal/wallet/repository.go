package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const walletColumns = `id, member_id, balance, currency, created_at, updated_at`

func (r *repository) GetOrCreate(ctx context.Context, memberID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w,
		`SELECT `+walletColumns+` FROM wallets WHERE member_id = $1`, memberID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (member_id) VALUES ($1) RETURNING `+walletColumns,
		memberID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

func (r *repository) ApplyTransaction(ctx context.Context, memberID int, delta decimal.Decimal, txType, description string, ref *Reference) (*Wallet, *Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var w Wallet
	err = tx.QueryRowxContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE member_id = $1 FOR UPDATE`,
		memberID,
	).StructScan(&w)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, err
		}
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO wallets (member_id) VALUES ($1) RETURNING `+walletColumns,
			memberID,
		).StructScan(&w)
		if err != nil {
			return nil, nil, err
		}
	}

	newBalance := w.Balance.Add(delta)

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return nil, nil, err
	}

	var refType *string
	var refID *int
	if ref != nil {
		refType = &ref.Type
		refID = &ref.ID
	}

	var entry Transaction
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, type, amount, balance_after, description, reference_type, reference_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, wallet_id, type, amount, balance_after, description, reference_type, reference_id, created_at`,
		w.ID, txType, delta, newBalance, description, refType, refID,
	).StructScan(&entry)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	w.Balance = newBalance
	return &w, &entry, nil
}

func (r *repository) ListTransactions(ctx context.Context, memberID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var walletID int
	err := r.db.GetContext(ctx, &walletID, `SELECT id FROM wallets WHERE member_id = $1`, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Transaction{}, nil
		}
		return nil, err
	}

	var txs []Transaction
	err = r.db.SelectContext(ctx, &txs, `
		SELECT id, wallet_id, type, amount, balance_after, description, reference_type, reference_id, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
