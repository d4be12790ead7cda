package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	GetOrCreate(ctx context.Context, memberID int) (*Wallet, error)

	// ApplyTransaction mutates the balance by the signed delta and
	// appends the matching ledger row, atomically, with the wallet row
	// locked for the duration.
	ApplyTransaction(ctx context.Context, memberID int, delta decimal.Decimal, txType, description string, ref *Reference) (*Wallet, *Transaction, error)

	ListTransactions(ctx context.Context, memberID, limit, offset int) ([]Transaction, error)
}
