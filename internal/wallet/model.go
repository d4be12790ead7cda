package wallet

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/money"
)

// Wallet is a member's balance account. Debits may push it negative;
// a negative balance is member debt, not an error.
type Wallet struct {
	ID        int             `db:"id" json:"id"`
	MemberID  int             `db:"member_id" json:"member_id"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	Currency  string          `db:"currency" json:"currency"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

func (w *Wallet) BalanceMoney() money.Money {
	return money.New(w.Balance, w.Currency)
}

func (w *Wallet) HasSufficientBalance(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

const (
	TxCredit     = "credit"
	TxDebit      = "debit"
	TxCharge     = "charge"
	TxRefund     = "refund"
	TxAdjustment = "adjustment"
)

// Transaction is one append-only ledger row. Amount is the signed
// balance delta, so replaying the log from zero reproduces the
// balance; balance_after is the balance right after this row.
type Transaction struct {
	ID            int             `db:"id" json:"id"`
	WalletID      int             `db:"wallet_id" json:"wallet_id"`
	Type          string          `db:"type" json:"type"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	Description   string          `db:"description" json:"description"`
	ReferenceType *string         `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID   *int            `db:"reference_id" json:"reference_id,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Reference links a transaction back to the domain record that caused
// it, e.g. {"subscription", 9} for a subscription charge.
type Reference struct {
	Type string
	ID   int
}

type CreditRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type DebitRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type AdjustRequest struct {
	// Signed: positive credits the wallet, negative debits it.
	Net         string `json:"net" binding:"required"`
	Description string `json:"description" binding:"required"`
}
