package wallet

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/logger"
	"github.com/AminElhag/Liyaqa-sub011/internal/metrics"
)

type Service interface {
	GetBalance(ctx context.Context, memberID int) (*Wallet, error)
	HasSufficientBalance(ctx context.Context, memberID int, amount decimal.Decimal) (bool, error)
	ListTransactions(ctx context.Context, memberID, limit, offset int) ([]Transaction, error)

	Credit(ctx context.Context, memberID int, amount decimal.Decimal, description string) (*Wallet, error)
	Debit(ctx context.Context, memberID int, amount decimal.Decimal, description string) (*Wallet, error)
	ChargeSubscription(ctx context.Context, memberID, subscriptionID int, amount decimal.Decimal, description string) (*Wallet, error)
	Refund(ctx context.Context, memberID int, amount decimal.Decimal, description string, ref *Reference) (*Wallet, error)

	// Adjust posts one signed net movement: positive credits, negative
	// debits. Plan change proration lands here as a single row.
	Adjust(ctx context.Context, memberID int, net decimal.Decimal, description string, ref *Reference) (*Wallet, error)
}

type service struct {
	repo Repository
	log  logger.Component
}

func NewService(repo Repository) Service {
	return &service{repo: repo, log: logger.With("wallet")}
}

func (s *service) GetBalance(ctx context.Context, memberID int) (*Wallet, error) {
	return s.repo.GetOrCreate(ctx, memberID)
}

func (s *service) HasSufficientBalance(ctx context.Context, memberID int, amount decimal.Decimal) (bool, error) {
	w, err := s.repo.GetOrCreate(ctx, memberID)
	if err != nil {
		return false, err
	}
	return w.HasSufficientBalance(amount), nil
}

func (s *service) ListTransactions(ctx context.Context, memberID, limit, offset int) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, memberID, limit, offset)
}

func (s *service) Credit(ctx context.Context, memberID int, amount decimal.Decimal, description string) (*Wallet, error) {
	return s.apply(ctx, memberID, requirePositive(amount), TxCredit, description, nil)
}

func (s *service) Debit(ctx context.Context, memberID int, amount decimal.Decimal, description string) (*Wallet, error) {
	return s.apply(ctx, memberID, requirePositive(amount).Neg(), TxDebit, description, nil)
}

func (s *service) ChargeSubscription(ctx context.Context, memberID, subscriptionID int, amount decimal.Decimal, description string) (*Wallet, error) {
	ref := &Reference{Type: "subscription", ID: subscriptionID}
	return s.apply(ctx, memberID, requirePositive(amount).Neg(), TxCharge, description, ref)
}

func (s *service) Refund(ctx context.Context, memberID int, amount decimal.Decimal, description string, ref *Reference) (*Wallet, error) {
	return s.apply(ctx, memberID, requirePositive(amount), TxRefund, description, ref)
}

func (s *service) Adjust(ctx context.Context, memberID int, net decimal.Decimal, description string, ref *Reference) (*Wallet, error) {
	if net.IsZero() {
		return nil, apperr.Validationf("adjustment net must not be zero")
	}
	return s.apply(ctx, memberID, net, TxAdjustment, description, ref)
}

func (s *service) apply(ctx context.Context, memberID int, delta decimal.Decimal, txType, description string, ref *Reference) (*Wallet, error) {
	if delta.IsZero() {
		return nil, apperr.Validationf("%s amount must be positive", txType)
	}

	w, entry, err := s.repo.ApplyTransaction(ctx, memberID, delta, txType, description, ref)
	if err != nil {
		return nil, err
	}

	metrics.RecordWalletTransaction(txType)
	s.log.Infof("wallet %d %s %s, balance %s", w.ID, txType, entry.Amount, w.Balance)
	return w, nil
}

// requirePositive maps non-positive inputs to zero so apply rejects
// them with one validation path.
func requirePositive(amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	return amount
}
