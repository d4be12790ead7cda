package money

import "github.com/shopspring/decimal"

// TaxableFee is a net amount with the applicable tax rate attached.
// Contracts snapshot these at signing so later plan edits cannot reprice them.
type TaxableFee struct {
	Amount   decimal.Decimal `db:"amount" json:"amount"`
	Currency string          `db:"currency" json:"currency"`
	TaxRate  decimal.Decimal `db:"tax_rate" json:"tax_rate"`
}

func NewTaxableFee(amount decimal.Decimal, currency string, taxRate decimal.Decimal) TaxableFee {
	return TaxableFee{Amount: amount, Currency: currency, TaxRate: taxRate}
}

func ZeroTaxableFee(currency string) TaxableFee {
	return TaxableFee{Amount: decimal.Zero, Currency: currency, TaxRate: decimal.Zero}
}

// Net returns the amount before tax.
func (f TaxableFee) Net() Money {
	return Money{Amount: f.Amount, Currency: f.Currency}
}

// Gross returns amount * (1 + taxRate), unrounded. Callers round once at the
// final amount they present or post.
func (f TaxableFee) Gross() Money {
	gross := f.Amount.Mul(decimal.NewFromInt(1).Add(f.TaxRate))
	return Money{Amount: gross, Currency: f.Currency}
}

// WithAmount keeps currency and tax rate but swaps the net amount. Used when a
// pricing tier overrides or discounts a plan's base fee.
func (f TaxableFee) WithAmount(amount decimal.Decimal) TaxableFee {
	return TaxableFee{Amount: amount, Currency: f.Currency, TaxRate: f.TaxRate}
}
